// Package storyboard reads and writes render requests as YAML files, the
// on-disk form the CLI consumes.
package storyboard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/godsake999/SceneSynth/internal/timeline"
)

// Storyboard is the YAML document: a render request plus a format version.
type Storyboard struct {
	Version string           `yaml:"version"`
	Intro   *timeline.Intro  `yaml:"intro,omitempty"`
	Scenes  []timeline.Scene `yaml:"scenes"`
	Outro   *timeline.Outro  `yaml:"outro,omitempty"`
}

const currentVersion = "1"

// Read loads a storyboard from a YAML file.
func Read(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sb Storyboard
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return nil, fmt.Errorf("parse storyboard %s: %w", path, err)
	}
	return &sb, nil
}

// Write saves a storyboard to a YAML file, stamping the current version.
func Write(sb *Storyboard, path string) error {
	sb.Version = currentVersion
	data, err := yaml.Marshal(sb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Request converts the document into the compositor's input contract.
func (sb *Storyboard) Request() timeline.RenderRequest {
	return timeline.RenderRequest{
		Intro:  sb.Intro,
		Scenes: sb.Scenes,
		Outro:  sb.Outro,
	}
}

// Skeleton builds an empty storyboard with the given number of scene slots,
// for the init command.
func Skeleton(scenes int) *Storyboard {
	sb := &Storyboard{
		Version: currentVersion,
		Intro:   &timeline.Intro{Title: "Title goes here"},
		Outro:   &timeline.Outro{Message: "Thanks for watching"},
	}
	for i := 0; i < scenes; i++ {
		sb.Scenes = append(sb.Scenes, timeline.Scene{ID: i + 1})
	}
	return sb
}
