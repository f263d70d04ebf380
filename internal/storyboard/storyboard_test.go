package storyboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/godsake999/SceneSynth/internal/timeline"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")

	sb := &Storyboard{
		Intro: &timeline.Intro{ImageSource: "cover.png", Title: "A Story", AudioSource: "intro.mp3"},
		Scenes: []timeline.Scene{
			{ID: 1, NarrationText: "first line", ImageSource: "a.png", AudioSource: "a.mp3"},
			{ID: 2, NarrationText: "second line", ImageSource: "deck.pdf#2", AudioSource: "b.mp3"},
		},
		Outro: &timeline.Outro{Message: "bye", AudioSource: "out.mp3", Link: "https://example.com"},
	}
	if err := Write(sb, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Version != currentVersion {
		t.Errorf("Version = %q, want %q", got.Version, currentVersion)
	}
	if len(got.Scenes) != 2 || got.Scenes[1].ImageSource != "deck.pdf#2" {
		t.Errorf("scenes did not survive the round trip: %+v", got.Scenes)
	}
	if got.Intro == nil || got.Intro.Title != "A Story" {
		t.Errorf("intro did not survive: %+v", got.Intro)
	}
	if got.Outro == nil || got.Outro.Link != "https://example.com" {
		t.Errorf("outro did not survive: %+v", got.Outro)
	}
}

func TestReadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scenes: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestRequestConversion(t *testing.T) {
	sb := &Storyboard{
		Scenes: []timeline.Scene{{ID: 1, NarrationText: "x", ImageSource: "i", AudioSource: "a"}},
	}
	req := sb.Request()
	if req.Intro != nil || req.Outro != nil {
		t.Error("empty sections should stay nil in the request")
	}
	if len(req.Scenes) != 1 {
		t.Errorf("got %d scenes, want 1", len(req.Scenes))
	}
}

func TestSkeleton(t *testing.T) {
	sb := Skeleton(3)
	if len(sb.Scenes) != 3 {
		t.Fatalf("got %d scene slots, want 3", len(sb.Scenes))
	}
	for i, sc := range sb.Scenes {
		if sc.ID != i+1 {
			t.Errorf("scene %d has ID %d", i, sc.ID)
		}
	}
	if sb.Intro == nil || sb.Outro == nil {
		t.Error("skeleton should include intro and outro stubs")
	}
}
