package timeline

import (
	"errors"
	"testing"
)

func TestAssembleFiltersNonRenderableScenes(t *testing.T) {
	req := RenderRequest{
		Scenes: []Scene{
			{ID: 1, ImageSource: "a.png", AudioSource: "a.mp3"},
			{ID: 2, ImageSource: "b.png"},                       // no audio
			{ID: 3, AudioSource: "c.mp3"},                       // no image
			{ID: 4, ImageSource: "d.png", AudioSource: "d.mp3"}, // ok
		},
	}

	tl, err := Assemble(req)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(tl.Scenes) != 2 {
		t.Fatalf("Expected 2 renderable scenes, got %d", len(tl.Scenes))
	}
	if tl.Scenes[0].ID != 1 || tl.Scenes[1].ID != 4 {
		t.Errorf("Scene order broken: %d, %d", tl.Scenes[0].ID, tl.Scenes[1].ID)
	}
}

func TestAssembleEmpty(t *testing.T) {
	cases := []struct {
		name string
		req  RenderRequest
	}{
		{"nothing", RenderRequest{}},
		{"scenes missing assets", RenderRequest{Scenes: []Scene{{ID: 1, ImageSource: "a.png"}}}},
		{"intro without audio", RenderRequest{Intro: &Intro{ImageSource: "i.png", Title: "T"}}},
		{"outro without audio", RenderRequest{Outro: &Outro{ImageSource: "o.png", Message: "bye"}}},
		{"outro without any image", RenderRequest{Outro: &Outro{Message: "bye", AudioSource: "o.mp3"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.req)
			var empty EmptyError
			if !errors.As(err, &empty) {
				t.Errorf("Expected EmptyError, got %v", err)
			}
		})
	}
}

func TestAssembleOutroImageFallback(t *testing.T) {
	// Falls back to the last renderable scene's image.
	req := RenderRequest{
		Scenes: []Scene{
			{ID: 1, ImageSource: "a.png", AudioSource: "a.mp3"},
			{ID: 2, ImageSource: "b.png", AudioSource: "b.mp3"},
			{ID: 3, ImageSource: "late.png"}, // filtered, must not win
		},
		Outro: &Outro{Message: "bye", AudioSource: "o.mp3"},
	}
	tl, err := Assemble(req)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if tl.Outro == nil || tl.Outro.ImageSource != "b.png" {
		t.Fatalf("Expected outro image b.png, got %+v", tl.Outro)
	}

	// Falls back to the intro's image when there are no scenes.
	req = RenderRequest{
		Intro: &Intro{ImageSource: "i.png", Title: "T", AudioSource: "i.mp3"},
		Outro: &Outro{Message: "bye", AudioSource: "o.mp3"},
	}
	tl, err = Assemble(req)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if tl.Outro == nil || tl.Outro.ImageSource != "i.png" {
		t.Fatalf("Expected outro image i.png, got %+v", tl.Outro)
	}
}

func TestSegmentCount(t *testing.T) {
	tl := &Timeline{
		Intro:  &Intro{ImageSource: "i.png", AudioSource: "i.mp3"},
		Scenes: []Scene{{ID: 1}, {ID: 2}},
		Outro:  &Outro{ImageSource: "o.png", AudioSource: "o.mp3"},
	}
	if got := tl.SegmentCount(); got != 4 {
		t.Errorf("Expected 4 segments, got %d", got)
	}
}
