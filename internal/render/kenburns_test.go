package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
	"time"
)

func TestDriftDeterministic(t *testing.T) {
	a := NewDrift("the same narration", 0.001, 5*time.Second, 30)
	b := NewDrift("the same narration", 0.001, 5*time.Second, 30)

	for _, at := range []time.Duration{0, time.Second, 2500 * time.Millisecond, 5 * time.Second} {
		ca, cb := a.At(at), b.At(at)
		if ca != cb {
			t.Fatalf("Same text produced different cameras at %v: %+v vs %+v", at, ca, cb)
		}
	}

	c := NewDrift("a different narration", 0.001, 5*time.Second, 30)
	same := true
	for _, at := range []time.Duration{time.Second, 3 * time.Second} {
		if a.At(at) != c.At(at) {
			same = false
		}
	}
	if same {
		t.Error("Different texts should generally produce different drifts")
	}
}

func TestDriftZoomEnvelope(t *testing.T) {
	d := NewDrift("envelope", 0.002, 10*time.Second, 30)
	d.zoomIn = true

	if z := d.At(0).Zoom; math.Abs(z-1.0) > 1e-9 {
		t.Errorf("Zoom-in must start at 1.0, got %f", z)
	}

	prev := 1.0
	for s := 0.0; s <= 10.0; s += 0.1 {
		z := d.At(time.Duration(s * float64(time.Second))).Zoom
		if z > maxZoomPeak+1e-9 {
			t.Fatalf("Zoom %f exceeds peak cap at %.1fs", z, s)
		}
		if z < 1.0-1e-9 {
			t.Fatalf("Zoom %f dropped below 1.0 at %.1fs", z, s)
		}
		_ = prev
		prev = z
	}

	if z := d.At(10 * time.Second).Zoom; math.Abs(z-1.0) > 1e-6 {
		t.Errorf("Zoom-in must settle at 1.0 by segment end, got %f", z)
	}
}

func TestViewportStaysInsideImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1024, 1024))
	d := NewDrift("viewport bounds", 0.003, 6*time.Second, 30)
	d.Anchor(0.95, 0.05) // extreme corner on purpose

	for s := 0.0; s <= 6.0; s += 0.2 {
		cam := d.At(time.Duration(s * float64(time.Second)))
		vp := cam.Viewport(img)
		if !vp.In(img.Bounds()) {
			t.Fatalf("Viewport %v escapes image bounds at %.1fs (cam %+v)", vp, s, cam)
		}
		if vp.Dx() == 0 || vp.Dy() == 0 {
			t.Fatalf("Degenerate viewport %v at %.1fs", vp, s)
		}
	}
}

func TestFocusPointFindsBusyRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	draw.Draw(img, img.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)

	// Checkerboard patch in the bottom-right quadrant.
	for y := 180; y < 230; y++ {
		for x := 180; x < 230; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}

	cx, cy := FocusPoint(img)
	if cx < 0.6 || cy < 0.6 {
		t.Errorf("Expected focus in the bottom-right quadrant, got (%.2f, %.2f)", cx, cy)
	}
}

func TestFocusPointFlatImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Rect, image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), image.Point{}, draw.Src)

	cx, cy := FocusPoint(img)
	if cx != 0.5 || cy != 0.5 {
		t.Errorf("Flat image should focus dead center, got (%.2f, %.2f)", cx, cy)
	}
}
