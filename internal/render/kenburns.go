package render

import (
	"hash/fnv"
	"image"
	"time"
)

// Camera is the living-image state at one instant: a zoom factor and the
// normalized center of the visible region.
type Camera struct {
	Zoom float64
	CX   float64
	CY   float64
}

// anchors are the drift targets the hash picks from, mirroring the classic
// zoompan corner modes.
var anchors = []struct{ x, y float64 }{
	{0.5, 0.5}, // center
	{0.3, 0.3}, // top-left
	{0.7, 0.3}, // top-right
	{0.3, 0.7}, // bottom-left
	{0.7, 0.7}, // bottom-right
}

const maxZoomPeak = 1.5

// Drift is the continuous slow zoom/pan running for a whole segment,
// independent of any transition. Its parameters derive deterministically
// from a hash of the segment's text, so re-rendering the same content
// reproduces the same motion.
type Drift struct {
	anchorX, anchorY float64
	zoomIn           bool

	// Zoom envelope in frame units: ramp to peak, plateau, return to 1.0.
	peakFrame   float64
	outroFrame  float64
	totalFrames float64
	peak        float64
	speed       float64
	fps         float64
}

// NewDrift derives a drift for a segment. speed is the zoom increment per
// frame; the envelope ramps to a capped peak, holds it, and eases back to
// 1:1 before the segment ends so the next transition starts from a clean
// frame.
func NewDrift(seedText string, speed float64, duration time.Duration, fps int) *Drift {
	h := fnv.New64a()
	h.Write([]byte(seedText))
	seed := h.Sum64()

	anchor := anchors[seed%uint64(len(anchors))]

	if speed <= 0 {
		speed = 0.001
	}

	total := duration.Seconds() * float64(fps)
	outroLen := float64(fps) // one second of return travel

	peakFrame := 0.5 / speed
	if peakFrame > (total-outroLen)/2 && total > outroLen {
		peakFrame = (total - outroLen) / 2
	}
	peak := 1.0 + speed*peakFrame
	if peak > maxZoomPeak {
		peak = maxZoomPeak
		peakFrame = (maxZoomPeak - 1.0) / speed
	}
	outroFrame := total - outroLen
	if outroFrame < peakFrame {
		outroFrame = peakFrame
	}

	return &Drift{
		anchorX:     anchor.x,
		anchorY:     anchor.y,
		zoomIn:      seed&(1<<8) == 0,
		peakFrame:   peakFrame,
		outroFrame:  outroFrame,
		totalFrames: total,
		peak:        peak,
		speed:       speed,
		fps:         float64(fps),
	}
}

// Anchor overrides the drift target, used by the saliency-guided focus mode.
func (d *Drift) Anchor(cx, cy float64) {
	d.anchorX, d.anchorY = cx, cy
}

// At evaluates the camera at a time offset into the segment.
func (d *Drift) At(t time.Duration) Camera {
	on := t.Seconds() * d.fps

	var zoom float64
	if d.zoomIn {
		switch {
		case on <= d.peakFrame:
			zoom = 1.0 + d.speed*on
		case on <= d.outroFrame:
			zoom = d.peak
		case on <= d.totalFrames && d.totalFrames > d.outroFrame:
			zoom = d.peak - (d.peak-1.0)*(on-d.outroFrame)/(d.totalFrames-d.outroFrame)
		default:
			zoom = 1.0
		}
	} else {
		// Zoom-out variant: open at the peak framing and ease down to 1:1.
		zoom = d.peak - d.speed*on
		if zoom < 1.0 {
			zoom = 1.0
		}
	}

	// Pan travels toward the anchor proportionally to how far the zoom has
	// progressed; at zoom 1.0 the center must be 0.5 or the crop would
	// leave the image.
	travel := (zoom - 1.0) / (maxZoomPeak - 1.0)
	return Camera{
		Zoom: zoom,
		CX:   0.5 + (d.anchorX-0.5)*travel,
		CY:   0.5 + (d.anchorY-0.5)*travel,
	}
}

// Viewport converts the camera into the source rectangle of img that the
// surface should display.
func (c Camera) Viewport(img image.Image) image.Rectangle {
	b := img.Bounds()
	w := float64(b.Dx()) / c.Zoom
	h := float64(b.Dy()) / c.Zoom

	x := float64(b.Min.X) + c.CX*float64(b.Dx()) - w/2
	y := float64(b.Min.Y) + c.CY*float64(b.Dy()) - h/2

	// Keep the viewport inside the image.
	if x < float64(b.Min.X) {
		x = float64(b.Min.X)
	}
	if y < float64(b.Min.Y) {
		y = float64(b.Min.Y)
	}
	if x+w > float64(b.Max.X) {
		x = float64(b.Max.X) - w
	}
	if y+h > float64(b.Max.Y) {
		y = float64(b.Max.Y) - h
	}

	return image.Rect(int(x), int(y), int(x+w), int(y+h))
}
