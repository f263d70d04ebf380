package render

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// Kind identifies one transition from the fixed palette.
type Kind string

const (
	None       Kind = "none"
	Fade       Kind = "fade"
	SlideLeft  Kind = "slide-left"
	SlideRight Kind = "slide-right"
	SlideUp    Kind = "slide-up"
	SlideDown  Kind = "slide-down"
	Zoom       Kind = "zoom"
	WipeLeft   Kind = "wipe-left"
	WipeRight  Kind = "wipe-right"
)

// Palette is the set a scene's transition is drawn from. The choice is
// random per scene, independent of the narration content.
var Palette = []Kind{
	Fade, SlideLeft, SlideRight, SlideUp, SlideDown, Zoom, WipeLeft, WipeRight,
}

// PickTransition draws a random kind from the palette. The rand source is
// injected so tests can pin the sequence.
func PickTransition(r *rand.Rand) Kind {
	return Palette[r.Intn(len(Palette))]
}

// Compose writes the interpolated frame between outgoing and incoming at
// progress into the surface. Every kind is a pure function of progress:
// progress 0 reproduces outgoing exactly, progress 1 reproduces incoming.
// Values outside [0,1] clamp.
func Compose(s *Surface, outgoing, incoming *image.RGBA, kind Kind, progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	dst := s.RGBA()
	bounds := dst.Rect
	w, h := bounds.Dx(), bounds.Dy()

	switch kind {
	case Fade:
		draw.Draw(dst, bounds, incoming, incoming.Rect.Min, draw.Src)
		a := uint8((1 - progress) * 255)
		draw.DrawMask(dst, bounds, outgoing, outgoing.Rect.Min,
			image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)

	case SlideLeft, SlideRight, SlideUp, SlideDown:
		// Incoming pushes outgoing off the surface along one axis.
		var dx, dy, inX, inY int
		switch kind {
		case SlideLeft:
			dx = -int(progress * float64(w))
			inX = dx + w
		case SlideRight:
			dx = int(progress * float64(w))
			inX = dx - w
		case SlideUp:
			dy = -int(progress * float64(h))
			inY = dy + h
		case SlideDown:
			dy = int(progress * float64(h))
			inY = dy - h
		}
		draw.Draw(dst, bounds.Add(image.Pt(dx, dy)), outgoing, outgoing.Rect.Min, draw.Src)
		draw.Draw(dst, bounds.Add(image.Pt(inX, inY)), incoming, incoming.Rect.Min, draw.Src)

	case Zoom:
		// Incoming grows from the center over the frozen outgoing frame.
		draw.Draw(dst, bounds, outgoing, outgoing.Rect.Min, draw.Src)
		zw := int(progress * float64(w))
		zh := int(progress * float64(h))
		if zw > 0 && zh > 0 {
			zone := image.Rect(
				bounds.Min.X+(w-zw)/2, bounds.Min.Y+(h-zh)/2,
				bounds.Min.X+(w-zw)/2+zw, bounds.Min.Y+(h-zh)/2+zh,
			)
			CoverInto(dst, zone, incoming)
		}

	case WipeLeft:
		// Incoming sweeps in from the right edge.
		draw.Draw(dst, bounds, outgoing, outgoing.Rect.Min, draw.Src)
		edge := int(progress * float64(w))
		zone := image.Rect(bounds.Max.X-edge, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		draw.Draw(dst, zone, incoming, image.Pt(incoming.Rect.Min.X+w-edge, incoming.Rect.Min.Y), draw.Src)

	case WipeRight:
		draw.Draw(dst, bounds, outgoing, outgoing.Rect.Min, draw.Src)
		edge := int(progress * float64(w))
		zone := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+edge, bounds.Max.Y)
		draw.Draw(dst, zone, incoming, incoming.Rect.Min, draw.Src)

	default: // None
		draw.Draw(dst, bounds, incoming, incoming.Rect.Min, draw.Src)
	}
}
