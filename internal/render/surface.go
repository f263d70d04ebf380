package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/godsake999/SceneSynth/internal/system"
)

// Surface is the single shared drawable target. Segments play strictly
// sequentially, so there is exactly one writer at any instant and no locking.
type Surface struct {
	img *image.RGBA
}

func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// RGBA exposes the backing frame for the capture pipeline.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// Snapshot copies the current frame into a pooled buffer. Used to freeze the
// outgoing frame before a transition starts.
func (s *Surface) Snapshot() *image.RGBA {
	dst := system.GetImage(s.img.Rect)
	copy(dst.Pix, s.img.Pix)
	return dst
}

// Release returns a snapshot to the pool.
func (s *Surface) Release(img *image.RGBA) {
	system.PutImage(img)
}

// Fill paints the whole surface with one color.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawRegion scales srcRect of src onto the full surface. This is the
// camera: the Ken-Burns drift shrinks and moves srcRect every frame.
func (s *Surface) DrawRegion(src image.Image, srcRect image.Rectangle) {
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Rect, src, srcRect, draw.Src, nil)
}

// DrawCover scales src to cover dst entirely, cropping the overflow evenly.
// AI-generated stills are square; the 9:16 surface keeps their center band.
func (s *Surface) DrawCover(src image.Image) {
	CoverInto(s.img, s.img.Rect, src)
}

// Darken multiplies the frame toward black. amount 0 leaves the frame alone,
// 1 is full black.
func (s *Surface) Darken(amount float64) {
	if amount <= 0 {
		return
	}
	if amount > 1 {
		amount = 1
	}
	a := uint8(amount * 255)
	draw.DrawMask(s.img, s.img.Rect,
		image.NewUniform(color.Black), image.Point{},
		image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
}

// CoverInto scales src so it fully covers dstRect, centered, cropping the
// overflowing axis.
func CoverInto(dst *image.RGBA, dstRect image.Rectangle, src image.Image) {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	dstW, dstH := dstRect.Dx(), dstRect.Dy()
	if srcW == 0 || srcH == 0 || dstW == 0 || dstH == 0 {
		return
	}

	scaleX := float64(dstW) / float64(srcW)
	scaleY := float64(dstH) / float64(srcH)
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	cropW := int(float64(dstW) / scale)
	cropH := int(float64(dstH) / scale)
	crop := image.Rect(
		sb.Min.X+(srcW-cropW)/2,
		sb.Min.Y+(srcH-cropH)/2,
		sb.Min.X+(srcW-cropW)/2+cropW,
		sb.Min.Y+(srcH-cropH)/2+cropH,
	)

	xdraw.ApproxBiLinear.Scale(dst, dstRect, src, crop, draw.Src, nil)
}
