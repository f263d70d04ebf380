package render

import (
	"image"
	"math"
)

// FocusPoint finds the normalized center of the most visually busy region of
// an image: grayscale, Sobel gradient magnitude, energy summed over a coarse
// grid, densest cell wins. Deterministic, so the smart-focus drift stays
// reproducible across renders.
func FocusPoint(img image.Image) (cx, cy float64) {
	const grid = 8

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0.5, 0.5
	}

	gray := toGrayscale(img)

	var energy [grid][grid]float64
	cellW := float64(w) / grid
	cellH := float64(h) / grid

	// Sample every other pixel; the grid is coarse enough that the halved
	// resolution never moves the winning cell.
	for y := 1; y < h-1; y += 2 {
		for x := 1; x < w-1; x += 2 {
			gx := -gray[y-1][x-1] - 2*gray[y][x-1] - gray[y+1][x-1] +
				gray[y-1][x+1] + 2*gray[y][x+1] + gray[y+1][x+1]
			gy := -gray[y-1][x-1] - 2*gray[y-1][x] - gray[y-1][x+1] +
				gray[y+1][x-1] + 2*gray[y+1][x] + gray[y+1][x+1]

			mag := math.Sqrt(gx*gx + gy*gy)
			ci := int(float64(x) / cellW)
			cj := int(float64(y) / cellH)
			if ci >= grid {
				ci = grid - 1
			}
			if cj >= grid {
				cj = grid - 1
			}
			energy[cj][ci] += mag
		}
	}

	best := 0.0
	bi, bj := grid/2, grid/2
	for j := 0; j < grid; j++ {
		for i := 0; i < grid; i++ {
			if energy[j][i] > best {
				best = energy[j][i]
				bi, bj = i, j
			}
		}
	}

	// A flat image has no meaningful focus; keep the center.
	if best == 0 {
		return 0.5, 0.5
	}

	return (float64(bi) + 0.5) / grid, (float64(bj) + 0.5) / grid
}

// toGrayscale converts to a luminance matrix indexed [y][x].
func toGrayscale(img image.Image) [][]float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := make([][]float64, h)
	for y := 0; y < h; y++ {
		gray[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			gray[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
		}
	}
	return gray
}
