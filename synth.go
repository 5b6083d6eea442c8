package watermark

import (
	"image"
	"math"
)

const (
	// Overlay opacities below alphaThreshold are treated as untouched
	// background; the fill is feathered in between alphaThreshold and
	// featherCap and fully replaces the source above featherCap.
	alphaThreshold = 0.002
	featherCap     = 0.10
)

// synthesizePatch builds replacement content for rect, reading only pixels
// of src that lie outside rect. The returned patch has rect's dimensions
// with its origin at (0, 0).
//
// Each patch pixel is an inverse-distance-squared blend of the nearest
// out-of-region pixels along the eight compass rays. Because the region is
// a rectangle, the nearest exit point of every ray is arithmetic, so the
// whole pass is linear in region area. A small smoothing pass removes the
// star-shaped shading the rays would otherwise leave, and logoAlpha, when
// it matches the region size, feathers the fill so the patch tracks the
// source wherever the overlay is near transparent.
func synthesizePatch(src *image.NRGBA, rect image.Rectangle, logoAlpha []float32) *image.NRGBA {
	patch := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	bounds := src.Bounds()

	// A region covering the whole frame leaves nothing to sample from;
	// synthesis degenerates to a copy of the source.
	if rect == bounds {
		copyRegion(patch, src, rect)
		return patch
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			fillPixel(src, bounds, rect, x, y, patch)
		}
	}

	smoothPatch(patch)

	if len(logoAlpha) == rect.Dx()*rect.Dy() {
		featherPatch(patch, src, rect, logoAlpha)
	}

	return patch
}

// fillPixel computes the ray blend for one region pixel and writes it into
// the patch at the region-relative position.
func fillPixel(src *image.NRGBA, bounds, rect image.Rectangle, x, y int, patch *image.NRGBA) {
	// Distances to the first pixel outside the region on each axis.
	dL := x - rect.Min.X + 1
	dR := rect.Max.X - x
	dU := y - rect.Min.Y + 1
	dD := rect.Max.Y - y

	var sum [4]float64
	var weight float64

	sample := func(sx, sy, d int) {
		if sx < bounds.Min.X || sx >= bounds.Max.X || sy < bounds.Min.Y || sy >= bounds.Max.Y {
			return
		}
		w := 1.0 / float64(d*d)
		off := src.PixOffset(sx, sy)
		for c := 0; c < 4; c++ {
			sum[c] += w * float64(src.Pix[off+c])
		}
		weight += w
	}

	sample(x-dL, y, dL)
	sample(x+dR, y, dR)
	sample(x, y-dU, dU)
	sample(x, y+dD, dD)

	d := min(dL, dU)
	sample(x-d, y-d, d)
	d = min(dR, dU)
	sample(x+d, y-d, d)
	d = min(dL, dD)
	sample(x-d, y+d, d)
	d = min(dR, dD)
	sample(x+d, y+d, d)

	// A bordering band always exists once the region is a proper subset of
	// the frame, so at least one ray landed and weight is positive.
	off := patch.PixOffset(x-rect.Min.X, y-rect.Min.Y)
	for c := 0; c < 4; c++ {
		patch.Pix[off+c] = uint8(math.Round(sum[c] / weight))
	}
}

// copyRegion copies rect from src into patch row by row.
func copyRegion(patch *image.NRGBA, src *image.NRGBA, rect image.Rectangle) {
	rowLen := rect.Dx() * 4
	for row := 0; row < rect.Dy(); row++ {
		pOff := patch.PixOffset(0, row)
		sOff := src.PixOffset(rect.Min.X, rect.Min.Y+row)
		copy(patch.Pix[pOff:pOff+rowLen], src.Pix[sOff:sOff+rowLen])
	}
}

// smoothPatch runs one 3x3 box blur over the patch in place, clamping at
// the patch borders so the pass never reads outside the synthesized area.
func smoothPatch(patch *image.NRGBA) {
	w, h := patch.Rect.Dx(), patch.Rect.Dy()
	if w < 3 || h < 3 {
		return
	}

	blurred := make([]uint8, len(patch.Pix))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			var n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sx, sy := x+dx, y+dy
					if sx < 0 || sx >= w || sy < 0 || sy >= h {
						continue
					}
					off := patch.PixOffset(sx, sy)
					for c := 0; c < 4; c++ {
						sum[c] += int(patch.Pix[off+c])
					}
					n++
				}
			}
			off := patch.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				blurred[off+c] = uint8((sum[c] + n/2) / n)
			}
		}
	}

	copy(patch.Pix, blurred)
}

// featherPatch blends the fill with the source through the logo alpha map:
// where the overlay is opaque the fill wins, where it is near transparent
// the source shows through, with a linear ramp in between.
func featherPatch(patch *image.NRGBA, src *image.NRGBA, rect image.Rectangle, logoAlpha []float32) {
	stride := rect.Dx()

	for row := 0; row < rect.Dy(); row++ {
		for col := 0; col < stride; col++ {
			a := float64(logoAlpha[row*stride+col])
			if a < alphaThreshold {
				a = 0
			}
			m := a / featherCap
			if m > 1 {
				m = 1
			}

			pOff := patch.PixOffset(col, row)
			sOff := src.PixOffset(rect.Min.X+col, rect.Min.Y+row)
			for c := 0; c < 4; c++ {
				fill := float64(patch.Pix[pOff+c])
				orig := float64(src.Pix[sOff+c])
				patch.Pix[pOff+c] = uint8(math.Round(orig + m*(fill-orig)))
			}
		}
	}
}
