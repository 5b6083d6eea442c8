package watermark

import "image"

// Watermark placement convention of the target overlay family: a square
// logo anchored at the bottom-right corner. Images whose smaller dimension
// exceeds largeThreshold carry the 96px logo with a 64px inset; everything
// else carries the 48px logo with a 32px inset. The inset is always 2/3 of
// the logo size.
const (
	smallLogoSize  = 48
	largeLogoSize  = 96
	largeThreshold = 1024

	marginNum = 2
	marginDen = 3
)

// Region is the square sub-rectangle occupied by the watermark. Pos is the
// top-left corner; the region spans Size pixels on each axis and is always
// fully contained in the image it was resolved for.
type Region struct {
	Size int
	Pos  image.Point
}

// Rect returns the region as an image.Rectangle in image coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Pos.X, r.Pos.Y, r.Pos.X+r.Size, r.Pos.Y+r.Size)
}

// ResolveRegion computes the watermark region for an image of the given
// dimensions. It is a pure function of (width, height) and is total for
// all positive inputs: the logo size shrinks and the inset collapses as
// needed so the region always stays square and in bounds, even for images
// smaller than the nominal logo footprint.
//
// Callers must pass positive dimensions; Engine.WatermarkInfo validates
// them first.
func ResolveRegion(width, height int) Region {
	minDim := width
	if height < minDim {
		minDim = height
	}

	size := smallLogoSize
	if minDim > largeThreshold {
		size = largeLogoSize
	}
	if size > minDim {
		size = minDim
	}

	// Nominal inset from the right and bottom edges, reduced until the
	// square fits. size <= minDim guarantees both clamps land at >= 0.
	margin := size * marginNum / marginDen
	if m := width - size; margin > m {
		margin = m
	}
	if m := height - size; margin > m {
		margin = m
	}

	return Region{
		Size: size,
		Pos:  image.Pt(width-size-margin, height-size-margin),
	}
}
