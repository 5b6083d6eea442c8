package watermark

import (
	"fmt"
	"image"
	"math"
)

const (
	// Mean luma lift of the region over its surrounding band required to
	// call the overlay present. The logo is white, so a watermarked region
	// reads noticeably brighter than its background.
	detectionLumaThreshold = 6.0

	// Minimum normalized cross-correlation between the region luma and
	// the logo alpha map. Only applied when the map matches the resolved
	// region size.
	detectionCorrThreshold = 0.25
)

// Detection reports whether the overlay appears present in an image, with
// the scores that drove the call and the region that was inspected.
type Detection struct {
	Present bool
	Score   float64
	Corr    float64
	Region  Region
}

// Detect estimates whether the overlay watermark is present. The region
// luma is compared against a surrounding band and, when the logo alpha map
// matches the region size, correlated against the logo shape. Removal does
// not require detection; this exists so callers can skip images that never
// carried the overlay.
func (e *Engine) Detect(img image.Image) (Detection, error) {
	if img == nil {
		return Detection{}, fmt.Errorf("%w: nil image", ErrProcessing)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return Detection{}, fmt.Errorf("%w: zero-area image %dx%d", ErrProcessing, width, height)
	}

	region := ResolveRegion(width, height)
	rect := region.Rect().Add(bounds.Min)

	band := region.Size / 3
	if band < 8 {
		band = 8
	}
	outer := rect.Inset(-band).Intersect(bounds)

	wmMean, wmCount := meanLuma(img, rect, image.Rectangle{})
	bgMean, bgCount := meanLuma(img, outer, rect)
	if wmCount == 0 || bgCount == 0 {
		return Detection{}, fmt.Errorf("%w: insufficient pixels around watermark region", ErrProcessing)
	}

	d := Detection{
		Score:  wmMean - bgMean,
		Corr:   1,
		Region: region,
	}

	if alpha, ok := e.alphaMaps[region.Size]; ok && len(alpha) == region.Size*region.Size {
		d.Corr = correlateLuma(img, rect, alpha)
	}

	d.Present = d.Score > detectionLumaThreshold && d.Corr > detectionCorrThreshold
	return d, nil
}

// meanLuma computes the average luma for pixels in region. Pixels inside
// exclude, when non-empty, are skipped.
func meanLuma(img image.Image, region image.Rectangle, exclude image.Rectangle) (float64, int) {
	var sum float64
	var count int

	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if exclude != (image.Rectangle{}) && (image.Point{X: x, Y: y}).In(exclude) {
				continue
			}
			sum += lumaAt(img, x, y)
			count++
		}
	}

	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// correlateLuma returns the normalized cross-correlation between the luma
// inside rect and the logo alpha map, in [-1, 1].
func correlateLuma(img image.Image, rect image.Rectangle, alpha []float32) float64 {
	n := float64(len(alpha))
	var s1, s2, s1q, s2q, p float64

	idx := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			v1 := lumaAt(img, x, y)
			v2 := float64(alpha[idx])
			idx++

			s1 += v1
			s2 += v2
			s1q += v1 * v1
			s2q += v2 * v2
			p += v1 * v2
		}
	}

	num := p - s1*s2/n
	den := math.Sqrt((s1q - s1*s1/n) * (s2q - s2*s2/n))
	if den == 0 {
		return 0
	}
	return num / den
}

// lumaAt converts one pixel to Rec. 709 luma in [0, 255].
func lumaAt(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return 0.2126*float64(r)/257.0 + 0.7152*float64(g)/257.0 + 0.0722*float64(b)/257.0
}
