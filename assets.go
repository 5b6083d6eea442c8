package watermark

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"io/fs"
)

//go:embed assets/spark_48.png assets/spark_96.png
var embeddedAssets embed.FS

// loadAlphaMaps decodes the logo alpha maps for every supported size from
// fsys and validates their dimensions. The result is the engine's only
// shared state and is never mutated after construction.
func loadAlphaMaps(fsys fs.FS) (map[int][]float32, error) {
	maps := make(map[int][]float32, 2)
	for _, size := range []int{smallLogoSize, largeLogoSize} {
		alpha, err := decodeAlphaAsset(fsys, size)
		if err != nil {
			return nil, err
		}
		maps[size] = alpha
	}
	return maps, nil
}

// decodeAlphaAsset loads the pre-captured logo image for one size and
// converts it into an alpha map normalized to [0, 1].
func decodeAlphaAsset(fsys fs.FS, size int) ([]float32, error) {
	filename := fmt.Sprintf("assets/spark_%d.png", size)

	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != size || bounds.Dy() != size {
		return nil, fmt.Errorf("%s: unexpected dimensions %dx%d, want %dx%d",
			filename, bounds.Dx(), bounds.Dy(), size, size)
	}

	return calculateAlphaMap(img), nil
}

// calculateAlphaMap extracts the maximum RGB channel per pixel and scales
// it to [0, 1]. The captured logo is white on black, so the brightest
// channel is the overlay opacity.
func calculateAlphaMap(img image.Image) []float32 {
	bounds := img.Bounds()
	alpha := make([]float32, bounds.Dx()*bounds.Dy())

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()

			max := r
			if g > max {
				max = g
			}
			if b > max {
				max = b
			}

			alpha[idx] = float32(max) / 65535.0
			idx++
		}
	}

	return alpha
}
