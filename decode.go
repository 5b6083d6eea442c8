package watermark

import (
	"image"
	"image/png"
	"io"

	// Register the decoders the shell is expected to feed us, including
	// WebP via x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Decode reads an image from r, returning the decoded image and the
// detected format string ("png", "jpeg", "webp", ...).
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
