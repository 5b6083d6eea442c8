package watermark

import (
	"bytes"
	"context"
	"fmt"
	"image"
)

// DecodeImageBytes decodes raw image bytes, returning the image and the
// detected format string.
func DecodeImageBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image data", ErrProcessing)
	}
	return Decode(bytes.NewReader(data))
}

// DetectBytes checks raw image bytes for the overlay watermark without
// performing any cleanup.
func (e *Engine) DetectBytes(data []byte) (Detection, error) {
	img, _, err := DecodeImageBytes(data)
	if err != nil {
		return Detection{}, err
	}
	return e.Detect(img)
}

// RemoveBytes decodes raw image bytes, removes the watermark region when
// detection reports the overlay present, and returns the cleaned image
// re-encoded as PNG. When the overlay is absent the returned bytes are
// nil and the detection result explains why.
func (e *Engine) RemoveBytes(ctx context.Context, data []byte) ([]byte, Detection, error) {
	img, _, err := DecodeImageBytes(data)
	if err != nil {
		return nil, Detection{}, err
	}

	det, err := e.Detect(img)
	if err != nil {
		return nil, Detection{}, err
	}
	if !det.Present {
		return nil, det, nil
	}

	cleaned, err := e.Remove(ctx, img)
	if err != nil {
		return nil, det, err
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, cleaned); err != nil {
		return nil, det, err
	}
	return buf.Bytes(), det, nil
}
