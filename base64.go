package watermark

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// DecodeBase64Image decodes a base64-encoded image (optionally a data URL)
// into an image.Image, returning the image and the detected format string.
func DecodeBase64Image(input string) (image.Image, string, error) {
	raw := stripDataPrefix(input)

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}

	return Decode(bytes.NewReader(data))
}

// EncodePNGToBase64 encodes img as PNG and returns a base64 string.
func EncodePNGToBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RemoveBase64 removes the watermark from a base64-encoded image. It
// returns the cleaned image as base64 PNG together with the detection
// result; the output string is empty when no overlay was detected.
func (e *Engine) RemoveBase64(ctx context.Context, input string) (string, Detection, error) {
	img, _, err := DecodeBase64Image(input)
	if err != nil {
		return "", Detection{}, err
	}

	det, err := e.Detect(img)
	if err != nil {
		return "", Detection{}, err
	}
	if !det.Present {
		return "", det, nil
	}

	cleaned, err := e.Remove(ctx, img)
	if err != nil {
		return "", det, err
	}

	out, err := EncodePNGToBase64(cleaned)
	if err != nil {
		return "", det, err
	}
	return out, det, nil
}

func stripDataPrefix(input string) string {
	if strings.HasPrefix(strings.ToLower(input), "data:") {
		if idx := strings.Index(input, ","); idx != -1 {
			return input[idx+1:]
		}
	}
	return input
}
