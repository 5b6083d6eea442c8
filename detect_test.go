package watermark

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func TestDetectFindsStampedOverlay(t *testing.T) {
	engine := newTestEngine(t)

	img := grayImage(400, 300, 90)
	stampOverlay(img, engine)

	det, err := engine.Detect(img)
	require.NoError(t, err)

	assert.True(t, det.Present)
	assert.Greater(t, det.Score, detectionLumaThreshold)
	assert.Greater(t, det.Corr, detectionCorrThreshold)
	assert.Equal(t, ResolveRegion(400, 300), det.Region)
}

func TestDetectRejectsCleanImage(t *testing.T) {
	engine := newTestEngine(t)

	det, err := engine.Detect(grayImage(400, 300, 90))
	require.NoError(t, err)

	assert.False(t, det.Present)
	assert.InDelta(t, 0, det.Score, 1)
}

func TestDetectRejectsDarkPatchWithoutLogoShape(t *testing.T) {
	engine := newTestEngine(t)

	// A uniformly brightened region lifts the luma score but cannot
	// correlate with the logo shape.
	img := grayImage(400, 300, 90)
	rect := ResolveRegion(400, 300).Rect()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 140, 140, 140
		}
	}

	det, err := engine.Detect(img)
	require.NoError(t, err)

	assert.Greater(t, det.Score, detectionLumaThreshold)
	assert.False(t, det.Present, "flat brightness must not pass the shape check")
}

func TestDetectRejectsUnprocessableInput(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Detect(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessing))
}

func TestDetectRemoveRoundTripLowersScore(t *testing.T) {
	engine := newTestEngine(t)

	img := grayImage(400, 300, 90)
	stampOverlay(img, engine)

	before, err := engine.Detect(img)
	require.NoError(t, err)
	require.True(t, before.Present)

	cleaned, err := engine.Remove(context.Background(), img)
	require.NoError(t, err)

	after, err := engine.Detect(cleaned)
	require.NoError(t, err)

	assert.False(t, after.Present)
	assert.Less(t, after.Score, before.Score)
}
