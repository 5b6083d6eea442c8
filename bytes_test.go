package watermark

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, engine *Engine, stamped bool) []byte {
	t.Helper()

	img := grayImage(200, 200, 80)
	if stamped {
		stampOverlay(img, engine)
	}

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	return buf.Bytes()
}

func TestDecodeImageBytes(t *testing.T) {
	engine := newTestEngine(t)

	img, format, err := DecodeImageBytes(encodeTestPNG(t, engine, false))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 200, img.Bounds().Dx())

	_, _, err = DecodeImageBytes(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessing))
}

func TestRemoveBytesRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	out, det, err := engine.RemoveBytes(context.Background(), encodeTestPNG(t, engine, true))
	require.NoError(t, err)
	require.True(t, det.Present)
	require.NotEmpty(t, out)

	cleaned, format, err := DecodeImageBytes(out)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 200, cleaned.Bounds().Dx())
	assert.Equal(t, 200, cleaned.Bounds().Dy())

	after, err := engine.Detect(cleaned)
	require.NoError(t, err)
	assert.False(t, after.Present)
}

func TestRemoveBytesSkipsCleanImages(t *testing.T) {
	engine := newTestEngine(t)

	out, det, err := engine.RemoveBytes(context.Background(), encodeTestPNG(t, engine, false))
	require.NoError(t, err)
	assert.False(t, det.Present)
	assert.Nil(t, out)
}

func TestRemoveBase64HandlesDataURL(t *testing.T) {
	engine := newTestEngine(t)

	encoded := base64.StdEncoding.EncodeToString(encodeTestPNG(t, engine, true))
	dataURL := "data:image/png;base64," + encoded

	out, det, err := engine.RemoveBase64(context.Background(), dataURL)
	require.NoError(t, err)
	require.True(t, det.Present)
	require.NotEmpty(t, out)

	decoded, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)

	img, format, err := DecodeImageBytes(decoded)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestDecodeBase64ImageRejectsGarbage(t *testing.T) {
	_, _, err := DecodeBase64Image("!!! not base64 !!!")
	require.Error(t, err)
}
