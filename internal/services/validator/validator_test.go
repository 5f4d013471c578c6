package validator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
)

func testConfig() config.ValidationConfig {
	return config.ValidationConfig{
		MaxFileSize:  16 * 1024 * 1024,
		MinDimension: 100,
		MaxDimension: 5000,
	}
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{40, 160, 60, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate_AcceptsWellFormedImage(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	raw := encodePNG(t, 224, 224)
	outcome := v.Validate(raw, "leaf.png")

	require.True(t, outcome.Valid)
	require.Empty(t, outcome.Reason)
	require.Equal(t, "image/png", outcome.DetectedMime)
	require.Equal(t, 224, outcome.Width)
	require.Equal(t, 224, outcome.Height)
	require.Equal(t, int64(len(raw)), outcome.ByteSize)
}

func TestValidate_RejectsEmptyInput(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(nil, "leaf.png")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "no image data")
}

func TestValidate_RejectsMissingFilename(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(encodePNG(t, 200, 200), "")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "no filename")
}

func TestValidate_RejectsDisallowedExtension(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(encodePNG(t, 200, 200), "leaf.txt")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "not allowed")
}

func TestValidate_RejectsContentTypeMismatch(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	// Plain text renamed to .png: extension passes, sniffed content fails.
	outcome := v.Validate([]byte("this is definitely not an image"), "leaf.png")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "invalid content type")
}

func TestValidate_RejectsTooSmallImage(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(encodePNG(t, 50, 50), "leaf.png")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "too small")
}

func TestValidate_RejectsTooLargeDimensions(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(encodePNG(t, 5001, 200), "leaf.png")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "too large")
}

func TestValidate_RejectsOversizedBufferBeforeDecoding(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	// 17MiB of arbitrary bytes; the size check fires before any decode.
	raw := make([]byte, 17*1024*1024)
	outcome := v.Validate(raw, "leaf.png")
	require.False(t, outcome.Valid)
	require.Contains(t, outcome.Reason, "file too large")
}

func TestValidate_RejectsTruncatedImage(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	raw := encodePNG(t, 300, 300)
	truncated := raw[:len(raw)/2]

	outcome := v.Validate(truncated, "leaf.png")
	require.False(t, outcome.Valid)
	require.True(t,
		strings.Contains(outcome.Reason, "corrupt") || strings.Contains(outcome.Reason, "invalid image"),
		"reason was: %s", outcome.Reason)
}

func TestValidate_BoundaryDimensionsAccepted(t *testing.T) {
	v := New(testConfig(), zap.NewNop())

	outcome := v.Validate(encodePNG(t, 100, 100), "leaf.jpg.png")
	require.True(t, outcome.Valid)
}
