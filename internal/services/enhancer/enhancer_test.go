package enhancer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
)

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ContrastFactor:  1.2,
		SharpnessFactor: 1.1,
	}
}

func encodePNG(t *testing.T, width, height int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeAndEnhance_ProducesTensorInRange(t *testing.T) {
	e := New(testPipelineConfig(), zap.NewNop())

	raw := encodePNG(t, 64, 48, color.RGBA{90, 180, 70, 255})
	tensor, err := e.DecodeAndEnhance(raw)
	require.NoError(t, err)

	require.Equal(t, 48, tensor.Height)
	require.Equal(t, 64, tensor.Width)
	require.Len(t, tensor.Pix, 48*64*3)
	for _, v := range tensor.Pix {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestDecodeAndEnhance_Deterministic(t *testing.T) {
	e := New(testPipelineConfig(), zap.NewNop())
	raw := encodePNG(t, 80, 80, color.RGBA{120, 200, 90, 255})

	first, err := e.DecodeAndEnhance(raw)
	require.NoError(t, err)
	second, err := e.DecodeAndEnhance(raw)
	require.NoError(t, err)

	require.Equal(t, first.Pix, second.Pix)
}

func TestDecodeAndEnhance_RejectsGarbage(t *testing.T) {
	e := New(testPipelineConfig(), zap.NewNop())

	_, err := e.DecodeAndEnhance([]byte("not an image at all"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecode))
}

func TestModelInput_ShapeAndRange(t *testing.T) {
	e := New(testPipelineConfig(), zap.NewNop())
	raw := encodePNG(t, 300, 200, color.RGBA{60, 150, 60, 255})

	tensor, err := e.DecodeAndEnhance(raw)
	require.NoError(t, err)

	input := tensor.ModelInput(224, 224)
	require.Len(t, input, 1*224*224*3)
	for _, v := range input {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestTensorImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 30
		img.Pix[i+1] = 200
		img.Pix[i+2] = 90
		img.Pix[i+3] = 255
	}

	tensor := FromImage(img)
	back := tensor.Image()
	require.Equal(t, img.Pix, back.Pix)
}
