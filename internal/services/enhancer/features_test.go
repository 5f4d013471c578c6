package enhancer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func uniformImage(size int, r, g, b uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, 0xff
	}
	return img
}

func TestSymmetry_UniformImageHasNoEdges(t *testing.T) {
	tensor := FromImage(uniformImage(64, 120, 120, 120))
	require.Equal(t, 0.5, Symmetry(tensor))
}

func TestSymmetry_MirroredShapeScoresHigh(t *testing.T) {
	// Centered square: perfectly left/right symmetric.
	tensor := FromImage(leafOnWhite(100, 40))
	score := Symmetry(tensor)
	require.GreaterOrEqual(t, score, 0.9)
	require.LessOrEqual(t, score, 1.0)
}

func TestSymmetry_LopsidedShapeScoresLower(t *testing.T) {
	img := uniformImage(100, 0xff, 0xff, 0xff)
	// A square pushed into the left half only.
	for y := 30; y < 70; y++ {
		for x := 5; x < 45; x++ {
			off := y*img.Stride + x*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 20, 20, 20
		}
	}

	symmetric := Symmetry(FromImage(leafOnWhite(100, 40)))
	lopsided := Symmetry(FromImage(img))
	require.Less(t, lopsided, symmetric)
}

func TestExtractColorFeatures_UniformImage(t *testing.T) {
	tensor := FromImage(uniformImage(32, 255, 255, 255))
	features := ExtractColorFeatures(tensor)

	require.Equal(t, 0.0, features.Moments.SaturationMean)
	require.Equal(t, 255.0, features.Moments.ValueMean)
	require.Equal(t, 0.0, features.Moments.ValueStd)

	require.Len(t, features.Histograms.Hue, 180)
	require.Len(t, features.Histograms.Saturation, 256)
	require.Len(t, features.Histograms.Value, 256)

	// All mass in one bin; normalization scales it to 1.
	require.Equal(t, 1.0, features.Histograms.Value[255])
	require.Equal(t, 0.0, features.Histograms.Value[0])
}

func TestExtractColorFeatures_GreenLeafHueBand(t *testing.T) {
	tensor := FromImage(uniformImage(32, 60, 160, 60))
	features := ExtractColorFeatures(tensor)

	// Hue 60 on the 0-180 scale is the green band.
	require.Equal(t, 1.0, features.Histograms.Hue[60])
	require.Equal(t, 60.0, features.Moments.HueMean)
	require.Equal(t, 0.0, features.Moments.HueStd)
}
