package enhancer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// leafOnWhite paints a centered green square on a white background.
func leafOnWhite(size, leaf int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0xff, 0xff, 0xff, 0xff
	}
	start := (size - leaf) / 2
	for y := start; y < start+leaf; y++ {
		for x := start; x < start+leaf; x++ {
			off := y*img.Stride + x*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 60, 160, 60
		}
	}
	return img
}

func TestIsolateFoliage_KeepsLeafDropsBackground(t *testing.T) {
	img := leafOnWhite(100, 40)
	out := IsolateFoliage(img)

	// Center pixel is foliage and must survive.
	center := 50*out.Stride + 50*4
	require.Equal(t, uint8(60), out.Pix[center])
	require.Equal(t, uint8(160), out.Pix[center+1])

	// Corner is background and must be white.
	require.Equal(t, uint8(0xff), out.Pix[0])
	require.Equal(t, uint8(0xff), out.Pix[1])
	require.Equal(t, uint8(0xff), out.Pix[2])
}

func TestIsolateFoliage_Idempotent(t *testing.T) {
	img := leafOnWhite(100, 40)

	once := IsolateFoliage(img)
	twice := IsolateFoliage(once)

	require.Equal(t, once.Pix, twice.Pix)
}

func TestIsolateFoliage_RemovesIsolatedSpecks(t *testing.T) {
	img := leafOnWhite(100, 40)
	// A single green pixel far from the leaf; opening should erase it.
	off := 5*img.Stride + 5*4
	img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 60, 160, 60

	out := IsolateFoliage(img)
	require.Equal(t, uint8(0xff), out.Pix[off])
	require.Equal(t, uint8(0xff), out.Pix[off+1])
	require.Equal(t, uint8(0xff), out.Pix[off+2])
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		hue     uint8
		sat     uint8
		val     uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"pure green", 0, 255, 0, 60, 255, 255},
		{"pure red", 255, 0, 0, 0, 255, 255},
		{"pure blue", 0, 0, 255, 120, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hue, sat, val := rgbToHSV(tt.r, tt.g, tt.b)
			require.Equal(t, tt.hue, hue)
			require.Equal(t, tt.sat, sat)
			require.Equal(t, tt.val, val)
		})
	}
}
