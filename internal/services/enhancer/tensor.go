package enhancer

import (
	"image"

	"github.com/disintegration/imaging"
)

// PixelTensor is a height × width × 3 pixel grid in red-green-blue order
// with values scaled to [0,1]. It is owned by a single pipeline invocation
// and never shared across requests.
type PixelTensor struct {
	Height int
	Width  int
	Pix    []float32 // HWC layout, len = Height*Width*3
}

// FromImage converts a decoded image into a tensor. The imaging clone
// normalizes any source pixel format to NRGBA, which fixes the channel
// order regardless of the codec.
func FromImage(img image.Image) *PixelTensor {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	t := &PixelTensor{
		Height: h,
		Width:  w,
		Pix:    make([]float32, h*w*3),
	}

	idx := 0
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			t.Pix[idx] = float32(row[x*4]) / 255.0
			t.Pix[idx+1] = float32(row[x*4+1]) / 255.0
			t.Pix[idx+2] = float32(row[x*4+2]) / 255.0
			idx += 3
		}
	}
	return t
}

// Image converts the tensor back to an NRGBA image for further pixel work
// (segmentation, feature extraction, model resize).
func (t *PixelTensor) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	idx := 0
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = clampUint8(float64(t.Pix[idx]) * 255.0)
			img.Pix[off+1] = clampUint8(float64(t.Pix[idx+1]) * 255.0)
			img.Pix[off+2] = clampUint8(float64(t.Pix[idx+2]) * 255.0)
			img.Pix[off+3] = 0xff
			idx += 3
		}
	}
	return img
}

// ModelInput resizes the tensor to the model's spatial input dimensions and
// returns a flat float32 buffer with a leading batch axis of size 1, values
// in [0,1], NHWC layout.
func (t *PixelTensor) ModelInput(width, height int) []float32 {
	resized := imaging.Resize(t.Image(), width, height, imaging.Linear)

	input := make([]float32, 1*height*width*3)
	idx := 0
	for y := 0; y < height; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+width*4]
		for x := 0; x < width; x++ {
			input[idx] = float32(row[x*4]) / 255.0
			input[idx+1] = float32(row[x*4+1]) / 255.0
			input[idx+2] = float32(row[x*4+2]) / 255.0
			idx += 3
		}
	}
	return input
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
