package enhancer

import "image"

// Foliage hue window in HSV, using the 0-180 hue / 0-255 sat+val scale.
// Covers the green band leaves occupy; low-saturation pixels (white,
// gray backgrounds) fall outside regardless of hue.
const (
	foliageHueLow  = 35
	foliageHueHigh = 85
	foliageSatLow  = 40
	foliageValLow  = 40

	morphKernel = 5
)

// IsolateFoliage classifies each pixel as foliage or background by hue
// range, cleans the mask with morphological closing then opening, and
// composites the foliage over a white background.
//
// The operation is idempotent: pixels already on the white background have
// zero saturation and stay out of the mask, while foliage pixels keep
// their hue and stay in it.
func IsolateFoliage(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mask := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			hue, sat, val := rgbToHSV(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			if hue >= foliageHueLow && hue <= foliageHueHigh &&
				sat >= foliageSatLow && val >= foliageValLow {
				mask[y*w+x] = 0xff
			}
		}
	}

	// Closing fills small holes inside the leaf, opening removes isolated
	// green specks in the background.
	mask = erode(dilate(mask, w, h, morphKernel), w, h, morphKernel)
	mask = dilate(erode(mask, w, h, morphKernel), w, h, morphKernel)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst := y*out.Stride + x*4
			if mask[y*w+x] != 0 {
				src := y*img.Stride + x*4
				out.Pix[dst] = img.Pix[src]
				out.Pix[dst+1] = img.Pix[src+1]
				out.Pix[dst+2] = img.Pix[src+2]
			} else {
				out.Pix[dst] = 0xff
				out.Pix[dst+1] = 0xff
				out.Pix[dst+2] = 0xff
			}
			out.Pix[dst+3] = 0xff
		}
	}
	return out
}

// rgbToHSV converts to HSV on the 0-180 hue / 0-255 saturation and value
// scale so the foliage window constants stay in familiar units.
func rgbToHSV(r, g, b uint8) (hue, sat, val uint8) {
	rf, gf, bf := int(r), int(g), int(b)

	maxC := rf
	if gf > maxC {
		maxC = gf
	}
	if bf > maxC {
		maxC = bf
	}
	minC := rf
	if gf < minC {
		minC = gf
	}
	if bf < minC {
		minC = bf
	}
	delta := maxC - minC

	val = uint8(maxC)
	if maxC == 0 {
		return 0, 0, 0
	}
	sat = uint8(255 * delta / maxC)
	if delta == 0 {
		return 0, sat, val
	}

	var hdeg int
	switch maxC {
	case rf:
		hdeg = (60*(gf-bf)/delta + 360) % 360
	case gf:
		hdeg = 60*(bf-rf)/delta + 120
	default:
		hdeg = 60*(rf-gf)/delta + 240
	}
	return uint8(hdeg / 2), sat, val
}

func dilate(mask []uint8, w, h, k int) []uint8 {
	out := make([]uint8, len(mask))
	r := k / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
		window:
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < h && nx >= 0 && nx < w && mask[ny*w+nx] != 0 {
						out[y*w+x] = 0xff
						break window
					}
				}
			}
		}
	}
	return out
}

func erode(mask []uint8, w, h, k int) []uint8 {
	// Erosion is dilation of the complement: a pixel survives only if the
	// whole window is set.
	out := make([]uint8, len(mask))
	r := k / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			all := true
		window:
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w || mask[ny*w+nx] == 0 {
						all = false
						break window
					}
				}
			}
			if all {
				out[y*w+x] = 0xff
			}
		}
	}
	return out
}
