package enhancer

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const edgeThreshold = 128

// ColorFeatures holds HSV histogram and moment statistics for a leaf image.
// These are side analyses for health assessment, independent of the
// classification path.
type ColorFeatures struct {
	Histograms ColorHistograms `json:"histograms"`
	Moments    ColorMoments    `json:"moments"`
}

type ColorHistograms struct {
	Hue        []float64 `json:"hue"`
	Saturation []float64 `json:"saturation"`
	Value      []float64 `json:"value"`
}

type ColorMoments struct {
	HueMean        float64 `json:"hue_mean"`
	HueStd         float64 `json:"hue_std"`
	SaturationMean float64 `json:"saturation_mean"`
	SaturationStd  float64 `json:"saturation_std"`
	ValueMean      float64 `json:"value_mean"`
	ValueStd       float64 `json:"value_std"`
}

// EdgeMap runs a blurred Sobel gradient over the image and thresholds the
// magnitude, producing a binary edge mask (0 or 255 per pixel).
func EdgeMap(img *image.NRGBA) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	blurred := imaging.Blur(imaging.Grayscale(img), 1.0)
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray[y*w+x] = float64(blurred.Pix[y*blurred.Stride+x*4])
		}
	}

	edges := make([]uint8, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := gray[(y-1)*w+x+1] + 2*gray[y*w+x+1] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[y*w+x-1] - gray[(y+1)*w+x-1]
			gy := gray[(y+1)*w+x-1] + 2*gray[(y+1)*w+x] + gray[(y+1)*w+x+1] -
				gray[(y-1)*w+x-1] - 2*gray[(y-1)*w+x] - gray[(y-1)*w+x+1]
			if math.Sqrt(gx*gx+gy*gy) >= edgeThreshold {
				edges[y*w+x] = 0xff
			}
		}
	}
	return edges, w, h
}

// Symmetry scores left/right symmetry of the leaf outline in [0,1]. The
// edge map is split at its horizontal centroid, the right half mirrored,
// and the overlapping columns compared pixel for pixel.
func Symmetry(t *PixelTensor) float64 {
	edges, w, h := EdgeMap(t.Image())

	var m00, m10 float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges[y*w+x] != 0 {
				m00++
				m10 += float64(x)
			}
		}
	}
	if m00 == 0 {
		return 0.5
	}
	cx := int(m10 / m00)

	minWidth := cx
	if w-cx < minWidth {
		minWidth = w - cx
	}
	if minWidth == 0 {
		return 0.5
	}

	var equal, total float64
	for y := 0; y < h; y++ {
		for j := 0; j < minWidth; j++ {
			left := edges[y*w+j]
			// Mirrored column j of the right half.
			right := edges[y*w+(w-1-j)]
			if left == right {
				equal++
			}
			total++
		}
	}
	return equal / total
}

// ExtractColorFeatures computes normalized HSV histograms (180 hue bins,
// 256 saturation and value bins) and per-channel means and standard
// deviations.
func ExtractColorFeatures(t *PixelTensor) ColorFeatures {
	img := t.Image()
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	n := float64(w * h)

	hueHist := make([]float64, 180)
	satHist := make([]float64, 256)
	valHist := make([]float64, 256)

	var sumH, sumS, sumV float64
	var sumH2, sumS2, sumV2 float64

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			hue, sat, val := rgbToHSV(img.Pix[off], img.Pix[off+1], img.Pix[off+2])

			hueHist[hue]++
			satHist[sat]++
			valHist[val]++

			fh, fs, fv := float64(hue), float64(sat), float64(val)
			sumH += fh
			sumS += fs
			sumV += fv
			sumH2 += fh * fh
			sumS2 += fs * fs
			sumV2 += fv * fv
		}
	}

	normalize(hueHist)
	normalize(satHist)
	normalize(valHist)

	meanH, meanS, meanV := sumH/n, sumS/n, sumV/n
	return ColorFeatures{
		Histograms: ColorHistograms{
			Hue:        hueHist,
			Saturation: satHist,
			Value:      valHist,
		},
		Moments: ColorMoments{
			HueMean:        meanH,
			HueStd:         math.Sqrt(math.Max(sumH2/n-meanH*meanH, 0)),
			SaturationMean: meanS,
			SaturationStd:  math.Sqrt(math.Max(sumS2/n-meanS*meanS, 0)),
			ValueMean:      meanV,
			ValueStd:       math.Sqrt(math.Max(sumV2/n-meanV*meanV, 0)),
		},
	}
}

func normalize(hist []float64) {
	var max float64
	for _, v := range hist {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}
	for i := range hist {
		hist[i] /= max
	}
}
