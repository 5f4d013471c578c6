package enhancer

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
)

// ErrDecode marks a buffer the codecs could not fully parse. The validator
// normally catches these first, but the enhancer does not assume it ran.
var ErrDecode = errors.New("image decode failed")

// Enhancer decodes raw image bytes into a canonical RGB tensor and applies
// deterministic quality enhancement. All parameters are fixed constants
// from configuration; there is no randomness anywhere in this stage, so
// identical input bytes always produce identical tensors.
type Enhancer struct {
	contrastFactor  float64
	sharpnessFactor float64
	segmentEnabled  bool
	logger          *zap.Logger
}

func New(cfg config.PipelineConfig, logger *zap.Logger) *Enhancer {
	return &Enhancer{
		contrastFactor:  cfg.ContrastFactor,
		sharpnessFactor: cfg.SharpnessFactor,
		segmentEnabled:  cfg.SegmentationEnabled,
		logger:          logger,
	}
}

// DecodeAndEnhance decodes the buffer, normalizes channel order, boosts
// contrast and sharpness, and (when enabled) isolates foliage from the
// background. The result stays at native resolution.
func (e *Enhancer) DecodeAndEnhance(raw []byte) (*PixelTensor, error) {
	img, err := e.decode(raw)
	if err != nil {
		return nil, err
	}

	img = e.adjustContrast(img)
	img = e.adjustSharpness(img)

	if e.segmentEnabled {
		img = IsolateFoliage(img)
	}

	return FromImage(img), nil
}

func (e *Enhancer) decode(raw []byte) (*image.NRGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	e.logger.Debug("image decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	// Clone converts whatever the codec produced (YCbCr, paletted, gray)
	// into NRGBA, giving every downstream stage the same channel order.
	return imaging.Clone(img), nil
}

// adjustContrast scales each channel around mid-gray by the configured
// factor: v' = (v-0.5)*factor + 0.5. AdjustContrast takes a percentage,
// so factor 1.2 maps to +20.
func (e *Enhancer) adjustContrast(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustContrast(img, (e.contrastFactor-1.0)*100.0)
}

// adjustSharpness blends the image against a blurred copy with an
// overshoot factor: v' = blur + factor*(v-blur). Factor 1.0 is identity,
// above 1.0 sharpens.
func (e *Enhancer) adjustSharpness(img *image.NRGBA) *image.NRGBA {
	if e.sharpnessFactor == 1.0 {
		return img
	}
	blurred := imaging.Blur(img, 1.0)

	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			o := float64(img.Pix[i+c])
			b := float64(blurred.Pix[i+c])
			out.Pix[i+c] = clampUint8(b + e.sharpnessFactor*(o-b))
		}
	}
	return out
}
