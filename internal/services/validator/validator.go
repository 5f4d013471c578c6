package validator

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/pkg/utils"
)

// Validator gatekeeps the diagnosis pipeline. An image that passes Validate
// is well-formed, within size and dimension bounds, and of an allowed type
// by both declared extension and sniffed content.
type Validator struct {
	cfg    config.ValidationConfig
	logger *zap.Logger
}

func New(cfg config.ValidationConfig, logger *zap.Logger) *Validator {
	return &Validator{cfg: cfg, logger: logger}
}

// Validate inspects raw image bytes and the declared filename. The outcome
// is binary and final: either Valid with observability fields filled in, or
// invalid with a human-readable reason.
func (v *Validator) Validate(raw []byte, filename string) models.ValidationOutcome {
	if len(raw) == 0 {
		return invalid("no image data provided")
	}
	if filename == "" {
		return invalid("no filename provided")
	}

	// Size check comes before any decoding so oversized buffers are
	// rejected cheaply.
	if int64(len(raw)) > v.cfg.MaxFileSize {
		return invalid(fmt.Sprintf("file too large: %d bytes (maximum %d bytes)",
			len(raw), v.cfg.MaxFileSize))
	}

	if !utils.IsAllowedExtension(filename) {
		return invalid(fmt.Sprintf("file type not allowed, allowed types: %s",
			strings.Join(utils.AllowedExtensions(), ", ")))
	}

	// Extension and sniffed content type must pass independently; a
	// renamed executable does not get through on its extension.
	mimeType := utils.DetectImageType(raw)
	if !utils.IsAllowedImageType(mimeType) {
		return invalid(fmt.Sprintf("invalid content type: %s", mimeType))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Sprintf("invalid image file: %v", err))
	}

	if cfg.Width < v.cfg.MinDimension || cfg.Height < v.cfg.MinDimension {
		return invalid(fmt.Sprintf("image too small: %dx%d, minimum size: %dx%d pixels",
			cfg.Width, cfg.Height, v.cfg.MinDimension, v.cfg.MinDimension))
	}
	if cfg.Width > v.cfg.MaxDimension || cfg.Height > v.cfg.MaxDimension {
		return invalid(fmt.Sprintf("image too large: %dx%d, maximum size: %dx%d pixels",
			cfg.Width, cfg.Height, v.cfg.MaxDimension, v.cfg.MaxDimension))
	}

	// Full decode catches truncated buffers whose header alone looks fine.
	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		v.logger.Warn("image header parsed but full decode failed",
			zap.String("filename", filename), zap.Error(err))
		return invalid(fmt.Sprintf("corrupt image file: %v", err))
	}

	return models.ValidationOutcome{
		Valid:        true,
		DetectedMime: mimeType,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ByteSize:     int64(len(raw)),
	}
}

func invalid(reason string) models.ValidationOutcome {
	return models.ValidationOutcome{Valid: false, Reason: reason}
}
