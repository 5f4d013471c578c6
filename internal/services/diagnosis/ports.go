package diagnosis

import (
	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/internal/services/enhancer"
)

// ImageValidator accepts or rejects raw image bytes before any processing.
type ImageValidator interface {
	Validate(raw []byte, filename string) models.ValidationOutcome
}

// ImageEnhancer decodes and enhances raw bytes into a canonical tensor.
type ImageEnhancer interface {
	DecodeAndEnhance(raw []byte) (*enhancer.PixelTensor, error)
}

// Classifier runs the loaded model over a prepared input buffer.
type Classifier interface {
	IsReady() bool
	InputSize() int
	Classify(input []float32) (models.RankedPrediction, error)
}
