package diagnosis

import (
	"math"

	"github.com/mkulima-ai/leafscan/internal/models"
)

const (
	severityHighThreshold   = 0.8
	severityMediumThreshold = 0.6
	maxAffectedArea         = 95.0
)

var severityDescriptions = map[string]string{
	models.SeverityLow:    "Early stage infection. Monitor regularly.",
	models.SeverityMedium: "Moderate infection. Treatment recommended.",
	models.SeverityHigh:   "Severe infection. Immediate treatment required.",
}

// EstimateSeverity derives a severity bucket from the top-1 confidence.
//
// This is a crude proxy: it measures how sure the model is, not how much
// of the leaf is affected. A segmentation model would give a real lesion
// area; until one exists the thresholds here are kept for compatibility
// with historical reports.
func EstimateSeverity(confidence float64) models.SeverityEstimate {
	level := models.SeverityLow
	switch {
	case confidence > severityHighThreshold:
		level = models.SeverityHigh
	case confidence > severityMediumThreshold:
		level = models.SeverityMedium
	}

	return models.SeverityEstimate{
		Level:                  level,
		AffectedAreaPercentage: math.Min(confidence*100, maxAffectedArea),
		Description:            severityDescriptions[level],
		ActionRequired:         level != models.SeverityLow,
	}
}
