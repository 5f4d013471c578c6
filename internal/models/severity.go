package models

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// SeverityEstimate is a coarse three-tier severity bucket derived from the
// top-1 confidence. The affected-area percentage is a confidence proxy,
// not a segmentation measurement.
type SeverityEstimate struct {
	Level                  string  `json:"level"`
	AffectedAreaPercentage float64 `json:"affected_area_percentage"`
	Description            string  `json:"description"`
	ActionRequired         bool    `json:"action_required"`
}
