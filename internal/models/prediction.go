package models

import "time"

// Prediction is a single label/confidence pair from the classifier.
// Rank 1 is the highest confidence.
type Prediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Rank       int     `json:"rank"`
}

// RankedPrediction holds every label the model knows about, sorted by
// descending confidence. Labels with identical confidence keep their
// original label-file order.
type RankedPrediction []Prediction

// Top returns the k highest-ranked predictions.
func (r RankedPrediction) Top(k int) []Prediction {
	if k > len(r) {
		k = len(r)
	}
	return r[:k]
}

// DiagnosisResult is the sole output artifact of the pipeline.
type DiagnosisResult struct {
	DiseaseName     string           `json:"disease_name"`
	Confidence      float64          `json:"confidence"`
	Severity        SeverityEstimate `json:"severity"`
	TopPredictions  []Prediction     `json:"top_predictions"`
	Recommendations []Treatment      `json:"recommendations"`
	SimilarCases    []CaseSummary    `json:"similar_cases"`
	LeafMetrics     *LeafMetrics     `json:"leaf_metrics,omitempty"`
	CropType        string           `json:"crop_type,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// LeafMetrics summarizes visual measurements of the leaf itself. They
// accompany the diagnosis for agronomist review but never influence it.
type LeafMetrics struct {
	SymmetryScore  float64 `json:"symmetry_score"`
	HueMean        float64 `json:"hue_mean"`
	SaturationMean float64 `json:"saturation_mean"`
	ValueMean      float64 `json:"value_mean"`
}
