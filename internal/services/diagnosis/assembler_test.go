package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/internal/services/classifier"
	"github.com/mkulima-ai/leafscan/internal/services/enhancer"
	"github.com/mkulima-ai/leafscan/internal/services/knowledge"
)

type stubValidator struct {
	outcome models.ValidationOutcome
}

func (s stubValidator) Validate(raw []byte, filename string) models.ValidationOutcome {
	return s.outcome
}

type stubEnhancer struct {
	err error
}

func (s stubEnhancer) DecodeAndEnhance(raw []byte) (*enhancer.PixelTensor, error) {
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return enhancer.FromImage(img), nil
}

type stubClassifier struct {
	ranked models.RankedPrediction
	err    error
}

func (s stubClassifier) IsReady() bool  { return s.err == nil }
func (s stubClassifier) InputSize() int { return 8 }
func (s stubClassifier) Classify(input []float32) (models.RankedPrediction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ranked, nil
}

func acceptAll() stubValidator {
	return stubValidator{outcome: models.ValidationOutcome{Valid: true}}
}

func testAssembler(c stubClassifier, e stubEnhancer) *Assembler {
	return NewAssembler(acceptAll(), e, c, knowledge.NewStaticLibrary(), zap.NewNop())
}

func TestDiagnose_HappyPath(t *testing.T) {
	c := stubClassifier{ranked: models.RankedPrediction{
		{Disease: "healthy", Confidence: 0.92, Rank: 1},
		{Disease: "tomato_early_blight", Confidence: 0.05, Rank: 2},
		{Disease: "maize_rust", Confidence: 0.03, Rank: 3},
	}}
	a := testAssembler(c, stubEnhancer{})

	result, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "tomato")
	require.NoError(t, err)

	require.Equal(t, "healthy", result.DiseaseName)
	require.Equal(t, 0.92, result.Confidence)
	require.Equal(t, models.SeverityHigh, result.Severity.Level)
	require.True(t, result.Severity.ActionRequired)
	require.Len(t, result.TopPredictions, 3)
	require.NotEmpty(t, result.Recommendations)
	require.NotEmpty(t, result.SimilarCases)
	require.Equal(t, "tomato", result.CropType)
	require.False(t, result.Timestamp.IsZero())

	require.NotNil(t, result.LeafMetrics)
	require.Equal(t, 0.5, result.LeafMetrics.SymmetryScore)
}

func TestDiagnose_TopPredictionsTruncated(t *testing.T) {
	ranked := make(models.RankedPrediction, 6)
	for i := range ranked {
		ranked[i] = models.Prediction{
			Disease:    fmt.Sprintf("disease_%d", i),
			Confidence: 0.9 - float64(i)*0.1,
			Rank:       i + 1,
		}
	}
	a := testAssembler(stubClassifier{ranked: ranked}, stubEnhancer{})

	result, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "")
	require.NoError(t, err)
	require.Len(t, result.TopPredictions, 3)
	require.Equal(t, "disease_0", result.TopPredictions[0].Disease)
}

func TestDiagnose_ValidationFailure(t *testing.T) {
	rejecting := stubValidator{outcome: models.ValidationOutcome{
		Valid:  false,
		Reason: "image too small: 50x50 (minimum 100x100)",
	}}
	a := NewAssembler(rejecting, stubEnhancer{}, stubClassifier{}, knowledge.NewStaticLibrary(), zap.NewNop())

	_, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Reason, "too small")
}

func TestDiagnose_DecodeFailurePassesThrough(t *testing.T) {
	broken := stubEnhancer{err: fmt.Errorf("%w: unknown format", enhancer.ErrDecode)}
	a := testAssembler(stubClassifier{}, broken)

	_, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, enhancer.ErrDecode))
}

func TestDiagnose_ModelNotLoaded(t *testing.T) {
	a := testAssembler(stubClassifier{err: classifier.ErrModelNotLoaded}, stubEnhancer{})

	require.False(t, a.Ready())

	_, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, classifier.ErrModelNotLoaded))
}

func TestDiagnose_UnknownLabelGetsFallbackRecommendation(t *testing.T) {
	c := stubClassifier{ranked: models.RankedPrediction{
		{Disease: "cassava_mosaic", Confidence: 0.65, Rank: 1},
	}}
	a := testAssembler(c, stubEnhancer{})

	result, err := a.Diagnose(context.Background(), []byte("raw"), "leaf.png", "")
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "Consult agricultural expert", result.Recommendations[0].Name)
	require.NotEmpty(t, result.SimilarCases)
}
