package diagnosis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/internal/services/enhancer"
	"github.com/mkulima-ai/leafscan/internal/services/knowledge"
)

const (
	topPredictions = 3
	caseLimit      = 5
)

// ValidationError is a recoverable, per-request failure: the image was
// rejected before or during decoding and the caller should prompt for a
// new one.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Assembler orchestrates validator, enhancer, classifier and knowledge
// lookup into a single diagnosis. Each Diagnose call walks the state
// machine PendingValidation → Validated → Decoded → Classified → Enriched
// → Complete, dropping to Failed at the first error. No retries happen
// here; failures are reported upward for the caller to decide.
type Assembler struct {
	validator  ImageValidator
	enhancer   ImageEnhancer
	classifier Classifier
	library    knowledge.Library
	logger     *zap.Logger
}

func NewAssembler(
	validator ImageValidator,
	enhancer ImageEnhancer,
	classifier Classifier,
	library knowledge.Library,
	logger *zap.Logger,
) *Assembler {
	return &Assembler{
		validator:  validator,
		enhancer:   enhancer,
		classifier: classifier,
		library:    library,
		logger:     logger,
	}
}

// Ready reports whether the classifier behind the assembler is loaded.
func (a *Assembler) Ready() bool {
	return a.classifier.IsReady()
}

// Diagnose runs the full pipeline over one uploaded image.
func (a *Assembler) Diagnose(ctx context.Context, raw []byte, filename, cropType string) (*models.DiagnosisResult, error) {
	start := time.Now()
	r := newRun()

	outcome := a.validator.Validate(raw, filename)
	if !outcome.Valid {
		r.fail(outcome.Reason)
		a.logger.Info("image rejected",
			zap.String("filename", filename),
			zap.String("reason", outcome.Reason))
		return nil, &ValidationError{Reason: outcome.Reason}
	}
	r.advance(StateValidated)

	tensor, err := a.enhancer.DecodeAndEnhance(raw)
	if err != nil {
		r.fail(err.Error())
		return nil, err
	}
	r.advance(StateDecoded)

	size := a.classifier.InputSize()
	ranked, err := a.classifier.Classify(tensor.ModelInput(size, size))
	if err != nil {
		r.fail(err.Error())
		return nil, err
	}
	r.advance(StateClassified)

	top := ranked[0]
	severity := EstimateSeverity(top.Confidence)
	metrics := leafMetrics(tensor)
	r.advance(StateEnriched)

	// Knowledge lookups never fail outward: unknown labels resolve to a
	// generic fallback entry, so enrichment is unconditional.
	recommendations := a.library.RecommendationsFor(ctx, top.Disease)
	cases := a.library.SimilarCasesFor(ctx, top.Disease, caseLimit)
	r.advance(StateComplete)

	a.logger.Info("diagnosis complete",
		zap.String("disease", top.Disease),
		zap.Float64("confidence", top.Confidence),
		zap.String("severity", severity.Level),
		zap.Duration("elapsed", time.Since(start)))

	return &models.DiagnosisResult{
		DiseaseName:     top.Disease,
		Confidence:      top.Confidence,
		Severity:        severity,
		TopPredictions:  ranked.Top(topPredictions),
		Recommendations: recommendations,
		SimilarCases:    cases,
		LeafMetrics:     metrics,
		CropType:        cropType,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// leafMetrics computes the visual side measurements attached to a result.
func leafMetrics(tensor *enhancer.PixelTensor) *models.LeafMetrics {
	features := enhancer.ExtractColorFeatures(tensor)
	return &models.LeafMetrics{
		SymmetryScore:  enhancer.Symmetry(tensor),
		HueMean:        features.Moments.HueMean,
		SaturationMean: features.Moments.SaturationMean,
		ValueMean:      features.Moments.ValueMean,
	}
}
