package classifier

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
	"github.com/mkulima-ai/leafscan/internal/models"
)

// ErrModelNotLoaded reports a classify call before a model/labels pair was
// loaded. This is a startup fault, not a per-request one: nothing will
// ever succeed until the operator fixes the model configuration.
var ErrModelNotLoaded = errors.New("model not loaded")

// Adapter owns a single loaded ONNX model and its ordered label list.
//
// The session reuses one pre-allocated input/output tensor pair, so a
// forward pass mutates shared scratch state. Classify serializes every
// invocation with a mutex; concurrent calls on the same Adapter would
// otherwise corrupt each other's output.
type Adapter struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	labels       []string
	inputSize    int
	logger       *zap.Logger
}

// New loads the ONNX model and the newline-delimited label file. The label
// order is significant: position i of the model output corresponds to
// labels[i].
func New(cfg config.ModelConfig, logger *zap.Logger) (*Adapter, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	labels, err := LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	inputShape := ort.NewShape(1, int64(cfg.InputSize), int64(cfg.InputSize), 3)
	outputShape := ort.NewShape(1, int64(len(labels)))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	logger.Info("model loaded",
		zap.String("model_path", cfg.ModelPath),
		zap.Int("input_size", cfg.InputSize),
		zap.Int("labels", len(labels)))

	return &Adapter{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		labels:       labels,
		inputSize:    cfg.InputSize,
		logger:       logger,
	}, nil
}

// IsReady reports whether a model and its label list are both loaded.
func (a *Adapter) IsReady() bool {
	return a.session != nil && len(a.labels) > 0
}

// InputSize returns the spatial dimension the model expects.
func (a *Adapter) InputSize() int {
	return a.inputSize
}

// Labels returns the ordered label list.
func (a *Adapter) Labels() []string {
	return a.labels
}

// Classify runs one forward pass and returns every label ranked by
// descending confidence. This is the single source of truth for ranking;
// top-1 and top-k views are slices of it.
func (a *Adapter) Classify(input []float32) (models.RankedPrediction, error) {
	if !a.IsReady() {
		return nil, ErrModelNotLoaded
	}

	expected := a.inputSize * a.inputSize * 3
	if len(input) != expected {
		return nil, fmt.Errorf("input tensor has %d values, model expects %d", len(input), expected)
	}

	a.mu.Lock()
	copy(a.inputTensor.GetData(), input)
	err := a.session.Run()
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	scores := make([]float64, len(a.labels))
	out := a.outputTensor.GetData()
	for i := range scores {
		scores[i] = float64(out[i])
	}
	a.mu.Unlock()

	return rankScores(scores, a.labels), nil
}

// Close releases the ONNX session and tensors.
func (a *Adapter) Close() {
	if a.inputTensor != nil {
		a.inputTensor.Destroy()
	}
	if a.outputTensor != nil {
		a.outputTensor.Destroy()
	}
	if a.session != nil {
		a.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// rankScores sorts all label scores descending. The sort is stable, so
// labels with numerically identical confidence keep their label-file
// order: lower index ranks higher.
func rankScores(scores []float64, labels []string) models.RankedPrediction {
	ranked := make(models.RankedPrediction, len(labels))
	for i, label := range labels {
		ranked[i] = models.Prediction{Disease: label, Confidence: scores[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
