// Package classify defines the name classifier contract and its adapters
// for hosted model APIs.
package classify

import "context"

// Prediction is the classifier output for exactly one input string.
// Score is a confidence in [0, 1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier maps an ordered batch of names to predictions.
//
// Implementations must return exactly one prediction per input, in input
// order. Callers verify this and treat a violation as fatal.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]Prediction, error)
}

// Func adapts an ordinary function to the Classifier interface.
type Func func(ctx context.Context, texts []string) ([]Prediction, error)

// Classify calls f(ctx, texts).
func (f Func) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	return f(ctx, texts)
}

// Compile-time interface compliance checks.
var (
	_ Classifier = Func(nil)
	_ Classifier = (*HuggingFaceClassifier)(nil)
	_ Classifier = (*OpenAIClassifier)(nil)
)
