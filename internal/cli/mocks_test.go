package cli

import (
	"context"
	"sync"

	"github.com/alnah/go-genderize/internal/classify"
	"github.com/alnah/go-genderize/internal/config"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ClassifierFactory + Classifier
// ---------------------------------------------------------------------------

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, texts []string) ([]classify.Prediction, error)
	ModelName    string

	mu    sync.Mutex
	calls [][]string
}

func (m *mockClassifier) Model() string {
	return m.ModelName
}

// Classify answers "unknown" with score 0.5 for every input unless overridden.
func (m *mockClassifier) Classify(ctx context.Context, texts []string) ([]classify.Prediction, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, texts)
	}
	out := make([]classify.Prediction, len(texts))
	for i := range texts {
		out[i] = classify.Prediction{Label: classify.LabelUnknown, Score: 0.5}
	}
	return out, nil
}

func (m *mockClassifier) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

type mockClassifierFactory struct {
	mockClassifier *mockClassifier

	mu       sync.Mutex
	settings []ClassifierSettings
}

func (m *mockClassifierFactory) NewClassifier(s ClassifierSettings) classify.Classifier {
	m.mu.Lock()
	m.settings = append(m.settings, s)
	m.mu.Unlock()

	if m.mockClassifier == nil {
		m.mockClassifier = &mockClassifier{}
	}
	return m.mockClassifier
}

func (m *mockClassifierFactory) Settings() []ClassifierSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ClassifierSettings(nil), m.settings...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader        = (*mockConfigLoader)(nil)
	_ ClassifierFactory   = (*mockClassifierFactory)(nil)
	_ classify.Classifier = (*mockClassifier)(nil)
)
