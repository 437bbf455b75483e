package cli

import (
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-genderize/internal/classify"
	"github.com/alnah/go-genderize/internal/config"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader      ConfigLoader
	ClassifierFactory ClassifierFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// ClassifierSettings selects and configures a classifier backend.
// Empty Model and BaseURL select the provider defaults.
type ClassifierSettings struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
}

// ClassifierFactory creates name classifiers.
type ClassifierFactory interface {
	NewClassifier(s ClassifierSettings) classify.Classifier
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClassifierFactory sets the classifier factory.
func WithClassifierFactory(f ClassifierFactory) EnvOption {
	return func(e *Env) {
		e.ClassifierFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
		Getenv:            os.Getenv,
		Now:               time.Now,
		ConfigLoader:      &defaultConfigLoader{},
		ClassifierFactory: &defaultClassifierFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultClassifierFactory builds hosted-model classifiers.
type defaultClassifierFactory struct{}

func (defaultClassifierFactory) NewClassifier(s ClassifierSettings) classify.Classifier {
	if s.Provider.IsOpenAI() {
		cfg := openai.DefaultConfig(s.APIKey)
		if s.BaseURL != "" {
			cfg.BaseURL = s.BaseURL
		}
		return classify.NewOpenAIClassifier(openai.NewClientWithConfig(cfg),
			classify.WithOpenAIModel(s.Model))
	}
	return classify.NewHuggingFaceClassifier(s.APIKey,
		classify.WithHuggingFaceModel(s.Model),
		classify.WithHuggingFaceBaseURL(s.BaseURL))
}

// Compile-time interface verification.
var (
	_ ConfigLoader      = (*defaultConfigLoader)(nil)
	_ ClassifierFactory = (*defaultClassifierFactory)(nil)
)
