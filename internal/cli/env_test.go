package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-genderize/internal/classify"
)

// ---------------------------------------------------------------------------
// Tests for DefaultEnv / NewEnv
// ---------------------------------------------------------------------------

func TestDefaultEnvReturnsValidEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	require.NotNil(t, env)

	assert.Same(t, os.Stdout, env.Stdout)
	assert.Same(t, os.Stderr, env.Stderr)
	assert.NotNil(t, env.Getenv)
	assert.NotNil(t, env.Now)
	assert.NotNil(t, env.ConfigLoader)
	assert.NotNil(t, env.ClassifierFactory)
}

func TestNewEnvAppliesOptions(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	loader := &mockConfigLoader{}
	factory := &mockClassifierFactory{}

	env := NewEnv(
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithGetenv(staticEnv(map[string]string{"K": "v"})),
		WithNow(fixedTime(fixed)),
		WithConfigLoader(loader),
		WithClassifierFactory(factory),
	)

	assert.Same(t, &stdout, env.Stdout)
	assert.Same(t, &stderr, env.Stderr)
	assert.Equal(t, "v", env.Getenv("K"))
	assert.Equal(t, fixed, env.Now())
	assert.Same(t, loader, env.ConfigLoader)
	assert.Same(t, factory, env.ClassifierFactory)
}

// ---------------------------------------------------------------------------
// Tests for defaultClassifierFactory
// ---------------------------------------------------------------------------

func TestDefaultClassifierFactory(t *testing.T) {
	t.Parallel()

	f := defaultClassifierFactory{}

	hf := f.NewClassifier(ClassifierSettings{Provider: HuggingFaceProvider, Model: "acme/names"})
	hfc, ok := hf.(*classify.HuggingFaceClassifier)
	require.True(t, ok, "got %T", hf)
	assert.Equal(t, "acme/names", hfc.Model())

	hfDefault := f.NewClassifier(ClassifierSettings{Provider: HuggingFaceProvider})
	assert.Equal(t, classify.DefaultHuggingFaceModel, hfDefault.(*classify.HuggingFaceClassifier).Model())

	oa := f.NewClassifier(ClassifierSettings{Provider: OpenAIProvider, APIKey: "sk-test", BaseURL: "http://localhost/v1"})
	oac, ok := oa.(*classify.OpenAIClassifier)
	require.True(t, ok, "got %T", oa)
	assert.Equal(t, classify.DefaultOpenAIModel, oac.Model())
}
