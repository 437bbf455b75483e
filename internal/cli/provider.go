package cli

import (
	"errors"
	"fmt"
)

// Provider names accepted by --provider and the provider config key.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// Environment variables holding provider credentials.
const (
	EnvHuggingFaceToken = "HF_TOKEN"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
)

// Provider represents a validated classifier backend.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed values.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed providers for use in code.
var (
	HuggingFaceProvider = Provider{name: ProviderHuggingFace}
	OpenAIProvider      = Provider{name: ProviderOpenAI}
)

var validProviders = map[string]bool{
	ProviderHuggingFace: true,
	ProviderOpenAI:      true,
}

// ParseProvider validates and parses a provider name string.
// Names are case-sensitive.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use '%s' or '%s'): %w",
			s, ProviderHuggingFace, ProviderOpenAI, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// String returns the provider name string.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if no provider is set.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// IsOpenAI returns true if this provider is OpenAI.
func (p Provider) IsOpenAI() bool {
	return p.name == ProviderOpenAI
}

// OrDefault returns the provider, or HuggingFaceProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return HuggingFaceProvider
	}
	return p
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p Provider) APIKeyEnv() string {
	if p.IsOpenAI() {
		return EnvOpenAIAPIKey
	}
	return EnvHuggingFaceToken
}

// RequiresAPIKey reports whether requests fail without a key.
// Hugging Face serves some endpoints anonymously.
func (p Provider) RequiresAPIKey() bool {
	return p.IsOpenAI()
}
