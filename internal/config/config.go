package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyBaseURL   = "base-url"
	KeyBatchSize = "batch-size"
	KeyLogLevel  = "log-level"
)

// Environment variable fallbacks.
const (
	EnvProvider  = "GENDERIZE_PROVIDER"
	EnvModel     = "GENDERIZE_MODEL"
	EnvBaseURL   = "GENDERIZE_BASE_URL"
	EnvBatchSize = "GENDERIZE_BATCH_SIZE"
	EnvLogLevel  = "GENDERIZE_LOG_LEVEL"
)

const (
	appDir   = "go-genderize"
	fileName = "config.yaml"
)

// keyEnv maps every supported key to its environment fallback, in display order.
var keyEnv = []struct{ key, env string }{
	{KeyProvider, EnvProvider},
	{KeyModel, EnvModel},
	{KeyBaseURL, EnvBaseURL},
	{KeyBatchSize, EnvBatchSize},
	{KeyLogLevel, EnvLogLevel},
}

// Config holds user configuration loaded from ~/.config/go-genderize/config.yaml.
// Zero fields mean "not set"; callers apply their own defaults.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	BatchSize int
	LogLevel  string
}

// Keys returns every supported configuration key.
func Keys() []string {
	keys := make([]string, len(keyEnv))
	for i, k := range keyEnv {
		keys[i] = k.key
	}
	return keys
}

// IsValidKey reports whether key is a supported setting.
func IsValidKey(key string) bool {
	return slices.Contains(Keys(), key)
}

// EnvFor returns the environment variable that backs key, or "".
func EnvFor(key string) string {
	for _, k := range keyEnv {
		if k.key == key {
			return k.env
		}
	}
	return ""
}

// Validate checks a value before it is stored under key.
func Validate(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%q (valid keys: %s): %w", key, strings.Join(Keys(), ", "), ErrUnknownKey)
	}
	switch key {
	case KeyBatchSize:
		if _, err := parseBatchSize(value); err != nil {
			return err
		}
	case KeyLogLevel:
		if _, err := zerolog.ParseLevel(value); err != nil || value == "" {
			return fmt.Errorf("%s %q (use trace, debug, info, warn, error): %w", key, value, ErrInvalidValue)
		}
	}
	return nil
}

func parseBatchSize(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s %q must be a positive integer: %w", KeyBatchSize, value, ErrInvalidValue)
	}
	return n, nil
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-genderize.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	data, err := List()
	if err != nil {
		return cfg, err
	}

	for _, k := range keyEnv {
		if data[k.key] == "" {
			data[k.key] = os.Getenv(k.env)
		}
	}

	cfg.Provider = data[KeyProvider]
	cfg.Model = data[KeyModel]
	cfg.BaseURL = data[KeyBaseURL]
	cfg.LogLevel = data[KeyLogLevel]
	if v := data[KeyBatchSize]; v != "" {
		n, err := parseBatchSize(v)
		if err != nil {
			return cfg, err
		}
		cfg.BatchSize = n
	}

	return cfg, nil
}

// parseFile reads a flat YAML mapping of key: value.
// Scalars of any type are read as their literal text.
func parseFile(p string) (map[string]string, error) {
	raw, err := os.ReadFile(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}

	data := make(map[string]string)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", p, err)
	}
	return data, nil
}

// Save writes a single key: value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing pairs but discards comments.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if existing == nil {
		existing = make(map[string]string)
	}

	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map as YAML with sorted keys.
func writeFile(p string, data map[string]string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// #nosec G306 -- config file with standard permissions
	if err := os.WriteFile(p, out, 0644); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
