package config

import "errors"

var (
	// ErrUnknownKey indicates a key that is not a supported setting.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a setting whose value cannot be used.
	ErrInvalidValue = errors.New("invalid config value")
)
