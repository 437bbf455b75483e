package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// Tests for sentinel errors
// ---------------------------------------------------------------------------

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrAPIKeyMissing,
		ErrFileNotFound,
		ErrInvalidProvider,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j {
				assert.False(t, errors.Is(err1, err2), "sentinels %d and %d should not match", i, j)
			}
		}
	}
}

func TestSentinelErrors_CanBeWrapped(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []error{ErrAPIKeyMissing, ErrFileNotFound, ErrInvalidProvider} {
		wrapped := fmt.Errorf("context: %w", sentinel)
		assert.ErrorIs(t, wrapped, sentinel)
		assert.Contains(t, wrapped.Error(), sentinel.Error())
	}
}
