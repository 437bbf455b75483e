// Package apierr provides shared error sentinels for HTTP-based model APIs.
// Provider-specific failures are classified into these sentinels at the
// adapter boundary so callers can check them with errors.Is.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid or missing token).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable indicates a server-side failure (5xx), including a model
	// that is still loading.
	ErrUnavailable = errors.New("service unavailable")
)

// FromStatus maps an HTTP status and provider message to a sentinel error.
// Statuses without a sentinel produce a plain error carrying the status.
func FromStatus(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusTooManyRequests:
		// Quota exhaustion needs user action; a plain rate limit does not.
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, ErrTimeout)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrUnavailable)
	}

	if status >= 400 && status < 500 {
		return fmt.Errorf("%s: %w", msg, ErrBadRequest)
	}
	return fmt.Errorf("HTTP %d: %s", status, msg)
}
