package classify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/alnah/go-genderize/internal/apierr"
)

// Hugging Face Inference API configuration.
const (
	// DefaultHuggingFaceBaseURL serves hosted pipelines under /models/{id}.
	DefaultHuggingFaceBaseURL = "https://router.huggingface.co/hf-inference"

	// DefaultHuggingFaceModel is a text-classification model trained on
	// first names with female/male labels.
	DefaultHuggingFaceModel = "Amanaccessassist/Gender-Classification"

	// Cold models can take a while to load on first call.
	defaultHuggingFaceHTTPTimeout = 5 * time.Minute

	// Response size limit to prevent OOM from malformed responses (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// httpDoer abstracts HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HuggingFaceClassifier classifies names with a hosted text-classification
// pipeline. Each Classify call is one HTTP request; errors are not retried.
type HuggingFaceClassifier struct {
	token      string
	baseURL    string
	model      string
	httpClient httpDoer
}

// HuggingFaceOption configures a HuggingFaceClassifier.
type HuggingFaceOption func(*HuggingFaceClassifier)

// WithHuggingFaceModel sets the model repository id.
func WithHuggingFaceModel(model string) HuggingFaceOption {
	return func(c *HuggingFaceClassifier) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHuggingFaceBaseURL sets a custom base URL (self-hosted endpoints or tests).
func WithHuggingFaceBaseURL(u string) HuggingFaceOption {
	return func(c *HuggingFaceClassifier) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(d httpDoer) HuggingFaceOption {
	return func(c *HuggingFaceClassifier) {
		c.httpClient = d
	}
}

// NewHuggingFaceClassifier creates a HuggingFaceClassifier.
// token may be empty for endpoints that do not require authentication.
func NewHuggingFaceClassifier(token string, opts ...HuggingFaceOption) *HuggingFaceClassifier {
	c := &HuggingFaceClassifier{
		token:   token,
		baseURL: DefaultHuggingFaceBaseURL,
		model:   DefaultHuggingFaceModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHuggingFaceHTTPTimeout}
	}
	return c
}

// Model returns the model repository id requests are sent to.
func (c *HuggingFaceClassifier) Model() string {
	return c.model
}

// huggingFaceRequest is the pipeline request body.
type huggingFaceRequest struct {
	Inputs []string `json:"inputs"`
}

// huggingFaceError is the error body returned by the Inference API.
type huggingFaceError struct {
	Error         any     `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Classify sends texts as one batch and returns one prediction per text.
// When the API ranks every label for an input, the top label is kept.
func (c *HuggingFaceClassifier) Classify(ctx context.Context, texts []string) (_ []Prediction, err error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(huggingFaceRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHuggingFaceError(resp.StatusCode, respBody)
	}

	return decodeHuggingFacePredictions(respBody)
}

// decodeHuggingFacePredictions validates the response shape and reduces
// ranked lists to their best entry.
func decodeHuggingFacePredictions(body []byte) ([]Prediction, error) {
	if err := validateShape(huggingFaceResponse, body); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}

	preds := make([]Prediction, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '[' {
			var ranked []Prediction
			if err := json.Unmarshal(item, &ranked); err != nil {
				return nil, fmt.Errorf("item %d: %v: %w", i, err, ErrMalformedResponse)
			}
			preds[i] = best(ranked)
			continue
		}
		if err := json.Unmarshal(item, &preds[i]); err != nil {
			return nil, fmt.Errorf("item %d: %v: %w", i, err, ErrMalformedResponse)
		}
	}
	return preds, nil
}

// best returns the highest-scoring prediction; ties keep the earlier one.
func best(ranked []Prediction) Prediction {
	top := ranked[0]
	for _, p := range ranked[1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return top
}

// parseHuggingFaceError maps an error response to an apierr sentinel.
func parseHuggingFaceError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))

	var errResp huggingFaceError
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		switch e := errResp.Error.(type) {
		case string:
			msg = e
		case []any:
			parts := make([]string, 0, len(e))
			for _, p := range e {
				parts = append(parts, fmt.Sprint(p))
			}
			msg = strings.Join(parts, "; ")
		default:
			msg = fmt.Sprint(e)
		}
		if errResp.EstimatedTime > 0 {
			msg = fmt.Sprintf("%s (estimated time %.0fs)", msg, errResp.EstimatedTime)
		}
	}

	return apierr.FromStatus(status, msg)
}

// classifyTransportError maps client-side failures to apierr sentinels.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}
	return err
}
