package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	json "github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-genderize/internal/apierr"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// Labels the chat model may answer with.
const (
	LabelFemale  = "female"
	LabelMale    = "male"
	LabelUnknown = "unknown"
)

const openAISystemPrompt = `You classify the likely gender of person names.
The user sends a JSON array of names. Answer with a JSON object of the form
{"predictions": [{"label": "...", "score": 0.0}]} containing exactly one entry
per name, in the same order as the input.
"label" is one of: %s. Use "unknown" for empty strings or names you cannot judge.
"score" is your confidence between 0 and 1.`

// chatCompleter abstracts the go-openai client for testing.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier classifies names by prompting a chat model for
// JSON-formatted predictions.
type OpenAIClassifier struct {
	client chatCompleter
	model  string
	labels []string
}

// OpenAIOption configures an OpenAIClassifier.
type OpenAIOption func(*OpenAIClassifier)

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClassifier) {
		if model != "" {
			c.model = model
		}
	}
}

// NewOpenAIClassifier creates an OpenAIClassifier on top of an OpenAI client.
func NewOpenAIClassifier(client *openai.Client, opts ...OpenAIOption) *OpenAIClassifier {
	return newOpenAIClassifier(client, opts...)
}

func newOpenAIClassifier(client chatCompleter, opts ...OpenAIOption) *OpenAIClassifier {
	c := &OpenAIClassifier{
		client: client,
		model:  DefaultOpenAIModel,
		labels: []string{LabelFemale, LabelMale, LabelUnknown},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the chat model requests are sent to.
func (c *OpenAIClassifier) Model() string {
	return c.model
}

type openAIPredictions struct {
	Predictions []Prediction `json:"predictions"`
}

// Classify sends texts as one chat completion and returns the parsed
// predictions. The count is not checked here; callers verify alignment.
func (c *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	names, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal names: %w", err)
	}

	quoted := make([]string, len(c.labels))
	for i, l := range c.labels {
		quoted[i] = `"` + l + `"`
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		// Zero is dropped by omitempty and would leave the provider default.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(openAISystemPrompt, strings.Join(quoted, ", "))},
			{Role: openai.ChatMessageRoleUser, Content: string(names)},
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned: %w", ErrMalformedResponse)
	}

	content := []byte(resp.Choices[0].Message.Content)
	if err := validateShape(openAIResponse, content); err != nil {
		return nil, err
	}

	var out openAIPredictions
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}
	return out.Predictions, nil
}

// classifyOpenAIError maps go-openai errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apierr.FromStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return apierr.FromStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return classifyTransportError(err)
}
