// Package ai relays prompts to an OpenAI compatible chat-completion API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pivolan/case_dashboard/logging"
)

const DefaultModel = "gpt-3.5-turbo"

// ErrEmptyCompletion is returned when the API answered without content.
var ErrEmptyCompletion = errors.New("completion returned no content")

// UpstreamError carries the status and message of a failed completion call.
type UpstreamError struct {
	Status  int
	Details string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion request failed with status %d: %s", e.Status, e.Details)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Completer turns a prompt into a single completion.
type Completer interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

// OpenAI is a Completer backed by the openai-go client.
type OpenAI struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAI(opts Options) *OpenAI {
	clientOptions := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOptions = append(clientOptions, option.WithHTTPClient(opts.HTTPClient))
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		client:      openai.NewClient(clientOptions...),
		model:       model,
		temperature: opts.Temperature,
	}
}

// Complete sends prompt as one user message. An empty model uses the configured default.
func (o *OpenAI) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = o.model
	}
	logging.Debugf("Sending prompt to model %s (%d chars)", model, len(prompt))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", upstream(err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}

func upstream(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		details := apiErr.Message
		if details == "" {
			details = apiErr.Error()
		}
		return &UpstreamError{Status: apiErr.StatusCode, Details: details, Err: err}
	}
	return &UpstreamError{Status: http.StatusInternalServerError, Details: err.Error(), Err: err}
}
