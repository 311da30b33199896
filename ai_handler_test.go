package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/case_dashboard/ai"
)

type fakeCompleter struct {
	result string
	err    error

	prompt, model string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt, model string) (string, error) {
	f.prompt, f.model = prompt, model
	return f.result, f.err
}

func TestHandleAI(t *testing.T) {
	tests := []struct {
		name       string
		completer  *fakeCompleter
		body       interface{}
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "ok",
			completer:  &fakeCompleter{result: "Hello!"},
			body:       map[string]string{"prompt": "Hi"},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"result": "Hello!"},
		},
		{
			name:       "missing prompt",
			completer:  &fakeCompleter{},
			body:       map[string]string{"model": "gpt-4"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "Prompt is required"},
		},
		{
			name:       "broken json",
			completer:  &fakeCompleter{},
			body:       "{prompt",
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "Prompt is required"},
		},
		{
			name:       "empty completion",
			completer:  &fakeCompleter{err: ai.ErrEmptyCompletion},
			body:       map[string]string{"prompt": "Hi"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to get response content from OpenAI"},
		},
		{
			name:       "upstream status",
			completer:  &fakeCompleter{err: &ai.UpstreamError{Status: http.StatusTooManyRequests, Details: "Rate limit reached"}},
			body:       map[string]string{"prompt": "Hi"},
			wantStatus: http.StatusTooManyRequests,
			wantBody:   map[string]string{"error": "Failed to process AI request", "details": "Rate limit reached"},
		},
		{
			name:       "transport error",
			completer:  &fakeCompleter{err: errors.New("connection refused")},
			body:       map[string]string{"prompt": "Hi"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to process AI request", "details": "connection refused"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.completer)
			rec := ts.do(t, http.MethodPost, "/api/ai", "", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeBody[map[string]string](t, rec))
		})
	}
}

func TestHandleAIModel(t *testing.T) {
	fake := &fakeCompleter{result: "ok"}
	ts := newTestServer(t, fake)

	rec := ts.do(t, http.MethodPost, "/api/ai", "", map[string]string{"prompt": "Summarise"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Summarise", fake.prompt)
	assert.Equal(t, "gpt-3.5-turbo", fake.model)

	ts.do(t, http.MethodPost, "/api/ai", "", map[string]string{"prompt": "Summarise", "model": "gpt-4o"})
	assert.Equal(t, "gpt-4o", fake.model)
}

func TestHandleAIWithoutCompleter(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodPost, "/api/ai", "", map[string]string{"prompt": "Hi"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
