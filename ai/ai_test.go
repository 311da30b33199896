package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return server
}

func completionBody(content string) string {
	return `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` +
		mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestOpenAIComplete(t *testing.T) {
	var got chatRequest
	server := newServer(t, func(w http.ResponseWriter, req chatRequest) {
		got = req
		w.Write([]byte(completionBody("Three cases are pending.")))
	})

	c := NewOpenAI(Options{APIKey: "test-key", BaseURL: server.URL, Temperature: 0.7})
	result, err := c.Complete(context.Background(), "Summarize the docket", "")
	require.NoError(t, err)
	assert.Equal(t, "Three cases are pending.", result)

	assert.Equal(t, DefaultModel, got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Summarize the docket", got.Messages[0].Content)

	_, err = c.Complete(context.Background(), "again", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}

func TestOpenAIEmptyCompletion(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, req chatRequest) {
		w.Write([]byte(completionBody("")))
	})
	c := NewOpenAI(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := c.Complete(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIUpstreamError(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, req chatRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	})
	c := NewOpenAI(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := c.Complete(context.Background(), "hi", "")

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
	assert.Contains(t, upErr.Details, "Rate limit reached")
}
