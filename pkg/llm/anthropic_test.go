package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-playground/assert/v2"
)

func TestAnthropicGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Margins widen\nGross margin rose 120bp."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 12}
		}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	text, err := client.Generate(context.Background(), "analyze", 0.2, "claude-haiku-4-5")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Margins widen\nGross margin rose 120bp.", text)
	assert.Equal(t, "claude-haiku-4-5", got["model"])
	assert.Equal(t, 0.2, got["temperature"])
}

func TestAnthropicGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := client.Generate(context.Background(), "analyze", 0.2, "claude-haiku-4-5")

	assert.NotEqual(t, nil, err)
}
