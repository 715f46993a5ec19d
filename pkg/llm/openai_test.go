package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/openai/openai-go/option"
)

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Buybacks offset dilution\nShare count fell 3%."}}]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	text, err := client.Generate(context.Background(), "analyze", 0.7, "gpt-4o-mini")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Buybacks offset dilution\nShare count fell 3%.", text)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
}

func TestOpenAIGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := client.Generate(context.Background(), "analyze", 0.2, "gpt-4o")

	assert.NotEqual(t, nil, err)
}
