package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wspace-be/pkg/llm"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "", "gpt-4o-mini")
	assert.Error(t, err)
}

func TestChatSendsSchemaAndReturnsContent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"content\":\"hello\",\"needsWebSearch\":false}"}}]
		}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("sk-test", srv.URL+"/", "gpt-4o-mini", option.WithMaxRetries(0))
	require.NoError(t, err)

	reply, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "hi"},
	}, llm.WithJSONSchema(llm.JSONSchema{Name: "chat_reply", Schema: map[string]any{"type": "object"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"hello","needsWebSearch":false}`, reply)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("sk-test", srv.URL+"/", "gpt-4o-mini", option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "openai generation failed")
}
