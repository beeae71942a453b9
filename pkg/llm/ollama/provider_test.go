package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wspace-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"hey"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	reply, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "model", Content: "earlier"}, {Role: "user", Content: "hi"}},
		llm.WithJSONSchema(llm.JSONSchema{Name: "x", Schema: map[string]any{"type": "object"}}),
	)
	require.NoError(t, err)
	assert.Equal(t, "hey", reply)

	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "assistant", got.Messages[0].Role)
	assert.Equal(t, map[string]any{"type": "object"}, got.Format)
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "status 404")
}

func TestChatSurfacesOllamaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"model \"tiny\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "tiny").Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.ErrorContains(t, err, "status 400")
	assert.ErrorContains(t, err, "try pulling it first")
}

func TestChatDecodesReplyWithoutContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hey"},"done":true}`))
	}))
	defer srv.Close()

	reply, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hey", reply)
}

func TestChatRejectsIncompleteReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","done":false}`))
	}))
	defer srv.Close()

	reply, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "incomplete response")
	assert.Empty(t, reply)
}
