package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-scribe-be/pkg/inference"

	"github.com/stretchr/testify/assert"
)

func newTestProvider(handler http.HandlerFunc) (*OllamaProvider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	p := NewOllamaProvider(srv.URL, "llama3")
	return p, srv
}

func TestChatInjectsSystemAndOptions(t *testing.T) {
	var got ollamaChatRequest
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "hello"},
			Done:    true,
		})
	})
	defer srv.Close()

	text, err := p.Chat(context.Background(),
		[]inference.Message{{Role: "model", Content: "hi"}},
		inference.WithSystem("be brief"),
		inference.WithTemperature(0.2),
		inference.WithMaxTokens(128),
	)

	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.False(t, got.Stream)
	assert.Equal(t, "llama3", got.Model)
	// System message first, "model" role normalized to "assistant"
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, 0.2, got.Options.Temperature)
	assert.Equal(t, 128, got.Options.NumPredict)
}

func TestChatStreamParsesNDJSON(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":"Hel"},"done":false}` + "\n"))
		w.Write([]byte("\n")) // blank lines are tolerated
		w.Write([]byte(`{"message":{"role":"assistant","content":"lo"},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"role":"assistant","content":""},"done":true}` + "\n"))
	})
	defer srv.Close()

	deltas, err := p.ChatStream(context.Background(), []inference.Message{{Role: "user", Content: "hi"}})
	assert.NoError(t, err)

	var out string
	for d := range deltas {
		assert.NoError(t, d.Err)
		out += d.Content
	}
	assert.Equal(t, "Hello", out)
}

func TestChatStreamSetupErrorMapsHTTPStatus(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})
	defer srv.Close()

	_, err := p.ChatStream(context.Background(), nil)
	var httpErr *inference.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestListModels(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"qwen2.5"}]}`))
	})
	defer srv.Close()

	models, err := p.ListModels(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"llama3", "qwen2.5"}, models)
}

func TestReachable(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, p.Reachable(context.Background()))

	srv.Close()
	assert.False(t, p.Reachable(context.Background()))
}
