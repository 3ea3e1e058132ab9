package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-scribe-be/pkg/inference"

	"github.com/stretchr/testify/assert"
)

func newTestProvider(handler http.HandlerFunc) (*Provider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	p := NewProvider("test-key", srv.URL, "test-model")
	return p, srv
}

func TestChatSendsBearerAndMapsRoles(t *testing.T) {
	var got chatRequest
	var auth string
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	})
	defer srv.Close()

	text, err := p.Chat(context.Background(),
		[]inference.Message{{Role: "model", Content: "hi"}},
		inference.WithSystem("be brief"),
		inference.WithTopK(40), // no wire equivalent, must be dropped silently
	)

	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, 2048, got.MaxTokens) // default applied when unset
}

func TestChatSurfacesBackendErrorPayload(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	})
	defer srv.Close()

	_, err := p.Chat(context.Background(), []inference.Message{{Role: "user", Content: "hi"}})
	assert.ErrorContains(t, err, "model overloaded")
}

func TestChatStreamParsesSSE(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.Write([]byte(": keep-alive comment, ignored\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n"))
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

func TestChatStreamStopsOnFinishReason(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"done\"},\"finish_reason\":\"stop\"}]}\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"never seen\"}}]}\n"))
	})
	defer srv.Close()

	deltas, err := p.ChatStream(context.Background(), []inference.Message{{Role: "user", Content: "hi"}})
	assert.NoError(t, err)

	var out string
	for d := range deltas {
		assert.NoError(t, d.Err)
		out += d.Content
	}
	assert.Equal(t, "done", out)
}

func TestChatStreamSetupErrorMapsHTTPStatus(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := p.ChatStream(context.Background(), nil)
	var httpErr *inference.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestListModels(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"qwen-72b"},{"id":"llama-70b"}]}`))
	})
	defer srv.Close()

	models, err := p.ListModels(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"qwen-72b", "llama-70b"}, models)
}

func TestReachable(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, p.Reachable(context.Background()))

	srv.Close()
	assert.False(t, p.Reachable(context.Background()))
}
