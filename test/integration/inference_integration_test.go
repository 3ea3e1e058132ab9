// Live smoke test against a local Ollama server. Gated behind an env var so
// the normal test run never depends on external services:
//
//	INFERENCE_INTEGRATION=1 go test ./test/integration/...
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/inference/ollama"
)

const (
	ollamaBaseURL = "http://localhost:11434"
	ollamaModel   = "llama3"
)

func liveProvider(t *testing.T) *ollama.OllamaProvider {
	t.Helper()
	if os.Getenv("INFERENCE_INTEGRATION") == "" {
		t.Skip("set INFERENCE_INTEGRATION=1 to run live inference tests")
	}
	p := ollama.NewOllamaProvider(ollamaBaseURL, ollamaModel)
	if !p.Reachable(context.Background()) {
		t.Skipf("no Ollama server at %s", ollamaBaseURL)
	}
	return p
}

func TestLiveListModels(t *testing.T) {
	p := liveProvider(t)

	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) == 0 {
		t.Fatal("expected at least one installed model")
	}
	t.Logf("installed models: %v", models)
}

func TestLiveChat(t *testing.T) {
	p := liveProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	response, err := p.Chat(ctx, []inference.Message{
		{Role: "user", Content: "Reply with the single word: ready"},
	}, inference.WithMaxTokens(16))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if response == "" {
		t.Fatal("expected a non-empty response")
	}
	t.Logf("response: %s", response)
}

func TestLiveChatStream(t *testing.T) {
	p := liveProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	deltas, err := p.ChatStream(ctx, []inference.Message{
		{Role: "user", Content: "Count from 1 to 5."},
	}, inference.WithMaxTokens(64))
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	var chunks int
	var out string
	for d := range deltas {
		if d.Err != nil {
			t.Fatalf("stream error after %d chunks: %v", chunks, d.Err)
		}
		chunks++
		out += d.Content
	}
	if chunks == 0 || out == "" {
		t.Fatal("expected streamed content")
	}
	t.Logf("received %d chunks", chunks)
}
