package service

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/internal/dto"
	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/scribe/analysis"
	"ai-scribe-be/pkg/scribe/codec"
	"ai-scribe-be/pkg/scribe/composer"
	"ai-scribe-be/pkg/scribe/orchestrator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedInferenceClient replays a fixed delta stream and records the
// message history each streaming call received.
type scriptedInferenceClient struct {
	mu        sync.Mutex
	chunks    []string
	histories [][]inference.Message
}

func (c *scriptedInferenceClient) Reachable(ctx context.Context) bool { return true }

func (c *scriptedInferenceClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{"llama3"}, nil
}

func (c *scriptedInferenceClient) Chat(ctx context.Context, history []inference.Message, opts ...inference.Option) (string, error) {
	return "analysis note", nil
}

func (c *scriptedInferenceClient) ChatStream(ctx context.Context, history []inference.Message, opts ...inference.Option) (<-chan inference.Delta, error) {
	c.mu.Lock()
	c.histories = append(c.histories, history)
	chunks := c.chunks
	c.mu.Unlock()

	out := make(chan inference.Delta, len(chunks))
	for _, ch := range chunks {
		out <- inference.Delta{Content: ch}
	}
	close(out)
	return out, nil
}

func (c *scriptedInferenceClient) streamCalls() [][]inference.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]inference.Message(nil), c.histories...)
}

// captureBroadcaster signals terminal broadcasts so tests can wait for the
// job goroutine to finish.
type captureBroadcaster struct {
	complete chan string
	failed   chan string
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{
		complete: make(chan string, 4),
		failed:   make(chan string, 4),
	}
}

func (b *captureBroadcaster) BroadcastProgress(userId, activityId string, p orchestrator.Progress) {
}

func (b *captureBroadcaster) BroadcastComplete(userId, activityId, finalResponse string) {
	b.complete <- finalResponse
}

func (b *captureBroadcaster) BroadcastError(userId, activityId, message string) {
	b.failed <- message
}

func (b *captureBroadcaster) waitComplete(t *testing.T) string {
	t.Helper()
	select {
	case res := <-b.complete:
		return res
	case msg := <-b.failed:
		t.Fatalf("generation reported error: %s", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for generation to finish")
	}
	return ""
}

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
	return nil
}

func newGenerationFixture(t *testing.T, chunks []string) (*activityFixture, IGenerationService, *captureBroadcaster, *scriptedInferenceClient) {
	t.Helper()
	f := newActivityFixture(t)
	client := &scriptedInferenceClient{chunks: chunks}
	quiet := log.New(io.Discard, "", 0)
	orch := orchestrator.New(client, analysis.NewStage(client, quiet), composer.NewComposer(), quiet)
	bc := newCaptureBroadcaster()

	svc := &generationService{
		uowFactory:       &fakeFactory{uow: f.uow},
		orch:             orch,
		client:           client,
		workspaceRepo:    f.wsRepo,
		broadcaster:      bc,
		publisherService: &capturePublisher{},
		modelName:        "llama3",
		backendType:      "ollama",
		genLogger:        quiet,
	}
	return f, svc, bc, client
}

func TestCompletedExchangeKeepsTaggedReasoning(t *testing.T) {
	chunks := []string{"<think>differential: adjustment vs GAD</think>", "S: Client reported work anxiety."}
	f, svc, bc, _ := newGenerationFixture(t, chunks)
	id := f.createActivity(t, constant.ActivityTypeSessionNote, "")

	_, err := svc.Start(context.Background(), f.userId, &dto.StartGenerationRequest{
		ActivityId: id,
		RawText:    "Client discussed work anxiety.",
	})
	require.NoError(t, err)
	final := bc.waitComplete(t)
	assert.Equal(t, "S: Client reported work anxiety.", final)

	stored := f.uow.activities.activities[id]
	require.NotEmpty(t, stored.PersistedRecord)
	ex := codec.Decode(stored.PersistedRecord)
	assert.False(t, ex.Legacy)
	assert.Equal(t, "S: Client reported work anxiety.", ex.FinalResponse)
	assert.Equal(t, "differential: adjustment vs GAD", ex.Reasoning)
	assert.Equal(t, "Client discussed work anxiety.", ex.DisplayPrompt)

	// Thinking stays out of the conversation buffer the UI renders
	ws, found := f.wsRepo.Get(f.userId.String())
	require.True(t, found)
	require.Len(t, ws.Buffer, 2)
	for _, m := range ws.Buffer {
		assert.NotContains(t, m.Content, "differential")
	}
}

func TestStartClearsBufferForEveryActivityType(t *testing.T) {
	f, svc, bc, client := newGenerationFixture(t, []string{"Try an open-ended check-in."})
	id := f.createActivity(t, constant.ActivityTypeBrainstorm, "")
	req := &dto.StartGenerationRequest{
		ActivityId: id,
		RawText:    "How can I help this client open up?",
	}

	_, err := svc.Start(context.Background(), f.userId, req)
	require.NoError(t, err)
	bc.waitComplete(t)

	ws, found := f.wsRepo.Get(f.userId.String())
	require.True(t, found)
	require.Len(t, ws.Buffer, 2)

	// Rerunning replaces the exchange instead of extending it
	_, err = svc.Start(context.Background(), f.userId, req)
	require.NoError(t, err)
	bc.waitComplete(t)

	ws, found = f.wsRepo.Get(f.userId.String())
	require.True(t, found)
	assert.Len(t, ws.Buffer, 2)

	// Each run sends only the freshly composed prompt, never stale turns
	for _, history := range client.streamCalls() {
		assert.Len(t, history, 1)
	}
}
