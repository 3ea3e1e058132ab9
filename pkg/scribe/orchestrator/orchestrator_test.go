package orchestrator

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/scribe/analysis"
	"ai-scribe-be/pkg/scribe/composer"
	"ai-scribe-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// fakeStreamingClient serves canned analysis replies and a scripted delta
// stream. A non-nil block channel holds the stream open until released.
type fakeStreamingClient struct {
	chunks    []string
	chatErr   error
	streamErr error
	block     chan struct{}
}

func (f *fakeStreamingClient) Reachable(ctx context.Context) bool { return true }

func (f *fakeStreamingClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{"llama3"}, nil
}

func (f *fakeStreamingClient) Chat(ctx context.Context, history []inference.Message, opts ...inference.Option) (string, error) {
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return "analysis note", nil
}

func (f *fakeStreamingClient) ChatStream(ctx context.Context, history []inference.Message, opts ...inference.Option) (<-chan inference.Delta, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	out := make(chan inference.Delta)
	go func() {
		defer close(out)
		if f.block != nil {
			select {
			case <-f.block:
			case <-ctx.Done():
				out <- inference.Delta{Err: inference.ErrCancelled}
				return
			}
		}
		for _, c := range f.chunks {
			select {
			case out <- inference.Delta{Content: c}:
			case <-ctx.Done():
				out <- inference.Delta{Err: inference.ErrCancelled}
				return
			}
		}
	}()
	return out, nil
}

// testSink records callbacks and signals completion.
type testSink struct {
	mu       sync.Mutex
	progress []Progress
	outcome  *Outcome
	err      error
	done     chan struct{}
}

func newTestSink() *testSink {
	return &testSink{done: make(chan struct{})}
}

func (s *testSink) OnProgress(activityID string, p Progress) {
	s.mu.Lock()
	s.progress = append(s.progress, p)
	s.mu.Unlock()
}

func (s *testSink) OnComplete(activityID string, out Outcome) {
	s.mu.Lock()
	s.outcome = &out
	s.mu.Unlock()
	close(s.done)
}

func (s *testSink) OnError(activityID string, err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.done)
}

func (s *testSink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for generation to finish")
	}
}

func newTestOrchestrator(client inference.Client) *Orchestrator {
	quiet := log.New(io.Discard, "", 0)
	stage := analysis.NewStage(client, quiet)
	return New(client, stage, composer.NewComposer(), quiet)
}

func testRequest(activityID string) Request {
	return Request{
		ActivityID: activityID,
		ModelName:  "llama3",
		Input: composer.Input{
			ActivityType: constant.ActivityTypeSessionNote,
			RawText:      "Client discussed coping strategies.",
		},
		Sampling: store.SamplingConfig{Temperature: 0.7, TopP: 0.9, TopK: 40, MaxTokens: 2048},
	}
}

func TestStartCompletesAndSeparatesReasoning(t *testing.T) {
	client := &fakeStreamingClient{
		chunks: []string{"<think>planning the ", "note</think>", "S: Client ", "reported progress."},
	}
	o := newTestOrchestrator(client)
	sink := newTestSink()

	err := o.Start(context.Background(), testRequest("act-1"), sink)
	assert.NoError(t, err)
	sink.wait(t)

	assert.NoError(t, sink.err)
	assert.NotNil(t, sink.outcome)
	assert.Equal(t, "S: Client reported progress.", sink.outcome.FinalResponse)
	assert.Equal(t, "planning the note", sink.outcome.Reasoning)
	assert.Equal(t, "Client discussed coping strategies.", sink.outcome.DisplayPrompt)
	assert.Equal(t, StateCompleted, o.Status("act-1"))

	// Every reasoning span was tagged as such on the way through
	for _, p := range sink.progress {
		if p.Segment == SegmentReasoning {
			assert.NotContains(t, p.Content, "reported progress")
		}
	}
}

func TestStartRequiresModel(t *testing.T) {
	o := newTestOrchestrator(&fakeStreamingClient{})
	req := testRequest("act-1")
	req.ModelName = ""

	err := o.Start(context.Background(), req, newTestSink())
	assert.ErrorIs(t, err, ErrNoActiveModel)
	assert.Equal(t, StateIdle, o.Status("act-1"))
}

func TestStartRejectsConcurrentJobOnSameActivity(t *testing.T) {
	client := &fakeStreamingClient{chunks: []string{"done"}, block: make(chan struct{})}
	o := newTestOrchestrator(client)
	sink := newTestSink()

	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink))

	// Same activity: rejected while the first job is live
	err := o.Start(context.Background(), testRequest("act-1"), newTestSink())
	assert.ErrorIs(t, err, ErrAlreadyGenerating)

	// A different activity is unaffected
	otherSink := newTestSink()
	other := testRequest("act-2")
	assert.NoError(t, o.Start(context.Background(), other, otherSink))

	close(client.block)
	sink.wait(t)
	otherSink.wait(t)
	assert.Equal(t, StateCompleted, o.Status("act-1"))
	assert.Equal(t, StateCompleted, o.Status("act-2"))
}

func TestStartAgainAfterCompletionReplacesJob(t *testing.T) {
	client := &fakeStreamingClient{chunks: []string{"first"}}
	o := newTestOrchestrator(client)

	sink := newTestSink()
	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink))
	sink.wait(t)

	sink2 := newTestSink()
	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink2))
	sink2.wait(t)
	assert.Equal(t, StateCompleted, o.Status("act-1"))
}

func TestCancelStopsStreamingJob(t *testing.T) {
	client := &fakeStreamingClient{chunks: []string{"never delivered"}, block: make(chan struct{})}
	o := newTestOrchestrator(client)
	sink := newTestSink()

	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink))
	assert.Eventually(t, func() bool {
		return o.Status("act-1") == StateStreaming
	}, 2*time.Second, 10*time.Millisecond)

	o.Cancel("act-1")
	assert.Eventually(t, func() bool {
		return o.Status("act-1") == StateCancelled
	}, 2*time.Second, 10*time.Millisecond)

	// Nothing was persisted or completed
	assert.Nil(t, sink.outcome)
	assert.NoError(t, sink.err)

	// Cancelling again, or cancelling an unknown activity, is a no-op
	o.Cancel("act-1")
	o.Cancel("act-unknown")
	assert.Equal(t, StateCancelled, o.Status("act-1"))
}

func TestStreamSetupFailureReportsError(t *testing.T) {
	client := &fakeStreamingClient{streamErr: errors.New("connection refused")}
	o := newTestOrchestrator(client)
	sink := newTestSink()

	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink))
	sink.wait(t)

	assert.Error(t, sink.err)
	assert.Nil(t, sink.outcome)
	assert.Equal(t, StateFailed, o.Status("act-1"))
}

func TestAnalysisFailureDoesNotStopGeneration(t *testing.T) {
	client := &fakeStreamingClient{
		chunks:  []string{"the note"},
		chatErr: errors.New("analysis backend down"),
	}
	o := newTestOrchestrator(client)
	sink := newTestSink()

	assert.NoError(t, o.Start(context.Background(), testRequest("act-1"), sink))
	sink.wait(t)

	assert.NoError(t, sink.err)
	assert.NotNil(t, sink.outcome)
	assert.Equal(t, "the note", sink.outcome.FinalResponse)
	// Degraded passes still report their labels with empty text
	assert.Len(t, sink.outcome.Analyses, 2)
	for _, a := range sink.outcome.Analyses {
		assert.Empty(t, a.Text)
	}
}

func TestStatusUnknownActivityIsIdle(t *testing.T) {
	o := newTestOrchestrator(&fakeStreamingClient{})
	assert.Equal(t, StateIdle, o.Status("nope"))
}

func TestFinishedJobsLeaveTheRunningMap(t *testing.T) {
	client := &fakeStreamingClient{chunks: []string{"done"}}
	o := newTestOrchestrator(client)

	for _, id := range []string{"act-1", "act-2", "act-3"} {
		sink := newTestSink()
		assert.NoError(t, o.Start(context.Background(), testRequest(id), sink))
		sink.wait(t)
	}

	o.mu.Lock()
	running := len(o.jobs)
	o.mu.Unlock()
	assert.Zero(t, running)

	// The last state is still reported after eviction
	assert.Equal(t, StateCompleted, o.Status("act-1"))
	assert.Equal(t, StateCompleted, o.Status("act-3"))
}
