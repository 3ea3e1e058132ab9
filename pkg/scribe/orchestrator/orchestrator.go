package orchestrator

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/scribe/analysis"
	"ai-scribe-be/pkg/scribe/composer"
	"ai-scribe-be/pkg/store"

	lru "github.com/hashicorp/golang-lru/v2"
)

// State is the lifecycle phase of one generation job.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateComposing State = "composing"
	StateStreaming State = "streaming"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

var (
	ErrAlreadyGenerating = errors.New("a generation is already running for this activity")
	ErrNoActiveModel     = errors.New("no active model selected")
)

// Progress is one streamed increment delivered to the sink.
type Progress struct {
	Segment Segment `json:"segment"`
	Content string  `json:"content"`
}

// Outcome is the final result of a completed generation.
type Outcome struct {
	DisplayPrompt string
	FinalResponse string
	Reasoning     string
	FormatUsed    string
	Analyses      []store.AnalysisNote
}

// ProgressSink receives generation events. Implementations must not block;
// the orchestrator calls them from the job goroutine.
type ProgressSink interface {
	OnProgress(activityID string, p Progress)
	OnComplete(activityID string, out Outcome)
	OnError(activityID string, err error)
}

// Request describes one generation to run.
type Request struct {
	ActivityID string
	ModelName  string
	Input      composer.Input
	Sampling   store.SamplingConfig
}

type job struct {
	activityID string
	state      State
	cancel     context.CancelFunc
}

func (s State) terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Orchestrator runs the analyze -> compose -> stream pipeline, one job per
// activity at a time. Persistence is the caller's concern: nothing is written
// anywhere until the sink's OnComplete fires.
type Orchestrator struct {
	client   inference.Client
	stage    *analysis.Stage
	composer *composer.Composer
	logger   *log.Logger

	mu   sync.Mutex
	jobs map[string]*job // running jobs only
	done *lru.Cache[string, State]
}

// terminalStatesKept bounds how many finished activities still answer Status
// with their last state instead of idle.
const terminalStatesKept = 512

func New(client inference.Client, stage *analysis.Stage, comp *composer.Composer, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	done, _ := lru.New[string, State](terminalStatesKept)
	return &Orchestrator{
		client:   client,
		stage:    stage,
		composer: comp,
		logger:   logger,
		jobs:     make(map[string]*job),
		done:     done,
	}
}

// Start launches a generation for the given activity and returns immediately.
// A second Start while a job for the same activity is still running is
// rejected; jobs on other activities are unaffected.
func (o *Orchestrator) Start(ctx context.Context, req Request, sink ProgressSink) error {
	if req.ModelName == "" {
		return ErrNoActiveModel
	}

	o.mu.Lock()
	if _, ok := o.jobs[req.ActivityID]; ok {
		o.mu.Unlock()
		return ErrAlreadyGenerating
	}
	// The job must outlive the request that started it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	j := &job{activityID: req.ActivityID, state: StateAnalyzing, cancel: cancel}
	o.jobs[req.ActivityID] = j
	o.mu.Unlock()

	go o.run(runCtx, j, req, sink)
	return nil
}

// Cancel stops the running job for the activity, if any. Cancelling an
// activity with no running job is a no-op, as is cancelling twice.
func (o *Orchestrator) Cancel(activityID string) {
	o.mu.Lock()
	j, ok := o.jobs[activityID]
	o.mu.Unlock()
	if !ok {
		return
	}
	j.cancel()
}

// Status reports the current state for the activity: the live state for a
// running job, the last terminal state for a recently finished one, idle
// otherwise.
func (o *Orchestrator) Status(activityID string) State {
	o.mu.Lock()
	j, ok := o.jobs[activityID]
	var s State
	if ok {
		s = j.state
	}
	o.mu.Unlock()
	if ok {
		return s
	}
	if s, ok := o.done.Get(activityID); ok {
		return s
	}
	return StateIdle
}

// setState advances the job. Terminal states evict the job from the running
// map so it never grows past the number of concurrent generations.
func (o *Orchestrator) setState(j *job, s State) {
	o.mu.Lock()
	j.state = s
	if s.terminal() {
		delete(o.jobs, j.activityID)
		o.done.Add(j.activityID, s)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) run(ctx context.Context, j *job, req Request, sink ProgressSink) {
	defer j.cancel()

	// 1. Preliminary analysis. Degraded passes come back as empty notes,
	// they never stop the pipeline.
	analyses := o.stage.Analyze(ctx, req.Input.ActivityType, req.Input.RawText,
		inference.WithModel(req.ModelName))
	if ctx.Err() != nil {
		o.setState(j, StateCancelled)
		return
	}

	// 2. Compose the display and model prompts.
	o.setState(j, StateComposing)
	res := o.composer.Compose(req.Input, analyses)

	// 3. Stream the final response.
	o.setState(j, StateStreaming)
	history := []inference.Message{{Role: "user", Content: res.ModelPrompt}}

	opts := []inference.Option{
		inference.WithModel(req.ModelName),
		inference.WithTemperature(req.Sampling.Temperature),
		inference.WithTopP(req.Sampling.TopP),
		inference.WithTopK(req.Sampling.TopK),
		inference.WithMaxTokens(req.Sampling.MaxTokens),
	}
	if res.SystemInstruction != "" {
		opts = append(opts, inference.WithSystem(res.SystemInstruction))
	}

	deltas, err := o.client.ChatStream(ctx, history, opts...)
	if err != nil {
		o.fail(j, req.ActivityID, err, sink)
		return
	}

	seg := newSegmenter()
	var content, reasoning strings.Builder
	emit := func(spans []span) {
		for _, sp := range spans {
			if sp.segment == SegmentReasoning {
				reasoning.WriteString(sp.text)
			} else {
				content.WriteString(sp.text)
			}
			sink.OnProgress(req.ActivityID, Progress{Segment: sp.segment, Content: sp.text})
		}
	}

	for d := range deltas {
		if d.Err != nil {
			if errors.Is(d.Err, inference.ErrCancelled) || ctx.Err() != nil {
				o.setState(j, StateCancelled)
				return
			}
			o.fail(j, req.ActivityID, d.Err, sink)
			return
		}
		emit(seg.feed(d.Content))
	}
	emit(seg.flush())

	if ctx.Err() != nil {
		o.setState(j, StateCancelled)
		return
	}

	o.setState(j, StateCompleted)
	sink.OnComplete(req.ActivityID, Outcome{
		DisplayPrompt: res.DisplayPrompt,
		FinalResponse: content.String(),
		Reasoning:     reasoning.String(),
		FormatUsed:    res.FormatUsed,
		Analyses:      analyses,
	})
}

func (o *Orchestrator) fail(j *job, activityID string, err error, sink ProgressSink) {
	o.logger.Printf("[ORCHESTRATOR] generation failed for activity %s: %v", activityID, err)
	o.setState(j, StateFailed)
	sink.OnError(activityID, err)
}
