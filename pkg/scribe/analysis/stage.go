package analysis

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/store"
)

const passTimeout = 60 * time.Second

// pass is one preliminary, non-displayed inference call.
type pass struct {
	Label       string
	Instruction string
}

// Stage runs the preliminary analysis calls whose output feeds the final
// prompt but never surfaces as a chat message.
type Stage struct {
	client inference.Client
	logger *log.Logger
}

func NewStage(client inference.Client, logger *log.Logger) *Stage {
	return &Stage{
		client: client,
		logger: logger,
	}
}

// passesFor returns the analysis schedule for an activity type. Only session
// notes get analysis passes; treatment plans and brainstorms are single-pass.
func passesFor(activityType string) []pass {
	if activityType != constant.ActivityTypeSessionNote {
		return nil
	}
	return []pass{
		{Label: constant.AnalysisLabelModality, Instruction: constant.ModalityAnalysisInstructionV1},
		{Label: constant.AnalysisLabelEngagement, Instruction: constant.EngagementAnalysisInstructionV1},
	}
}

// Analyze runs the required passes concurrently and joins them all before
// returning. A failed or timed-out pass degrades to an empty entry for its
// label; the overall generation must still proceed without it.
func (s *Stage) Analyze(ctx context.Context, activityType, rawInput string, opts ...inference.Option) []store.AnalysisNote {
	passes := passesFor(activityType)
	if len(passes) == 0 {
		return nil
	}

	notes := make([]store.AnalysisNote, len(passes))
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range passes {
		i, p := i, p
		g.Go(func() error {
			notes[i] = s.runPass(gctx, p, rawInput, opts)
			return nil // degrade, never abort the group
		})
	}
	_ = g.Wait()

	return notes
}

func (s *Stage) runPass(ctx context.Context, p pass, rawInput string, opts []inference.Option) store.AnalysisNote {
	ctx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	callOpts := append([]inference.Option{}, opts...)
	callOpts = append(callOpts, inference.WithSystem(p.Instruction), inference.WithTemperature(0.2))

	text, err := s.client.Chat(ctx, []inference.Message{
		{Role: constant.MessageRoleUser, Content: rawInput},
	}, callOpts...)
	if err != nil {
		s.logger.Printf("[ANALYSIS] pass %q degraded: %v", p.Label, err)
		return store.AnalysisNote{Label: p.Label}
	}

	return store.AnalysisNote{Label: p.Label, Text: strings.TrimSpace(text)}
}
