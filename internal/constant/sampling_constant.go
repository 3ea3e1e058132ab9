package constant

import "ai-scribe-be/pkg/store"

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultTopK        = 40
	DefaultMaxTokens   = 2048
)

// DefaultSamplingFor returns the sampling defaults a fresh selection of the
// given activity type starts with. Brainstorm carries no workspace system
// instruction: its instruction set is fixed and applied at compose time.
func DefaultSamplingFor(activityType string) store.SamplingConfig {
	cfg := store.SamplingConfig{
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		TopK:        DefaultTopK,
		MaxTokens:   DefaultMaxTokens,
	}
	switch activityType {
	case ActivityTypeTreatmentPlan:
		cfg.SystemInstruction = TreatmentPlanSystemInstructionV1
	case ActivityTypeBrainstorm:
		cfg.SystemInstruction = ""
	default:
		cfg.SystemInstruction = SessionNoteSystemInstructionV1
	}
	return cfg
}
