package composer

import (
	"strings"
	"testing"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestComposeFreeTextPassesThroughVerbatim(t *testing.T) {
	c := NewComposer()
	in := Input{
		ActivityType: constant.ActivityTypeSessionNote,
		RawText:      "Client discussed grief over recent loss.\n\nSession ran long.",
	}

	res := c.Compose(in, nil)
	assert.Equal(t, in.RawText, res.DisplayPrompt)
	assert.Equal(t, in.RawText, res.ModelPrompt) // no format, no analyses
}

func TestComposeStructuredFieldsFixedOrder(t *testing.T) {
	c := NewComposer()
	in := Input{
		ActivityType: constant.ActivityTypeSessionNote,
		Format:       "SOAP",
		Fields: &StructuredFields{
			SessionMetadata: "50 min, telehealth",
			Approach:        "CBT",
			Interventions:   []string{"thought records", "psychoeducation"},
			PresentingIssue: "work anxiety",
			RiskFlags:       []string{"none reported"},
		},
	}

	res := c.Compose(in, nil)
	lines := strings.Split(res.DisplayPrompt, "\n")
	assert.Equal(t, []string{
		"Session: 50 min, telehealth",
		"Format: SOAP",
		"Approach: CBT",
		"Interventions: thought records, psychoeducation",
		"Presenting issue: work anxiety",
		"Risk flags: none reported",
	}, lines)

	// Empty fields never leave blank lines
	assert.NotContains(t, res.DisplayPrompt, "Goals:")
	assert.NotContains(t, res.DisplayPrompt, "\n\n")
}

func TestComposeExpandsKnownFormats(t *testing.T) {
	c := NewComposer()
	for _, format := range []string{"SOAP", "DAP", "BIRP", "GIRP", "PIRP", "soap"} {
		in := Input{
			ActivityType: constant.ActivityTypeSessionNote,
			RawText:      "raw",
			Format:       format,
		}
		res := c.Compose(in, nil)
		assert.Contains(t, res.ModelPrompt, "Required sections, in this exact order:", format)
		assert.Contains(t, res.ModelPrompt, "Example of a complete note in this format:", format)
		// Display prompt never carries the expansion
		assert.Equal(t, "raw", res.DisplayPrompt)
	}
}

func TestComposeCustomFormatPassesThrough(t *testing.T) {
	c := NewComposer()
	in := Input{
		ActivityType: constant.ActivityTypeSessionNote,
		RawText:      "raw",
		Format:       "NARRATIVE",
	}

	res := c.Compose(in, nil)
	assert.Equal(t, "NARRATIVE", res.FormatUsed)
	assert.NotContains(t, res.ModelPrompt, "Required sections")
}

func TestComposeAnalysisContext(t *testing.T) {
	c := NewComposer()
	in := Input{
		ActivityType: constant.ActivityTypeSessionNote,
		RawText:      "raw",
	}
	analyses := []store.AnalysisNote{
		{Label: "modality", Text: "CBT with exposure elements"},
		{Label: "engagement", Text: "   "}, // degraded pass, must be skipped
	}

	res := c.Compose(in, analyses)
	assert.Contains(t, res.ModelPrompt, "Clinical analysis context (background only, do not quote directly):")
	assert.Contains(t, res.ModelPrompt, "- modality: CBT with exposure elements")
	assert.NotContains(t, res.ModelPrompt, "engagement")
	assert.NotContains(t, res.DisplayPrompt, "Clinical analysis context")
}

func TestComposeBrainstormUsesFixedInstructionSet(t *testing.T) {
	c := NewComposer()
	in := Input{
		ActivityType:      constant.ActivityTypeBrainstorm,
		RawText:           "What could help this client open up?",
		Format:            "SOAP", // must be ignored
		SystemInstruction: "You write SOAP notes.",
	}
	analyses := []store.AnalysisNote{{Label: "modality", Text: "CBT"}}

	res := c.Compose(in, analyses)
	assert.Equal(t, constant.BrainstormInstructionSetV1, res.SystemInstruction)
	assert.Equal(t, in.RawText, res.ModelPrompt)
	assert.Empty(t, res.FormatUsed)
	assert.NotContains(t, res.ModelPrompt, "Clinical analysis context")
}

func TestKnownFormat(t *testing.T) {
	assert.True(t, KnownFormat("soap"))
	assert.True(t, KnownFormat("PIRP"))
	assert.False(t, KnownFormat("NARRATIVE"))
	assert.False(t, KnownFormat(""))
}
