package composer

import (
	"strings"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/pkg/store"
)

// StructuredFields carries the structured-form variant of session input.
// Rendering order is fixed and documented: session metadata, format, approach,
// interventions, presenting issue, response, clinical focus, goals, diagnosis
// code, free-text notes, risk flags.
type StructuredFields struct {
	SessionMetadata string
	Approach        string
	Interventions   []string
	PresentingIssue string
	Response        string
	ClinicalFocus   []string
	Goals           string
	DiagnosisCode   string
	Notes           string
	RiskFlags       []string
}

// Input is one composition request for a single activity.
type Input struct {
	ActivityType      string
	RawText           string
	Format            string
	Fields            *StructuredFields
	SystemInstruction string // workspace default for the active type; ignored for brainstorm
}

// Result separates what the clinician sees from what the model receives.
type Result struct {
	DisplayPrompt     string
	ModelPrompt       string
	SystemInstruction string
	FormatUsed        string
}

// Composer builds the user-facing display prompt and the model-facing prompt
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose builds both prompts. The display prompt is always a faithful
// rendering of exactly what the clinician supplied; the model prompt starts
// from it and layers on format expansion and analysis context.
func (c *Composer) Compose(in Input, analyses []store.AnalysisNote) Result {
	display := c.renderDisplay(in)

	// Brainstorm never inherits clinical instructions. The instruction set is
	// a fixed constant and the model prompt is the clinician's text as-is.
	if in.ActivityType == constant.ActivityTypeBrainstorm {
		return Result{
			DisplayPrompt:     display,
			ModelPrompt:       display,
			SystemInstruction: constant.BrainstormInstructionSetV1,
		}
	}

	var model strings.Builder
	model.WriteString(display)

	if f, ok := knownFormats[strings.ToUpper(in.Format)]; ok {
		model.WriteString("\n\n")
		model.WriteString(expandFormat(f))
	}

	c.writeAnalysisContext(&model, analyses)

	return Result{
		DisplayPrompt:     display,
		ModelPrompt:       model.String(),
		SystemInstruction: in.SystemInstruction,
		FormatUsed:        in.Format,
	}
}

// renderDisplay produces the human-readable record of the input. Free text
// passes through verbatim; structured fields concatenate in the fixed order.
func (c *Composer) renderDisplay(in Input) string {
	if in.Fields == nil {
		return in.RawText
	}

	var b strings.Builder
	writeField(&b, "Session", in.Fields.SessionMetadata)
	writeField(&b, "Format", in.Format)
	writeField(&b, "Approach", in.Fields.Approach)
	writeField(&b, "Interventions", strings.Join(in.Fields.Interventions, ", "))
	writeField(&b, "Presenting issue", in.Fields.PresentingIssue)
	writeField(&b, "Response", in.Fields.Response)
	writeField(&b, "Clinical focus", strings.Join(in.Fields.ClinicalFocus, ", "))
	writeField(&b, "Goals", in.Fields.Goals)
	writeField(&b, "Diagnosis code", in.Fields.DiagnosisCode)
	writeField(&b, "Notes", in.Fields.Notes)
	writeField(&b, "Risk flags", strings.Join(in.Fields.RiskFlags, ", "))

	return strings.TrimRight(b.String(), "\n")
}

func (c *Composer) writeAnalysisContext(b *strings.Builder, analyses []store.AnalysisNote) {
	filled := make([]store.AnalysisNote, 0, len(analyses))
	for _, a := range analyses {
		if strings.TrimSpace(a.Text) != "" {
			filled = append(filled, a)
		}
	}
	if len(filled) == 0 {
		return
	}

	b.WriteString("\n\nClinical analysis context (background only, do not quote directly):\n")
	for _, a := range filled {
		b.WriteString("- ")
		b.WriteString(a.Label)
		b.WriteString(": ")
		b.WriteString(a.Text)
		b.WriteString("\n")
	}
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
