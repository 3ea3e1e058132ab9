package dto

import "github.com/google/uuid"

type StartGenerationRequest struct {
	ActivityId uuid.UUID            `json:"activity_id" validate:"required"`
	RawText    string               `json:"raw_text"`
	Format     string               `json:"format,omitempty"`
	Fields     *StructuredFieldsDTO `json:"fields,omitempty"`
}

// StructuredFieldsDTO is the structured-form variant of session input.
type StructuredFieldsDTO struct {
	SessionMetadata string   `json:"session_metadata,omitempty"`
	Approach        string   `json:"approach,omitempty"`
	Interventions   []string `json:"interventions,omitempty"`
	PresentingIssue string   `json:"presenting_issue,omitempty"`
	Response        string   `json:"response,omitempty"`
	ClinicalFocus   []string `json:"clinical_focus,omitempty"`
	Goals           string   `json:"goals,omitempty"`
	DiagnosisCode   string   `json:"diagnosis_code,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	RiskFlags       []string `json:"risk_flags,omitempty"`
}

type StartGenerationResponse struct {
	ActivityId uuid.UUID `json:"activity_id"`
	State      string    `json:"state"`
}

type GenerationStatusResponse struct {
	ActivityId uuid.UUID `json:"activity_id"`
	State      string    `json:"state"`
}

type CancelGenerationResponse struct {
	ActivityId uuid.UUID `json:"activity_id"`
	State      string    `json:"state"`
}

type UpdateSamplingRequest struct {
	Temperature       *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP              *float64 `json:"top_p" validate:"omitempty,gt=0,lte=1"`
	TopK              *int     `json:"top_k" validate:"omitempty,gte=0"`
	MaxTokens         *int     `json:"max_tokens" validate:"omitempty,gt=0"`
	SystemInstruction *string  `json:"system_instruction"`
}

type SamplingResponse struct {
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	MaxTokens         int     `json:"max_tokens"`
	SystemInstruction string  `json:"system_instruction"`
}

type ModelListResponse struct {
	Models []string `json:"models"`
}

type InferenceHealthResponse struct {
	Reachable bool   `json:"reachable"`
	Backend   string `json:"backend"`
	Model     string `json:"model"`
}
