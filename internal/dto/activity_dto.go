package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateActivityRequest struct {
	ClientId uuid.UUID `json:"client_id" validate:"required"`
	Type     string    `json:"type" validate:"required,oneof=session_note treatment_plan brainstorm"`
	Title    string    `json:"title"` // defaults per type when empty
}

type CreateActivityResponse struct {
	Id uuid.UUID `json:"id"`
}

type RenameActivityRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required,max=200"`
}

type RenameActivityResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowActivityResponse struct {
	Id        uuid.UUID  `json:"id"`
	ClientId  uuid.UUID  `json:"client_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PersistedExchangeResponse is the decoded stored record of an activity.
// Legacy marks records written before structured persistence existed; for
// those only the final response is available.
type PersistedExchangeResponse struct {
	DisplayPrompt string `json:"display_prompt,omitempty"`
	FinalResponse string `json:"final_response"`
	Reasoning     string `json:"reasoning,omitempty"`
	FormatUsed    string `json:"format_used,omitempty"`
	Legacy        bool   `json:"legacy"`
}

// WorkspaceResponse is the clinician's current in-memory working state.
type WorkspaceResponse struct {
	ActiveActivityId string             `json:"active_activity_id"`
	ActivityType     string             `json:"activity_type"`
	Sampling         SamplingResponse   `json:"sampling"`
	Buffer           []BufferMessageDTO `json:"buffer"`
}

type BufferMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
