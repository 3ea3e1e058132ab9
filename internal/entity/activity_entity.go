package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one discrete documentation task (session note, treatment plan
// or brainstorm) belonging to a client. PersistedRecord holds at most one
// encoded exchange; regeneration replaces it, never appends.
type Activity struct {
	Id              uuid.UUID
	ClientId        uuid.UUID
	UserId          uuid.UUID
	Type            string
	Title           string
	PersistedRecord []byte // nil until the first successful generation
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
