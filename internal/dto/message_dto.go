package dto

import "github.com/google/uuid"

// PublishExchangePersistedMessage is the async payload emitted after a
// generation result is persisted, consumed by the auto-titling worker.
type PublishExchangePersistedMessage struct {
	ActivityId uuid.UUID `json:"activity_id"`
}
