package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientId uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type     string    `gorm:"type:varchar(32);not null"`
	Title    string    `gorm:"type:varchar(255);not null"`

	// Raw bytes on purpose: rows written before the structured schema hold
	// plain text, and the codec owns the byte layout either way.
	PersistedRecord []byte `gorm:"type:bytea"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Activity) TableName() string {
	return "activities"
}
