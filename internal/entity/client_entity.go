package entity

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
