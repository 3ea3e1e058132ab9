package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=120"`
}

type CreateClientResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateClientRequest struct {
	Id          uuid.UUID
	DisplayName string `json:"display_name" validate:"required,max=120"`
}

type UpdateClientResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowClientResponse struct {
	Id          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
