package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByClientID filters activities to one client
type ByClientID struct {
	ClientID uuid.UUID
}

func (s ByClientID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_id = ?", s.ClientID)
}

// ByActivityType filters activities by their type
type ByActivityType struct {
	Type string
}

func (s ByActivityType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
