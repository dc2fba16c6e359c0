package model

import (
	"time"
)

// Base contains common fields for all owned records
type Base struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" db:"owner_id" bson:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// Date and time layouts accepted on input
const (
	LayoutISODate   = "2006-01-02"
	LayoutLocalDate = "02/01/2006"
	LayoutClock     = "15:04"
	LayoutDateTime  = "2006-01-02T15:04"
)
