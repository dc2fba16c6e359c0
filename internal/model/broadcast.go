package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type BroadcastType string

const (
	BroadcastWorkshop   BroadcastType = "workshop"
	BroadcastTalk       BroadcastType = "talk"
	BroadcastLivestream BroadcastType = "livestream"
	BroadcastOther      BroadcastType = "other"
)

type ParticipantStatus string

const (
	ParticipantPaid    ParticipantStatus = "paid"
	ParticipantPending ParticipantStatus = "pending"
)

type Participant struct {
	ID     string            `json:"id" bson:"id"`
	Name   string            `json:"name" bson:"name"`
	Status ParticipantStatus `json:"status" bson:"status"`
}

// Participants is stored as a JSON column in Postgres.
type Participants []Participant

func (p Participants) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

func (p *Participants) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = Participants{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported participants column type %T", src)
	}
	return json.Unmarshal(data, p)
}

type Broadcast struct {
	Base         `bson:",inline"`
	Title        string        `db:"title" json:"title" bson:"title"`
	Description  string        `db:"description" json:"description,omitempty" bson:"description,omitempty"`
	Type         BroadcastType `db:"type" json:"type" bson:"type"`
	EventDate    time.Time     `db:"event_date" json:"event_date" bson:"event_date"`
	Link         string        `db:"link" json:"link,omitempty" bson:"link,omitempty"`
	Price        *float64      `db:"price" json:"price,omitempty" bson:"price,omitempty"`
	Participants Participants  `db:"participants" json:"participants" bson:"participants"`
}

type BroadcastRequest struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Description string        `json:"description" validate:"max=5000"`
	Type        BroadcastType `json:"type" validate:"required,oneof=workshop talk livestream other"`
	EventDate   string        `json:"event_date" validate:"required"`
	Link        string        `json:"link" validate:"omitempty,url"`
	Price       *float64      `json:"price"`
}

type UpdateBroadcastRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Type        *BroadcastType `json:"type" validate:"omitempty,oneof=workshop talk livestream other"`
	EventDate   *string        `json:"event_date"`
	Link        *string        `json:"link" validate:"omitempty,url_or_empty"`
	Price       *float64       `json:"price"`
	ClearPrice  bool           `json:"clear_price"`
}

type AddParticipantRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Paid bool   `json:"paid"`
}

// BroadcastView adds presentation-only fields.
type BroadcastView struct {
	*Broadcast
	PriceFormatted string `json:"price_formatted,omitempty"`
	PaidCount      int    `json:"paid_count"`
	PendingCount   int    `json:"pending_count"`
}
