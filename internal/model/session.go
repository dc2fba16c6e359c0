package model

import (
	"time"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentTransfer
}

// Session is one entry of a patient's ledger.
type Session struct {
	Base             `bson:",inline"`
	PatientID        string        `db:"patient_id" json:"patient_id" bson:"patient_id"`
	Date             time.Time     `db:"session_date" json:"session_date" bson:"session_date"`
	TherapyPerformed string        `db:"therapy_performed" json:"therapy_performed,omitempty" bson:"therapy_performed,omitempty"`
	Exercises        string        `db:"exercises" json:"exercises,omitempty" bson:"exercises,omitempty"`
	Amount           float64       `db:"amount" json:"amount" bson:"amount"`
	PaymentMethod    PaymentMethod `db:"payment_method" json:"payment_method" bson:"payment_method"`
	Paid             bool          `db:"paid" json:"paid" bson:"paid"`
}

// SessionInput creates a session. There is no paid field: new sessions
// always start unpaid.
type SessionInput struct {
	Date             string        `json:"session_date"`
	TherapyPerformed string        `json:"therapy_performed" validate:"max=5000"`
	Exercises        string        `json:"exercises" validate:"max=5000"`
	Amount           *float64      `json:"amount"`
	PaymentMethod    PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash transfer"`
}

// SessionPatch edits a session. Nil fields are left unchanged.
type SessionPatch struct {
	Date             *string        `json:"session_date"`
	TherapyPerformed *string        `json:"therapy_performed" validate:"omitempty,max=5000"`
	Exercises        *string        `json:"exercises" validate:"omitempty,max=5000"`
	Amount           *float64       `json:"amount"`
	PaymentMethod    *PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash transfer"`
	Paid             *bool          `json:"paid"`
}

type CollectPaymentRequest struct {
	Method PaymentMethod `json:"method" validate:"required,oneof=cash transfer"`
}

// LedgerSummary aggregates a patient's sessions.
type LedgerSummary struct {
	PatientID            string `json:"patient_id"`
	Sessions             int    `json:"sessions"`
	PaidSessions         int    `json:"paid_sessions"`
	UnpaidSessions       int    `json:"unpaid_sessions"`
	Collected            string `json:"collected"`
	Outstanding          string `json:"outstanding"`
	CollectedFormatted   string `json:"collected_formatted"`
	OutstandingFormatted string `json:"outstanding_formatted"`
}
