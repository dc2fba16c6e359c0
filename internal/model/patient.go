package model

import (
	"time"
)

type Patient struct {
	Base         `bson:",inline"`
	Name         string     `db:"name" json:"name" bson:"name"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	Phone        string     `db:"phone" json:"phone,omitempty" bson:"phone,omitempty"`
	Observations string     `db:"observations" json:"observations,omitempty" bson:"observations,omitempty"`
}

type CreatePatientRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	BirthDate    string `json:"birth_date"`
	Phone        string `json:"phone" validate:"max=40"`
	Observations string `json:"observations" validate:"max=5000"`
}

type UpdatePatientRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	BirthDate    *string `json:"birth_date"`
	Phone        *string `json:"phone" validate:"omitempty,max=40"`
	Observations *string `json:"observations" validate:"omitempty,max=5000"`
}

// ContactLink is a WhatsApp deep link for a patient's phone.
type ContactLink struct {
	PatientID string `json:"patient_id"`
	Phone     string `json:"phone"`
	URL       string `json:"url"`
}
