package model

import (
	"time"
)

type Modality string

const (
	ModalityInPerson  Modality = "in_person"
	ModalityVideoCall Modality = "video_call"
)

func (m Modality) Valid() bool {
	return m == ModalityInPerson || m == ModalityVideoCall
}

type Appointment struct {
	Base        `bson:",inline"`
	PatientID   string    `db:"patient_id" json:"patient_id" bson:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name" bson:"patient_name"`
	Date        time.Time `db:"date" json:"date" bson:"date"`
	StartTime   string    `db:"start_time" json:"start_time" bson:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time,omitempty" bson:"end_time,omitempty"`
	Modality    Modality  `db:"modality" json:"modality" bson:"modality"`
	VideoLink   string    `db:"video_link" json:"video_link,omitempty" bson:"video_link,omitempty"`
	Notes       string    `db:"notes" json:"notes,omitempty" bson:"notes,omitempty"`
}

// Normalize enforces that only video-call appointments carry a link.
func (a *Appointment) Normalize() {
	if a.Modality == "" {
		a.Modality = ModalityInPerson
	}
	if a.Modality != ModalityVideoCall {
		a.VideoLink = ""
	}
}

type CreateAppointmentRequest struct {
	PatientID string   `json:"patient_id" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	StartTime string   `json:"start_time" validate:"required,hhmm"`
	EndTime   string   `json:"end_time" validate:"omitempty,hhmm"`
	Modality  Modality `json:"modality" validate:"omitempty,oneof=in_person video_call"`
	VideoLink string   `json:"video_link" validate:"omitempty,url"`
	Notes     string   `json:"notes" validate:"max=2000"`
}

// UpdateAppointmentRequest is a patch: nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	PatientID *string   `json:"patient_id" validate:"omitempty,min=1"`
	Date      *string   `json:"date"`
	StartTime *string   `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   *string   `json:"end_time" validate:"omitempty,hhmm_or_empty"`
	Modality  *Modality `json:"modality" validate:"omitempty,oneof=in_person video_call"`
	VideoLink *string   `json:"video_link" validate:"omitempty,url_or_empty"`
	Notes     *string   `json:"notes" validate:"omitempty,max=2000"`
}
