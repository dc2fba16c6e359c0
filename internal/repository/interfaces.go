package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

// All repository interfaces in one file. Every call is scoped by an
// explicit owner id; records of other owners behave as not found.
// Missing records are reported as pkg/errors NotFound; any other error
// is a transport failure passed through as-is.
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, ownerID, id string) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, ownerID, id string) error
		ListByOwner(ctx context.Context, ownerID string) ([]model.Appointment, error)
		ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]model.Appointment, error)
		RenamePatient(ctx context.Context, ownerID, patientID, name string) (int64, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, ownerID, id string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, ownerID, id string) error
		ListByOwner(ctx context.Context, ownerID string) ([]model.Patient, error)
	}

	SessionRepository interface {
		Create(ctx context.Context, session *model.Session) error
		Get(ctx context.Context, ownerID, patientID, id string) (*model.Session, error)
		Update(ctx context.Context, session *model.Session) error
		Delete(ctx context.Context, ownerID, patientID, id string) error
		// ListByPatient returns sessions in creation order.
		ListByPatient(ctx context.Context, ownerID, patientID string) ([]model.Session, error)
	}

	JournalRepository interface {
		Create(ctx context.Context, entry *model.JournalEntry) error
		Get(ctx context.Context, ownerID, id string) (*model.JournalEntry, error)
		Update(ctx context.Context, entry *model.JournalEntry) error
		Delete(ctx context.Context, ownerID, id string) error
		ListByOwner(ctx context.Context, ownerID string) ([]model.JournalEntry, error)
	}

	BroadcastRepository interface {
		Create(ctx context.Context, broadcast *model.Broadcast) error
		Get(ctx context.Context, ownerID, id string) (*model.Broadcast, error)
		Update(ctx context.Context, broadcast *model.Broadcast) error
		Delete(ctx context.Context, ownerID, id string) error
		ListByOwner(ctx context.Context, ownerID string) ([]model.Broadcast, error)
	}

	// Pinger reports store reachability for readiness checks.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Store bundles the repositories of one backing database.
type Store struct {
	Appointments AppointmentRepository
	Patients     PatientRepository
	Sessions     SessionRepository
	Journal      JournalRepository
	Broadcasts   BroadcastRepository
	Health       Pinger
	Close        func() error
}
