package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-api/internal/repository"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

const driver = "postgres"

type appointmentRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type patientRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type sessionRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type journalRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type broadcastRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, metrics: m}
}

func NewPatientRepository(db *sqlx.DB, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{db: db, metrics: m}
}

func NewSessionRepository(db *sqlx.DB, m *metrics.Metrics) repository.SessionRepository {
	return &sessionRepository{db: db, metrics: m}
}

func NewJournalRepository(db *sqlx.DB, m *metrics.Metrics) repository.JournalRepository {
	return &journalRepository{db: db, metrics: m}
}

func NewBroadcastRepository(db *sqlx.DB, m *metrics.Metrics) repository.BroadcastRepository {
	return &broadcastRepository{db: db, metrics: m}
}

// NewStore wires every repository onto one connection pool.
func NewStore(db *sqlx.DB, m *metrics.Metrics) repository.Store {
	return repository.Store{
		Appointments: NewAppointmentRepository(db, m),
		Patients:     NewPatientRepository(db, m),
		Sessions:     NewSessionRepository(db, m),
		Journal:      NewJournalRepository(db, m),
		Broadcasts:   NewBroadcastRepository(db, m),
		Health:       pinger{db: db},
		Close:        db.Close,
	}
}

type pinger struct {
	db *sqlx.DB
}

func (p pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// newID returns a time-ordered id so ties on creation time still sort
// in insertion order.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// notFound translates sql.ErrNoRows; other errors pass through.
func notFound(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound(resource, err)
	}
	return err
}

func requireAffected(resource string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound(resource, nil)
	}
	return nil
}

// observe is deferred with a pointer to the named error result so the
// final outcome is recorded.
func observe(m *metrics.Metrics, operation string, start time.Time, err *error) {
	m.ObserveStore(driver, operation, start, *err)
}
