package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

const sessionColumns = `id, owner_id, patient_id, session_date, therapy_performed, exercises,
		amount, payment_method, paid, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) (err error) {
	defer observe(r.metrics, "create_session", time.Now(), &err)

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	session.ID = newID()
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.OwnerID,
		session.PatientID,
		session.Date,
		session.TherapyPerformed,
		session.Exercises,
		session.Amount,
		session.PaymentMethod,
		session.Paid,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, ownerID, patientID, id string) (_ *model.Session, err error) {
	defer observe(r.metrics, "get_session", time.Now(), &err)

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE owner_id = $1 AND patient_id = $2 AND id = $3
	`
	var session model.Session
	if err = r.db.GetContext(ctx, &session, query, ownerID, patientID, id); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", notFound("session", err))
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *model.Session) (err error) {
	defer observe(r.metrics, "update_session", time.Now(), &err)

	query := `
		UPDATE sessions
		SET session_date = $1, therapy_performed = $2, exercises = $3, amount = $4,
			payment_method = $5, paid = $6, updated_at = $7
		WHERE owner_id = $8 AND patient_id = $9 AND id = $10
	`
	session.UpdatedAt = now()

	result, err := r.db.ExecContext(ctx, query,
		session.Date,
		session.TherapyPerformed,
		session.Exercises,
		session.Amount,
		session.PaymentMethod,
		session.Paid,
		session.UpdatedAt,
		session.OwnerID,
		session.PatientID,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return requireAffected("session", result)
}

func (r *sessionRepository) Delete(ctx context.Context, ownerID, patientID, id string) (err error) {
	defer observe(r.metrics, "delete_session", time.Now(), &err)

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE owner_id = $1 AND patient_id = $2 AND id = $3`,
		ownerID, patientID, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected("session", result)
}

func (r *sessionRepository) ListByPatient(ctx context.Context, ownerID, patientID string) (_ []model.Session, err error) {
	defer observe(r.metrics, "list_sessions", time.Now(), &err)

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE owner_id = $1 AND patient_id = $2
		ORDER BY created_at ASC, id ASC
	`
	sessions := []model.Session{}
	if err = r.db.SelectContext(ctx, &sessions, query, ownerID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
