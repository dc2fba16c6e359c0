package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

const appointmentColumns = `id, owner_id, patient_id, patient_name, date, start_time, end_time,
		modality, video_link, notes, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	defer observe(r.metrics, "create_appointment", time.Now(), &err)

	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	appointment.ID = newID()
	appointment.CreatedAt = now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.OwnerID,
		appointment.PatientID,
		appointment.PatientName,
		appointment.Date,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Modality,
		appointment.VideoLink,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Appointment, err error) {
	defer observe(r.metrics, "get_appointment", time.Now(), &err)

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE owner_id = $1 AND id = $2`

	var appointment model.Appointment
	if err = r.db.GetContext(ctx, &appointment, query, ownerID, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", notFound("appointment", err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) (err error) {
	defer observe(r.metrics, "update_appointment", time.Now(), &err)

	query := `
		UPDATE appointments
		SET patient_id = $1, patient_name = $2, date = $3, start_time = $4, end_time = $5,
			modality = $6, video_link = $7, notes = $8, updated_at = $9
		WHERE owner_id = $10 AND id = $11
	`
	appointment.UpdatedAt = now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.PatientID,
		appointment.PatientName,
		appointment.Date,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Modality,
		appointment.VideoLink,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.OwnerID,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireAffected("appointment", result)
}

func (r *appointmentRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_appointment", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireAffected("appointment", result)
}

func (r *appointmentRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Appointment, err error) {
	defer observe(r.metrics, "list_appointments", time.Now(), &err)

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE owner_id = $1 ORDER BY date ASC, id ASC`

	appointments := []model.Appointment{}
	if err = r.db.SelectContext(ctx, &appointments, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListBetween(ctx context.Context, ownerID string, from, to time.Time) (_ []model.Appointment, err error) {
	defer observe(r.metrics, "list_appointments_between", time.Now(), &err)

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE owner_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, id ASC
	`
	appointments := []model.Appointment{}
	if err = r.db.SelectContext(ctx, &appointments, query, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) RenamePatient(ctx context.Context, ownerID, patientID, name string) (_ int64, err error) {
	defer observe(r.metrics, "rename_appointment_patient", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET patient_name = $1, updated_at = $2
		WHERE owner_id = $3 AND patient_id = $4 AND patient_name <> $1
	`, name, now(), ownerID, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to rename patient on appointments: %w", err)
	}
	return result.RowsAffected()
}
