package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

const patientColumns = `id, owner_id, name, birth_date, phone, observations, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer observe(r.metrics, "create_patient", time.Now(), &err)

	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	patient.ID = newID()
	patient.CreatedAt = now()
	patient.UpdatedAt = patient.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		patient.ID,
		patient.OwnerID,
		patient.Name,
		patient.BirthDate,
		patient.Phone,
		patient.Observations,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Patient, err error) {
	defer observe(r.metrics, "get_patient", time.Now(), &err)

	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients WHERE owner_id = $1 AND id = $2`
	if err = r.db.GetContext(ctx, &patient, query, ownerID, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", notFound("patient", err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer observe(r.metrics, "update_patient", time.Now(), &err)

	query := `
		UPDATE patients
		SET name = $1, birth_date = $2, phone = $3, observations = $4, updated_at = $5
		WHERE owner_id = $6 AND id = $7
	`
	patient.UpdatedAt = now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.BirthDate,
		patient.Phone,
		patient.Observations,
		patient.UpdatedAt,
		patient.OwnerID,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireAffected("patient", result)
}

// Delete removes the patient; sessions go with it through the foreign key.
func (r *patientRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_patient", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return requireAffected("patient", result)
}

func (r *patientRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Patient, err error) {
	defer observe(r.metrics, "list_patients", time.Now(), &err)

	query := `SELECT ` + patientColumns + ` FROM patients WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	patients := []model.Patient{}
	if err = r.db.SelectContext(ctx, &patients, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
