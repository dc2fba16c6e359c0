package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

type patientRepository struct {
	coll     *mongo.Collection
	sessions *mongo.Collection
	metrics  *metrics.Metrics
}

// NewPatientRepository needs the sessions collection to drop a deleted
// patient's ledger.
func NewPatientRepository(coll, sessions *mongo.Collection, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{coll: coll, sessions: sessions, metrics: m}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer observe(r.metrics, "create_patient", time.Now(), &err)

	patient.ID = newID()
	patient.CreatedAt = now()
	patient.UpdatedAt = patient.CreatedAt

	if _, err = r.coll.InsertOne(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Patient, err error) {
	defer observe(r.metrics, "get_patient", time.Now(), &err)
	return findOne[model.Patient](ctx, r.coll, "patient", ownedBy(ownerID, id))
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer observe(r.metrics, "update_patient", time.Now(), &err)

	patient.UpdatedAt = now()
	return replaceOne(ctx, r.coll, "patient", ownedBy(patient.OwnerID, patient.ID), patient)
}

func (r *patientRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_patient", time.Now(), &err)

	if err = deleteOne(ctx, r.coll, "patient", ownedBy(ownerID, id)); err != nil {
		return err
	}
	if _, err = r.sessions.DeleteMany(ctx, bson.M{"owner_id": ownerID, "patient_id": id}); err != nil {
		return fmt.Errorf("failed to delete sessions of patient: %w", err)
	}
	return nil
}

func (r *patientRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Patient, err error) {
	defer observe(r.metrics, "list_patients", time.Now(), &err)
	return findAll[model.Patient](ctx, r.coll, "patients", bson.M{"owner_id": ownerID}, newestFirst)
}
