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

type appointmentRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewAppointmentRepository(coll *mongo.Collection, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{coll: coll, metrics: m}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	defer observe(r.metrics, "create_appointment", time.Now(), &err)

	appointment.ID = newID()
	appointment.CreatedAt = now()
	appointment.UpdatedAt = appointment.CreatedAt

	if _, err = r.coll.InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Appointment, err error) {
	defer observe(r.metrics, "get_appointment", time.Now(), &err)
	return findOne[model.Appointment](ctx, r.coll, "appointment", ownedBy(ownerID, id))
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) (err error) {
	defer observe(r.metrics, "update_appointment", time.Now(), &err)

	appointment.UpdatedAt = now()
	return replaceOne(ctx, r.coll, "appointment", ownedBy(appointment.OwnerID, appointment.ID), appointment)
}

func (r *appointmentRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_appointment", time.Now(), &err)
	return deleteOne(ctx, r.coll, "appointment", ownedBy(ownerID, id))
}

func (r *appointmentRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Appointment, err error) {
	defer observe(r.metrics, "list_appointments", time.Now(), &err)

	return findAll[model.Appointment](ctx, r.coll, "appointments",
		bson.M{"owner_id": ownerID},
		bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *appointmentRepository) ListBetween(ctx context.Context, ownerID string, from, to time.Time) (_ []model.Appointment, err error) {
	defer observe(r.metrics, "list_appointments_between", time.Now(), &err)

	return findAll[model.Appointment](ctx, r.coll, "appointments",
		bson.M{"owner_id": ownerID, "date": bson.M{"$gte": from, "$lt": to}},
		bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *appointmentRepository) RenamePatient(ctx context.Context, ownerID, patientID, name string) (_ int64, err error) {
	defer observe(r.metrics, "rename_appointment_patient", time.Now(), &err)

	result, err := r.coll.UpdateMany(ctx,
		bson.M{"owner_id": ownerID, "patient_id": patientID, "patient_name": bson.M{"$ne": name}},
		bson.M{"$set": bson.M{"patient_name": name, "updated_at": now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to rename patient on appointments: %w", err)
	}
	return result.ModifiedCount, nil
}
