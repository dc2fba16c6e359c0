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

type sessionRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewSessionRepository(coll *mongo.Collection, m *metrics.Metrics) repository.SessionRepository {
	return &sessionRepository{coll: coll, metrics: m}
}

func sessionFilter(ownerID, patientID, id string) bson.M {
	return bson.M{"owner_id": ownerID, "patient_id": patientID, "_id": id}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) (err error) {
	defer observe(r.metrics, "create_session", time.Now(), &err)

	session.ID = newID()
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt

	if _, err = r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, ownerID, patientID, id string) (_ *model.Session, err error) {
	defer observe(r.metrics, "get_session", time.Now(), &err)
	return findOne[model.Session](ctx, r.coll, "session", sessionFilter(ownerID, patientID, id))
}

func (r *sessionRepository) Update(ctx context.Context, session *model.Session) (err error) {
	defer observe(r.metrics, "update_session", time.Now(), &err)

	session.UpdatedAt = now()
	return replaceOne(ctx, r.coll, "session", sessionFilter(session.OwnerID, session.PatientID, session.ID), session)
}

func (r *sessionRepository) Delete(ctx context.Context, ownerID, patientID, id string) (err error) {
	defer observe(r.metrics, "delete_session", time.Now(), &err)
	return deleteOne(ctx, r.coll, "session", sessionFilter(ownerID, patientID, id))
}

func (r *sessionRepository) ListByPatient(ctx context.Context, ownerID, patientID string) (_ []model.Session, err error) {
	defer observe(r.metrics, "list_sessions", time.Now(), &err)

	return findAll[model.Session](ctx, r.coll, "sessions",
		bson.M{"owner_id": ownerID, "patient_id": patientID},
		bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}
