package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/jwalitptl/practice-api/internal/model"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestAppointmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns identity", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		appt := &model.Appointment{Base: model.Base{OwnerID: "owner-1"}, PatientID: "p1", StartTime: "09:00"}
		require.NoError(mt, repo.Create(context.Background(), appt))
		assert.NotEmpty(mt, appt.ID)
		assert.False(mt, appt.CreatedAt.IsZero())
	})

	mt.Run("get decodes document", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		when := time.Date(2024, 2, 14, 13, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "a1"},
			{Key: "owner_id", Value: "owner-1"},
			{Key: "patient_id", Value: "p1"},
			{Key: "patient_name", Value: "Ana"},
			{Key: "date", Value: when},
			{Key: "start_time", Value: "10:00"},
			{Key: "modality", Value: "video_call"},
			{Key: "video_link", Value: "https://meet.example.com/a"},
		}))

		appt, err := repo.Get(context.Background(), "owner-1", "a1")
		require.NoError(mt, err)
		assert.Equal(mt, "a1", appt.ID)
		assert.Equal(mt, "Ana", appt.PatientName)
		assert.True(mt, when.Equal(appt.Date))
		assert.Equal(mt, model.ModalityVideoCall, appt.Modality)
	})

	mt.Run("get missing is not found", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.Get(context.Background(), "owner-1", "missing")
		assert.True(mt, apperrors.IsNotFound(err))
	})

	mt.Run("delete without match is not found", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), "owner-1", "a1")
		assert.True(mt, apperrors.IsNotFound(err))
	})

	mt.Run("update without match is not found", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(context.Background(), &model.Appointment{Base: model.Base{ID: "a1", OwnerID: "owner-1"}})
		assert.True(mt, apperrors.IsNotFound(err))
	})

	mt.Run("rename reports modified count", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		n, err := repo.RenamePatient(context.Background(), "owner-1", "p1", "Ana María")
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("transport error is surfaced", func(mt *mtest.T) {
		repo := NewAppointmentRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Message: "shutdown in progress"}))

		_, err := repo.ListByOwner(context.Background(), "owner-1")
		require.Error(mt, err)
		assert.False(mt, apperrors.IsNotFound(err))
	})
}

func TestSessionListByPatient(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reads all batches", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.Coll, nil)
		day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		ns := namespace(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "s1"}, {Key: "owner_id", Value: "owner-1"}, {Key: "patient_id", Value: "p1"},
				{Key: "session_date", Value: day}, {Key: "amount", Value: 1500.0}, {Key: "payment_method", Value: "cash"},
			}),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, bson.D{
				{Key: "_id", Value: "s2"}, {Key: "owner_id", Value: "owner-1"}, {Key: "patient_id", Value: "p1"},
				{Key: "session_date", Value: day}, {Key: "amount", Value: 0.0}, {Key: "paid", Value: true},
			}),
		)

		sessions, err := repo.ListByPatient(context.Background(), "owner-1", "p1")
		require.NoError(mt, err)
		require.Len(mt, sessions, 2)
		assert.Equal(mt, "s1", sessions[0].ID)
		assert.Equal(mt, 1500.0, sessions[0].Amount)
		assert.True(mt, sessions[1].Paid)
	})
}

func TestBroadcastGetDefaultsParticipants(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing participants decode as empty", func(mt *mtest.T) {
		repo := NewBroadcastRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "b1"}, {Key: "owner_id", Value: "owner-1"}, {Key: "title", Value: "Breathwork"},
			{Key: "type", Value: "workshop"},
		}))

		b, err := repo.Get(context.Background(), "owner-1", "b1")
		require.NoError(mt, err)
		assert.NotNil(mt, b.Participants)
		assert.Empty(mt, b.Participants)
		assert.Nil(mt, b.Price)
	})
}
