// Package mongodb stores practice records in MongoDB, one collection per
// record type. Every filter carries owner_id.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/repository"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

const driver = "mongo"

const (
	appointmentsCollection = "appointments"
	patientsCollection     = "patients"
	sessionsCollection     = "sessions"
	journalCollection      = "journal_entries"
	broadcastsCollection   = "broadcasts"
)

// Connect dials the deployment and verifies it answers a primary ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the list queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		appointmentsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "patient_id", Value: 1}}},
		},
		patientsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		sessionsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "patient_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		journalCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		broadcastsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// NewStore wires every repository onto one database.
func NewStore(client *mongo.Client, db *mongo.Database, m *metrics.Metrics) repository.Store {
	return repository.Store{
		Appointments: NewAppointmentRepository(db.Collection(appointmentsCollection), m),
		Patients:     NewPatientRepository(db.Collection(patientsCollection), db.Collection(sessionsCollection), m),
		Sessions:     NewSessionRepository(db.Collection(sessionsCollection), m),
		Journal:      NewJournalRepository(db.Collection(journalCollection), m),
		Broadcasts:   NewBroadcastRepository(db.Collection(broadcastsCollection), m),
		Health:       pinger{client: client},
		Close: func() error {
			return client.Disconnect(context.Background())
		},
	}
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

func ownedBy(ownerID, id string) bson.M {
	return bson.M{"owner_id": ownerID, "_id": id}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// now is truncated to BSON datetime precision so a stored record reads
// back equal to what was written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, resource string, filter bson.M) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound(resource, err)
		}
		return nil, fmt.Errorf("failed to get %s: %w", resource, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, resource string, filter bson.M, sort bson.D) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return docs, nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, resource string, filter bson.M, doc interface{}) error {
	result, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", resource, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound(resource, nil)
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, resource string, filter bson.M) error {
	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFound(resource, nil)
	}
	return nil
}

func observe(m *metrics.Metrics, operation string, start time.Time, err *error) {
	m.ObserveStore(driver, operation, start, *err)
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
