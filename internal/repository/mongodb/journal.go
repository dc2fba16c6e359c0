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

type journalRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewJournalRepository(coll *mongo.Collection, m *metrics.Metrics) repository.JournalRepository {
	return &journalRepository{coll: coll, metrics: m}
}

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) (err error) {
	defer observe(r.metrics, "create_journal_entry", time.Now(), &err)

	entry.ID = newID()
	entry.CreatedAt = now()
	entry.UpdatedAt = entry.CreatedAt

	if _, err = r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) Get(ctx context.Context, ownerID, id string) (_ *model.JournalEntry, err error) {
	defer observe(r.metrics, "get_journal_entry", time.Now(), &err)
	return findOne[model.JournalEntry](ctx, r.coll, "journal entry", ownedBy(ownerID, id))
}

func (r *journalRepository) Update(ctx context.Context, entry *model.JournalEntry) (err error) {
	defer observe(r.metrics, "update_journal_entry", time.Now(), &err)

	entry.UpdatedAt = now()
	return replaceOne(ctx, r.coll, "journal entry", ownedBy(entry.OwnerID, entry.ID), entry)
}

func (r *journalRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_journal_entry", time.Now(), &err)
	return deleteOne(ctx, r.coll, "journal entry", ownedBy(ownerID, id))
}

func (r *journalRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.JournalEntry, err error) {
	defer observe(r.metrics, "list_journal_entries", time.Now(), &err)
	return findAll[model.JournalEntry](ctx, r.coll, "journal entries", bson.M{"owner_id": ownerID}, newestFirst)
}
