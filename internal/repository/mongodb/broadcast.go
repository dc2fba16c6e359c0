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

type broadcastRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewBroadcastRepository(coll *mongo.Collection, m *metrics.Metrics) repository.BroadcastRepository {
	return &broadcastRepository{coll: coll, metrics: m}
}

func (r *broadcastRepository) Create(ctx context.Context, broadcast *model.Broadcast) (err error) {
	defer observe(r.metrics, "create_broadcast", time.Now(), &err)

	broadcast.ID = newID()
	broadcast.CreatedAt = now()
	broadcast.UpdatedAt = broadcast.CreatedAt
	if broadcast.Participants == nil {
		broadcast.Participants = model.Participants{}
	}

	if _, err = r.coll.InsertOne(ctx, broadcast); err != nil {
		return fmt.Errorf("failed to create broadcast: %w", err)
	}
	return nil
}

func (r *broadcastRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Broadcast, err error) {
	defer observe(r.metrics, "get_broadcast", time.Now(), &err)

	b, err := findOne[model.Broadcast](ctx, r.coll, "broadcast", ownedBy(ownerID, id))
	if err != nil {
		return nil, err
	}
	if b.Participants == nil {
		b.Participants = model.Participants{}
	}
	return b, nil
}

func (r *broadcastRepository) Update(ctx context.Context, broadcast *model.Broadcast) (err error) {
	defer observe(r.metrics, "update_broadcast", time.Now(), &err)

	broadcast.UpdatedAt = now()
	return replaceOne(ctx, r.coll, "broadcast", ownedBy(broadcast.OwnerID, broadcast.ID), broadcast)
}

func (r *broadcastRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_broadcast", time.Now(), &err)
	return deleteOne(ctx, r.coll, "broadcast", ownedBy(ownerID, id))
}

func (r *broadcastRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Broadcast, err error) {
	defer observe(r.metrics, "list_broadcasts", time.Now(), &err)
	return findAll[model.Broadcast](ctx, r.coll, "broadcasts", bson.M{"owner_id": ownerID}, newestFirst)
}
