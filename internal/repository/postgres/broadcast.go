package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

const broadcastColumns = `id, owner_id, title, description, type, event_date, link, price,
		participants, created_at, updated_at`

func (r *broadcastRepository) Create(ctx context.Context, broadcast *model.Broadcast) (err error) {
	defer observe(r.metrics, "create_broadcast", time.Now(), &err)

	broadcast.ID = newID()
	broadcast.CreatedAt = now()
	broadcast.UpdatedAt = broadcast.CreatedAt
	if broadcast.Participants == nil {
		broadcast.Participants = model.Participants{}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO broadcasts (`+broadcastColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		broadcast.ID,
		broadcast.OwnerID,
		broadcast.Title,
		broadcast.Description,
		broadcast.Type,
		broadcast.EventDate,
		broadcast.Link,
		broadcast.Price,
		broadcast.Participants,
		broadcast.CreatedAt,
		broadcast.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create broadcast: %w", err)
	}
	return nil
}

func (r *broadcastRepository) Get(ctx context.Context, ownerID, id string) (_ *model.Broadcast, err error) {
	defer observe(r.metrics, "get_broadcast", time.Now(), &err)

	var broadcast model.Broadcast
	query := `SELECT ` + broadcastColumns + ` FROM broadcasts WHERE owner_id = $1 AND id = $2`
	if err = r.db.GetContext(ctx, &broadcast, query, ownerID, id); err != nil {
		return nil, fmt.Errorf("failed to get broadcast: %w", notFound("broadcast", err))
	}
	return &broadcast, nil
}

func (r *broadcastRepository) Update(ctx context.Context, broadcast *model.Broadcast) (err error) {
	defer observe(r.metrics, "update_broadcast", time.Now(), &err)

	broadcast.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE broadcasts
		SET title = $1, description = $2, type = $3, event_date = $4, link = $5, price = $6,
			participants = $7, updated_at = $8
		WHERE owner_id = $9 AND id = $10
	`,
		broadcast.Title,
		broadcast.Description,
		broadcast.Type,
		broadcast.EventDate,
		broadcast.Link,
		broadcast.Price,
		broadcast.Participants,
		broadcast.UpdatedAt,
		broadcast.OwnerID,
		broadcast.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update broadcast: %w", err)
	}
	return requireAffected("broadcast", result)
}

func (r *broadcastRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_broadcast", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM broadcasts WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete broadcast: %w", err)
	}
	return requireAffected("broadcast", result)
}

func (r *broadcastRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.Broadcast, err error) {
	defer observe(r.metrics, "list_broadcasts", time.Now(), &err)

	broadcasts := []model.Broadcast{}
	query := `SELECT ` + broadcastColumns + ` FROM broadcasts WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	if err = r.db.SelectContext(ctx, &broadcasts, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}
	return broadcasts, nil
}
