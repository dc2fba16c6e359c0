package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) (err error) {
	defer observe(r.metrics, "create_journal_entry", time.Now(), &err)

	entry.ID = newID()
	entry.CreatedAt = now()
	entry.UpdatedAt = entry.CreatedAt

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO journal_entries (id, owner_id, title, body, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :body, :created_at, :updated_at)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) Get(ctx context.Context, ownerID, id string) (_ *model.JournalEntry, err error) {
	defer observe(r.metrics, "get_journal_entry", time.Now(), &err)

	var entry model.JournalEntry
	err = r.db.GetContext(ctx, &entry, `
		SELECT id, owner_id, title, body, created_at, updated_at
		FROM journal_entries WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", notFound("journal entry", err))
	}
	return &entry, nil
}

func (r *journalRepository) Update(ctx context.Context, entry *model.JournalEntry) (err error) {
	defer observe(r.metrics, "update_journal_entry", time.Now(), &err)

	entry.UpdatedAt = now()
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE journal_entries SET title = :title, body = :body, updated_at = :updated_at
		WHERE owner_id = :owner_id AND id = :id
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return requireAffected("journal entry", result)
}

func (r *journalRepository) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(r.metrics, "delete_journal_entry", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return requireAffected("journal entry", result)
}

func (r *journalRepository) ListByOwner(ctx context.Context, ownerID string) (_ []model.JournalEntry, err error) {
	defer observe(r.metrics, "list_journal_entries", time.Now(), &err)

	entries := []model.JournalEntry{}
	err = r.db.SelectContext(ctx, &entries, `
		SELECT id, owner_id, title, body, created_at, updated_at
		FROM journal_entries WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}
