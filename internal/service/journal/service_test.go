package journal

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/messaging"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type fakeRepo struct {
	rows map[string]model.JournalEntry
}

func (f *fakeRepo) Create(_ context.Context, e *model.JournalEntry) error {
	e.ID = "e1"
	f.rows[e.ID] = *e
	return nil
}

func (f *fakeRepo) Get(_ context.Context, ownerID, id string) (*model.JournalEntry, error) {
	e, ok := f.rows[id]
	if !ok || e.OwnerID != ownerID {
		return nil, apperrors.NewNotFound("journal entry", nil)
	}
	return &e, nil
}

func (f *fakeRepo) Update(_ context.Context, e *model.JournalEntry) error {
	f.rows[e.ID] = *e
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) ListByOwner(context.Context, string) ([]model.JournalEntry, error) {
	out := []model.JournalEntry{}
	for _, e := range f.rows {
		out = append(out, e)
	}
	return out, nil
}

func newService() (*Service, *fakeRepo) {
	repo := &fakeRepo{rows: map[string]model.JournalEntry{}}
	hub := feed.NewHub(messaging.NewMemoryNotifier(), nil, zerolog.Nop())
	return NewService(repo, hub, validator.New()), repo
}

func TestJournalLifecycle(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	entry, err := svc.Create(ctx, "owner-1", model.JournalEntryRequest{Body: "Grateful for today"})
	require.NoError(t, err)
	assert.Empty(t, entry.Title)

	title := "Sunday"
	updated, err := svc.Update(ctx, "owner-1", entry.ID, model.UpdateJournalEntryRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Sunday", updated.Title)
	assert.Equal(t, "Grateful for today", updated.Body)

	_, err = svc.Get(ctx, "owner-2", entry.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, "owner-1", entry.ID))
	assert.Empty(t, repo.rows)
}

func TestJournalRequiresBody(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(context.Background(), "owner-1", model.JournalEntryRequest{Title: "empty"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), "owner-1", model.JournalEntryRequest{Body: "   "})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, repo.rows)
}
