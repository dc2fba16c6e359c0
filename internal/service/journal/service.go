package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type Service struct {
	repo      repository.JournalRepository
	hub       *feed.Hub
	validator validator.Validator
}

func NewService(repo repository.JournalRepository, hub *feed.Hub, v validator.Validator) *Service {
	return &Service{repo: repo, hub: hub, validator: v}
}

func (s *Service) Create(ctx context.Context, ownerID string, req model.JournalEntryRequest) (*model.JournalEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperrors.NewValidation("body", "body is required")
	}

	entry := &model.JournalEntry{
		Base:  model.Base{OwnerID: ownerID},
		Title: strings.TrimSpace(req.Title),
		Body:  req.Body,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	s.hub.Changed(ctx, feed.JournalTopic(ownerID))
	return entry, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.JournalEntry, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Update(ctx context.Context, ownerID, id string, req model.UpdateJournalEntryRequest) (*model.JournalEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		entry.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, apperrors.NewValidation("body", "body is required")
		}
		entry.Body = *req.Body
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	s.hub.Changed(ctx, feed.JournalTopic(ownerID))
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.hub.Changed(ctx, feed.JournalTopic(ownerID))
	return nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.JournalEntry, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.JournalEntry], error) {
	return feed.Subscribe(ctx, s.hub, feed.JournalTopic(ownerID), func(ctx context.Context) ([]model.JournalEntry, error) {
		return s.List(ctx, ownerID)
	})
}
