package broadcast

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/practice-api/internal/calendar"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/money"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type Service struct {
	repo      repository.BroadcastRepository
	hub       *feed.Hub
	validator validator.Validator
	loc       *time.Location
}

// NewService reads event dates without an offset in loc.
func NewService(repo repository.BroadcastRepository, hub *feed.Hub, v validator.Validator, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, hub: hub, validator: v, loc: loc}
}

func (s *Service) Create(ctx context.Context, ownerID string, req model.BroadcastRequest) (*model.BroadcastView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	when, err := s.parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}

	b := &model.Broadcast{
		Base:         model.Base{OwnerID: ownerID},
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Type:         req.Type,
		EventDate:    when,
		Link:         req.Link,
		Price:        req.Price,
		Participants: model.Participants{},
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create broadcast: %w", err)
	}

	s.hub.Changed(ctx, feed.BroadcastsTopic(ownerID))
	return s.view(b), nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.BroadcastView, error) {
	b, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.view(b), nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, req model.UpdateBroadcastRequest) (*model.BroadcastView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}

	b, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Type != nil {
		b.Type = *req.Type
	}
	if req.EventDate != nil {
		if b.EventDate, err = s.parseEventDate(*req.EventDate); err != nil {
			return nil, err
		}
	}
	if req.Link != nil {
		b.Link = *req.Link
	}
	switch {
	case req.ClearPrice:
		b.Price = nil
	case req.Price != nil:
		b.Price = req.Price
	}

	return s.save(ctx, b)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.hub.Changed(ctx, feed.BroadcastsTopic(ownerID))
	return nil
}

// List returns broadcasts newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.BroadcastView, error) {
	broadcasts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]model.BroadcastView, len(broadcasts))
	for i := range broadcasts {
		views[i] = *s.view(&broadcasts[i])
	}
	return views, nil
}

func (s *Service) Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.BroadcastView], error) {
	return feed.Subscribe(ctx, s.hub, feed.BroadcastsTopic(ownerID), func(ctx context.Context) ([]model.BroadcastView, error) {
		return s.List(ctx, ownerID)
	})
}

func (s *Service) AddParticipant(ctx context.Context, ownerID, id string, req model.AddParticipantRequest) (*model.BroadcastView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	b, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	status := model.ParticipantPending
	if req.Paid {
		status = model.ParticipantPaid
	}
	b.Participants = append(b.Participants, model.Participant{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(req.Name),
		Status: status,
	})
	return s.save(ctx, b)
}

// ToggleParticipant flips a participant between paid and pending.
func (s *Service) ToggleParticipant(ctx context.Context, ownerID, id, participantID string) (*model.BroadcastView, error) {
	b, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(b.Participants, func(p model.Participant) bool { return p.ID == participantID })
	if i < 0 {
		return nil, apperrors.NewNotFound("participant", nil)
	}

	if b.Participants[i].Status == model.ParticipantPaid {
		b.Participants[i].Status = model.ParticipantPending
	} else {
		b.Participants[i].Status = model.ParticipantPaid
	}
	return s.save(ctx, b)
}

func (s *Service) RemoveParticipant(ctx context.Context, ownerID, id, participantID string) (*model.BroadcastView, error) {
	b, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	n := len(b.Participants)
	b.Participants = slices.DeleteFunc(b.Participants, func(p model.Participant) bool { return p.ID == participantID })
	if len(b.Participants) == n {
		return nil, apperrors.NewNotFound("participant", nil)
	}
	return s.save(ctx, b)
}

func (s *Service) save(ctx context.Context, b *model.Broadcast) (*model.BroadcastView, error) {
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update broadcast: %w", err)
	}
	s.hub.Changed(ctx, feed.BroadcastsTopic(b.OwnerID))
	return s.view(b), nil
}

func (s *Service) view(b *model.Broadcast) *model.BroadcastView {
	b.EventDate = b.EventDate.In(s.loc)
	v := &model.BroadcastView{Broadcast: b}
	if b.Price != nil {
		v.PriceFormatted = money.FormatARS(*b.Price)
	}
	for _, p := range b.Participants {
		if p.Status == model.ParticipantPaid {
			v.PaidCount++
		} else {
			v.PendingCount++
		}
	}
	return v
}

func (s *Service) parseEventDate(v string) (time.Time, error) {
	t, ok := calendar.ParseDateTime(v, s.loc)
	if !ok {
		return time.Time{}, apperrors.NewValidation("event_date", "must be yyyy-MM-ddTHH:mm or an RFC 3339 timestamp")
	}
	return t, nil
}

func checkPrice(price *float64) error {
	if price == nil {
		return nil
	}
	if math.IsNaN(*price) || math.IsInf(*price, 0) || *price < 0 {
		return apperrors.NewValidation("price", "must be a non-negative number")
	}
	return nil
}
