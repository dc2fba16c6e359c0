package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/internal/calendar"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

// NameSync keeps the patient name copied onto appointments current.
type NameSync interface {
	RenamePatient(ctx context.Context, ownerID, patientID, name string) error
}

type Service struct {
	repo      repository.PatientRepository
	names     NameSync
	hub       *feed.Hub
	validator validator.Validator
	logger    zerolog.Logger
}

func NewService(repo repository.PatientRepository, names NameSync, hub *feed.Hub, v validator.Validator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		names:     names,
		hub:       hub,
		validator: v,
		logger:    logger.With().Str("component", "patients").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, req model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		Base:         model.Base{OwnerID: ownerID},
		Name:         strings.TrimSpace(req.Name),
		BirthDate:    birth,
		Phone:        strings.TrimSpace(req.Phone),
		Observations: req.Observations,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.hub.Changed(ctx, feed.PatientsTopic(ownerID))
	return patient, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.Patient, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's patients, most recently created first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Patient, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.Patient], error) {
	return feed.Subscribe(ctx, s.hub, feed.PatientsTopic(ownerID), func(ctx context.Context) ([]model.Patient, error) {
		return s.List(ctx, ownerID)
	})
}

// Update applies a patch. A new name is copied onto the patient's
// appointments once the patient record is saved.
func (s *Service) Update(ctx context.Context, ownerID, id string, req model.UpdatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidation("name", "name must not be empty")
		}
		renamed = name != patient.Name
		patient.Name = name
	}
	if req.BirthDate != nil {
		if patient.BirthDate, err = parseBirthDate(*req.BirthDate); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		patient.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Observations != nil {
		patient.Observations = *req.Observations
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	s.hub.Changed(ctx, feed.PatientsTopic(ownerID))

	if renamed {
		if err := s.names.RenamePatient(ctx, ownerID, id, patient.Name); err != nil {
			s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to refresh patient name on appointments")
		}
	}
	return patient, nil
}

// Delete removes the patient. Their sessions become unreachable.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.hub.Changed(ctx, feed.PatientsTopic(ownerID))
	s.hub.Changed(ctx, feed.SessionsTopic(ownerID, id))
	return nil
}

// Contact builds a WhatsApp link from the patient's phone digits.
func (s *Service) Contact(ctx context.Context, ownerID, id string) (*model.ContactLink, error) {
	patient, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, patient.Phone)
	if digits == "" {
		return nil, apperrors.NewValidation("phone", "patient has no phone number")
	}

	return &model.ContactLink{
		PatientID: patient.ID,
		Phone:     patient.Phone,
		URL:       "https://wa.me/" + digits,
	}, nil
}

func parseBirthDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, ok := calendar.ParseDate(s)
	if !ok {
		return nil, apperrors.NewValidation("birth_date", "must be a real date written as dd/MM/yyyy or yyyy-MM-dd")
	}
	return &t, nil
}
