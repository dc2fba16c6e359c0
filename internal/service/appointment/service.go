package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/internal/calendar"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/clock"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type Options struct {
	// Location is the practitioner's display time zone. Appointment
	// dates and start times are read and shown in it.
	Location  *time.Location
	WeekStart time.Weekday
}

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	hub       *feed.Hub
	clock     clock.Clock
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	loc       *time.Location
	weekStart time.Weekday
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	hub *feed.Hub,
	clk clock.Clock,
	v validator.Validator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts Options,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:      repo,
		patients:  patients,
		hub:       hub,
		clock:     clk,
		validator: v,
		metrics:   m,
		logger:    logger.With().Str("component", "appointments").Logger(),
		loc:       opts.Location,
		weekStart: opts.WeekStart,
	}
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) WeekStart() time.Weekday { return s.weekStart }

// Today is the start of the current day in the display zone.
func (s *Service) Today() time.Time {
	return calendar.Today(clockIn{s.clock, s.loc})
}

func (s *Service) Create(ctx context.Context, ownerID string, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	at, err := s.instant(day, req.StartTime)
	if err != nil {
		return nil, err
	}
	if err := checkEnd(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	name, err := s.patientName(ctx, ownerID, req.PatientID)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		Base:        model.Base{OwnerID: ownerID},
		PatientID:   req.PatientID,
		PatientName: name,
		Date:        at,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Modality:    req.Modality,
		VideoLink:   req.VideoLink,
		Notes:       req.Notes,
	}
	apt.Normalize()

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.hub.Changed(ctx, feed.AppointmentsTopic(ownerID))
	return s.display(*apt), nil
}

// Update applies a patch through the same checks as Create. Changing the
// modality away from video call drops the link even when the patch does
// not mention it.
func (s *Service) Update(ctx context.Context, ownerID, id string, req model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	day := apt.Date.In(s.loc)
	if req.Date != nil {
		if day, err = parseDay(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.StartTime != nil {
		apt.StartTime = *req.StartTime
	}
	if req.Date != nil || req.StartTime != nil {
		if apt.Date, err = s.instant(day, apt.StartTime); err != nil {
			return nil, err
		}
	}
	if req.EndTime != nil {
		apt.EndTime = *req.EndTime
	}
	if err := checkEnd(apt.StartTime, apt.EndTime); err != nil {
		return nil, err
	}

	if req.PatientID != nil && *req.PatientID != apt.PatientID {
		name, err := s.patientName(ctx, ownerID, *req.PatientID)
		if err != nil {
			return nil, err
		}
		apt.PatientID, apt.PatientName = *req.PatientID, name
	}
	if req.Modality != nil {
		apt.Modality = *req.Modality
	}
	if req.VideoLink != nil {
		apt.VideoLink = *req.VideoLink
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	apt.Normalize()

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.hub.Changed(ctx, feed.AppointmentsTopic(ownerID))
	return s.display(*apt), nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.display(*apt), nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.hub.Changed(ctx, feed.AppointmentsTopic(ownerID))
	return nil
}

// List returns every appointment of the owner in date order.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	appointments, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.displayAll(appointments), nil
}

func (s *Service) Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.Appointment], error) {
	return feed.Subscribe(ctx, s.hub, feed.AppointmentsTopic(ownerID), func(ctx context.Context) ([]model.Appointment, error) {
		return s.List(ctx, ownerID)
	})
}

// Calendar builds the month grid around ref, which is read in the display
// zone.
func (s *Service) Calendar(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) (calendar.Grid, error) {
	ref = ref.In(s.loc)
	days := calendar.VisibleDayRange(ref, weekStart)

	appointments, err := s.repo.ListBetween(ctx, ownerID, days.First(), days.Last().AddDate(0, 0, 1))
	if err != nil {
		return calendar.Grid{}, err
	}

	grid := calendar.BuildMonthGrid(ref, s.clock.Now(), s.displayAll(appointments), weekStart)
	s.report(ownerID, grid.Warnings)
	return grid, nil
}

// CalendarSubscription pushes a fresh grid for ref's month whenever the
// owner's appointments change.
func (s *Service) CalendarSubscription(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) (*feed.Subscription[calendar.Grid], error) {
	return feed.Subscribe(ctx, s.hub, feed.AppointmentsTopic(ownerID), func(ctx context.Context) (calendar.Grid, error) {
		return s.Calendar(ctx, ownerID, ref, weekStart)
	})
}

// Agenda returns one day's appointments ordered by start time.
func (s *Service) Agenda(ctx context.Context, ownerID string, day time.Time) ([]model.Appointment, error) {
	start := calendar.KeyOf(day.In(s.loc)).Date(s.loc)

	appointments, err := s.repo.ListBetween(ctx, ownerID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	agenda, warnings := calendar.DayAgenda(start, s.displayAll(appointments))
	s.report(ownerID, warnings)
	return agenda, nil
}

// RenamePatient refreshes the display name copied onto the patient's
// appointments.
func (s *Service) RenamePatient(ctx context.Context, ownerID, patientID, name string) error {
	n, err := s.repo.RenamePatient(ctx, ownerID, patientID, name)
	if err != nil {
		return fmt.Errorf("failed to rename patient on appointments: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Str("patient_id", patientID).Int64("appointments", n).Msg("refreshed patient name")
		s.hub.Changed(ctx, feed.AppointmentsTopic(ownerID))
	}
	return nil
}

// patientName reads the patient from the store on every write, so a
// patient renamed or deleted through another replica is seen at once.
func (s *Service) patientName(ctx context.Context, ownerID, patientID string) (string, error) {
	patient, err := s.patients.Get(ctx, ownerID, patientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.NewValidation("patient_id", "patient does not exist")
		}
		return "", err
	}
	return patient.Name, nil
}

func (s *Service) instant(day time.Time, start string) (time.Time, error) {
	at, ok := calendar.At(day, start, s.loc)
	if !ok {
		return time.Time{}, apperrors.NewValidation("start_time", "start_time must be a time in HH:mm format")
	}
	return at, nil
}

func (s *Service) display(a model.Appointment) *model.Appointment {
	a.Date = a.Date.In(s.loc)
	return &a
}

func (s *Service) displayAll(appointments []model.Appointment) []model.Appointment {
	out := make([]model.Appointment, len(appointments))
	for i, a := range appointments {
		out[i] = *s.display(a)
	}
	return out
}

func (s *Service) report(ownerID string, warnings []calendar.Warning) {
	for _, w := range warnings {
		s.logger.Warn().
			Str("owner_id", ownerID).
			Str("appointment_id", w.RecordID).
			Str("reason", w.Reason).
			Msg("skipping appointment")
	}
	s.metrics.Skipped("appointment", len(warnings))
}

func parseDay(s string) (time.Time, error) {
	day, ok := calendar.ParseDate(s)
	if !ok {
		return time.Time{}, apperrors.NewValidation("date", "must be a real date written as yyyy-MM-dd or dd/MM/yyyy")
	}
	return day, nil
}

// checkEnd compares zero-padded "HH:mm" strings lexically.
func checkEnd(start, end string) error {
	if end != "" && end < start {
		return apperrors.NewValidation("end_time", "end_time must not be before start_time")
	}
	return nil
}

type clockIn struct {
	c   clock.Clock
	loc *time.Location
}

func (c clockIn) Now() time.Time { return c.c.Now().In(c.loc) }
