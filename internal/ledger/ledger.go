// Package ledger keeps a patient's therapy sessions and their payment
// state.
package ledger

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/internal/calendar"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/clock"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/money"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type Ledger struct {
	sessions  repository.SessionRepository
	patients  repository.PatientRepository
	hub       *feed.Hub
	clock     clock.Clock
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func New(
	sessions repository.SessionRepository,
	patients repository.PatientRepository,
	hub *feed.Hub,
	clk clock.Clock,
	v validator.Validator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Ledger {
	return &Ledger{
		sessions:  sessions,
		patients:  patients,
		hub:       hub,
		clock:     clk,
		validator: v,
		metrics:   m,
		logger:    logger.With().Str("component", "ledger").Logger(),
	}
}

// Add appends an unpaid session to the patient's ledger. An empty date
// means today; a nil amount means 0.
func (l *Ledger) Add(ctx context.Context, ownerID, patientID string, input model.SessionInput) (*model.Session, error) {
	if err := l.validator.Validate(input); err != nil {
		return nil, err
	}

	day := calendar.Midnight(calendar.Today(l.clock))
	if strings.TrimSpace(input.Date) != "" {
		var err error
		if day, err = parseDate(input.Date); err != nil {
			return nil, err
		}
	}

	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}

	if _, err := l.patients.Get(ctx, ownerID, patientID); err != nil {
		return nil, err
	}

	session := &model.Session{
		Base:             model.Base{OwnerID: ownerID},
		PatientID:        patientID,
		Date:             day,
		TherapyPerformed: input.TherapyPerformed,
		Exercises:        input.Exercises,
		Amount:           amount,
		PaymentMethod:    method,
		Paid:             false,
	}
	if err := l.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	l.hub.Changed(ctx, feed.SessionsTopic(ownerID, patientID))
	return session, nil
}

// Edit applies a patch. Unlike CollectPayment it may set paid either way.
func (l *Ledger) Edit(ctx context.Context, ownerID, patientID, sessionID string, patch model.SessionPatch) (*model.Session, error) {
	if err := l.validator.Validate(patch); err != nil {
		return nil, err
	}

	session, err := l.sessions.Get(ctx, ownerID, patientID, sessionID)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		if session.Date, err = parseDate(*patch.Date); err != nil {
			return nil, err
		}
	}
	if patch.Amount != nil {
		if session.Amount, err = parseAmount(patch.Amount); err != nil {
			return nil, err
		}
	}
	if patch.TherapyPerformed != nil {
		session.TherapyPerformed = *patch.TherapyPerformed
	}
	if patch.Exercises != nil {
		session.Exercises = *patch.Exercises
	}
	if patch.PaymentMethod != nil {
		session.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Paid != nil {
		session.Paid = *patch.Paid
	}

	if err := l.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	l.hub.Changed(ctx, feed.SessionsTopic(ownerID, patientID))
	return session, nil
}

// CollectPayment moves an unpaid session to paid and records method. A
// session that is already paid yields an AlreadySatisfied error and is
// left untouched.
func (l *Ledger) CollectPayment(ctx context.Context, ownerID, patientID, sessionID string, method model.PaymentMethod) (*model.Session, error) {
	if !method.Valid() {
		return nil, apperrors.NewValidation("method", "must be one of: cash transfer")
	}

	session, err := l.sessions.Get(ctx, ownerID, patientID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Paid {
		return nil, apperrors.NewAlreadySatisfied("session is already paid")
	}

	session.Paid = true
	session.PaymentMethod = method
	if err := l.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	l.hub.Changed(ctx, feed.SessionsTopic(ownerID, patientID))
	return session, nil
}

func (l *Ledger) Delete(ctx context.Context, ownerID, patientID, sessionID string) error {
	if err := l.sessions.Delete(ctx, ownerID, patientID, sessionID); err != nil {
		return err
	}
	l.hub.Changed(ctx, feed.SessionsTopic(ownerID, patientID))
	return nil
}

// List returns the patient's sessions, most recent session date first.
// Sessions on the same day keep their creation order. Stored sessions
// without a date are skipped.
func (l *Ledger) List(ctx context.Context, ownerID, patientID string) ([]model.Session, error) {
	sessions, err := l.sessions.ListByPatient(ctx, ownerID, patientID)
	if err != nil {
		return nil, err
	}

	valid := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Date.IsZero() {
			l.logger.Warn().Str("session_id", s.ID).Str("patient_id", patientID).Msg("skipping session without date")
			l.metrics.Skipped("session", 1)
			continue
		}
		valid = append(valid, s)
	}

	Sort(valid)
	return valid, nil
}

// Sort orders sessions by calendar day descending, then by creation.
func Sort(sessions []model.Session) {
	slices.SortStableFunc(sessions, func(a, b model.Session) int {
		return cmp.Or(
			calendar.KeyOf(b.Date).Compare(calendar.KeyOf(a.Date)),
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID, b.ID),
		)
	})
}

// Subscribe pushes the sorted ledger on every change until closed.
func (l *Ledger) Subscribe(ctx context.Context, ownerID, patientID string) (*feed.Subscription[[]model.Session], error) {
	return feed.Subscribe(ctx, l.hub, feed.SessionsTopic(ownerID, patientID), func(ctx context.Context) ([]model.Session, error) {
		return l.List(ctx, ownerID, patientID)
	})
}

// Summary totals the ledger. Amounts are summed as decimals.
func (l *Ledger) Summary(ctx context.Context, ownerID, patientID string) (*model.LedgerSummary, error) {
	if _, err := l.patients.Get(ctx, ownerID, patientID); err != nil {
		return nil, err
	}
	sessions, err := l.List(ctx, ownerID, patientID)
	if err != nil {
		return nil, err
	}
	return Summarize(patientID, sessions), nil
}

func Summarize(patientID string, sessions []model.Session) *model.LedgerSummary {
	var paid, unpaid []float64
	for _, s := range sessions {
		if s.Paid {
			paid = append(paid, s.Amount)
		} else {
			unpaid = append(unpaid, s.Amount)
		}
	}
	collected, outstanding := money.Sum(paid...), money.Sum(unpaid...)

	summary := &model.LedgerSummary{
		PatientID:      patientID,
		Sessions:       len(sessions),
		PaidSessions:   len(paid),
		UnpaidSessions: len(unpaid),
	}
	summary.Collected = collected.StringFixed(2)
	summary.Outstanding = outstanding.StringFixed(2)
	summary.CollectedFormatted = money.Format(collected)
	summary.OutstandingFormatted = money.Format(outstanding)
	return summary
}

func parseDate(s string) (time.Time, error) {
	t, ok := calendar.ParseDate(s)
	if !ok {
		return t, apperrors.NewValidation("session_date", "must be a real date written as dd/MM/yyyy or yyyy-MM-dd")
	}
	return t, nil
}

func parseAmount(amount *float64) (float64, error) {
	if amount == nil {
		return 0, nil
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewValidation("amount", "must be a finite number")
	}
	if v < 0 {
		return 0, apperrors.NewValidation("amount", "must not be negative")
	}
	return v, nil
}
