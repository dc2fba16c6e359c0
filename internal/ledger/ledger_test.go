package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/pkg/clock"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/messaging"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type fakeSessions struct {
	mu      sync.Mutex
	seq     int
	rows    []model.Session
	updates int
	failGet error
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s.ID = fmt.Sprintf("s%02d", f.seq)
	s.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeSessions) Get(_ context.Context, ownerID, patientID, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, s := range f.rows {
		if s.OwnerID == ownerID && s.PatientID == patientID && s.ID == id {
			return &s, nil
		}
	}
	return nil, apperrors.NewNotFound("session", nil)
}

func (f *fakeSessions) Update(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == s.ID && f.rows[i].OwnerID == s.OwnerID {
			f.rows[i] = *s
			f.updates++
			return nil
		}
	}
	return apperrors.NewNotFound("session", nil)
}

func (f *fakeSessions) Delete(_ context.Context, ownerID, patientID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.rows {
		if s.OwnerID == ownerID && s.PatientID == patientID && s.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("session", nil)
}

func (f *fakeSessions) ListByPatient(_ context.Context, ownerID, patientID string) ([]model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Session
	for _, s := range f.rows {
		if s.OwnerID == ownerID && s.PatientID == patientID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePatients struct {
	known map[string]bool
}

func (f fakePatients) Create(context.Context, *model.Patient) error { return nil }
func (f fakePatients) Update(context.Context, *model.Patient) error { return nil }
func (f fakePatients) Delete(context.Context, string, string) error { return nil }
func (f fakePatients) ListByOwner(context.Context, string) ([]model.Patient, error) {
	return nil, nil
}

func (f fakePatients) Get(_ context.Context, ownerID, id string) (*model.Patient, error) {
	if !f.known[ownerID+"/"+id] {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return &model.Patient{Base: model.Base{ID: id, OwnerID: ownerID}}, nil
}

const (
	owner   = "owner-1"
	patient = "patient-1"
)

var today = time.Date(2024, 3, 15, 22, 30, 0, 0, time.FixedZone("ART", -3*60*60))

func newLedger(t *testing.T) (*Ledger, *fakeSessions) {
	t.Helper()
	sessions := &fakeSessions{}
	patients := fakePatients{known: map[string]bool{owner + "/" + patient: true}}
	hub := feed.NewHub(messaging.NewMemoryNotifier(), nil, zerolog.Nop())
	return New(sessions, patients, hub, clock.Fixed(today), validator.New(), nil, zerolog.Nop()), sessions
}

func amount(v float64) *float64 { return &v }

func TestAddDefaultsAmountAndStartsUnpaid(t *testing.T) {
	l, _ := newLedger(t)

	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{Date: "01/03/2024"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Amount)
	assert.False(t, s.Paid)
	assert.Equal(t, model.PaymentCash, s.PaymentMethod)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.Date)

	paid, err := l.CollectPayment(context.Background(), owner, patient, s.ID, model.PaymentCash)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, model.PaymentCash, paid.PaymentMethod)
}

func TestAddWithoutDateUsesClockDay(t *testing.T) {
	l, _ := newLedger(t)

	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{Amount: amount(1200)})
	require.NoError(t, err)
	// 22:30 in Buenos Aires is already the 16th in UTC; the ledger keeps
	// the practitioner's calendar day.
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), s.Date)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	l, sessions := newLedger(t)

	tests := []struct {
		name  string
		input model.SessionInput
		field string
	}{
		{"unparseable date", model.SessionInput{Date: "31/02/2024"}, "session_date"},
		{"short local date", model.SessionInput{Date: "1/3/2024"}, "session_date"},
		{"negative amount", model.SessionInput{Amount: amount(-1)}, "amount"},
		{"nan amount", model.SessionInput{Amount: amount(math.NaN())}, "amount"},
		{"infinite amount", model.SessionInput{Amount: amount(math.Inf(1))}, "amount"},
		{"unknown method", model.SessionInput{PaymentMethod: "crypto"}, "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Add(context.Background(), owner, patient, tt.input)
			require.True(t, apperrors.IsValidation(err), "got %v", err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
	assert.Empty(t, sessions.rows)
}

func TestAddForUnknownPatientIsNotFound(t *testing.T) {
	l, sessions := newLedger(t)

	_, err := l.Add(context.Background(), "owner-2", patient, model.SessionInput{})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, sessions.rows)
}

func TestCollectPaymentTwiceIsAlreadySatisfied(t *testing.T) {
	l, sessions := newLedger(t)
	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{Amount: amount(5000)})
	require.NoError(t, err)

	_, err = l.CollectPayment(context.Background(), owner, patient, s.ID, model.PaymentTransfer)
	require.NoError(t, err)
	require.Equal(t, 1, sessions.updates)

	_, err = l.CollectPayment(context.Background(), owner, patient, s.ID, model.PaymentCash)
	assert.True(t, apperrors.IsAlreadySatisfied(err))
	assert.Equal(t, 1, sessions.updates)

	stored, err := sessions.Get(context.Background(), owner, patient, s.ID)
	require.NoError(t, err)
	assert.True(t, stored.Paid)
	assert.Equal(t, model.PaymentTransfer, stored.PaymentMethod)
}

func TestCollectPaymentRejectsUnknownMethod(t *testing.T) {
	l, sessions := newLedger(t)
	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{})
	require.NoError(t, err)

	_, err = l.CollectPayment(context.Background(), owner, patient, s.ID, "cheque")
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, sessions.updates)
}

func TestCollectPaymentSurfacesTransportError(t *testing.T) {
	l, sessions := newLedger(t)
	transport := errors.New("deadline exceeded")
	sessions.failGet = transport

	_, err := l.CollectPayment(context.Background(), owner, patient, "s01", model.PaymentCash)
	assert.ErrorIs(t, err, transport)
}

func TestEditCanClearPaidFlag(t *testing.T) {
	l, _ := newLedger(t)
	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{})
	require.NoError(t, err)
	_, err = l.CollectPayment(context.Background(), owner, patient, s.ID, model.PaymentCash)
	require.NoError(t, err)

	unpaid := false
	notes := "breathing, grounding"
	edited, err := l.Edit(context.Background(), owner, patient, s.ID, model.SessionPatch{
		Paid:      &unpaid,
		Exercises: &notes,
		Amount:    amount(800),
	})
	require.NoError(t, err)
	assert.False(t, edited.Paid)
	assert.Equal(t, notes, edited.Exercises)
	assert.Equal(t, 800.0, edited.Amount)
}

func TestEditRevalidates(t *testing.T) {
	l, sessions := newLedger(t)
	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{})
	require.NoError(t, err)

	bad := "2024-13-01"
	_, err = l.Edit(context.Background(), owner, patient, s.ID, model.SessionPatch{Date: &bad})
	assert.True(t, apperrors.IsValidation(err))

	_, err = l.Edit(context.Background(), owner, patient, s.ID, model.SessionPatch{Amount: amount(-5)})
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, sessions.updates)
}

func TestListOrdersByDateDescKeepingCreationOrder(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	for _, d := range []string{"01/03/2024", "05/03/2024", "01/03/2024", "2024-02-20", "05/03/2024"} {
		_, err := l.Add(ctx, owner, patient, model.SessionInput{Date: d})
		require.NoError(t, err)
	}

	sessions, err := l.List(ctx, owner, patient)
	require.NoError(t, err)

	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s02", "s05", "s01", "s03", "s04"}, ids)
}

func TestListSkipsSessionsWithoutDate(t *testing.T) {
	l, sessions := newLedger(t)
	_, err := l.Add(context.Background(), owner, patient, model.SessionInput{})
	require.NoError(t, err)
	sessions.rows = append(sessions.rows, model.Session{Base: model.Base{ID: "broken", OwnerID: owner}, PatientID: patient})

	list, err := l.List(context.Background(), owner, patient)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s01", list[0].ID)
}

func TestDelete(t *testing.T) {
	l, sessions := newLedger(t)
	s, err := l.Add(context.Background(), owner, patient, model.SessionInput{})
	require.NoError(t, err)

	require.NoError(t, l.Delete(context.Background(), owner, patient, s.ID))
	assert.Empty(t, sessions.rows)
	assert.True(t, apperrors.IsNotFound(l.Delete(context.Background(), owner, patient, s.ID)))
}

func TestSummary(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	a, err := l.Add(ctx, owner, patient, model.SessionInput{Amount: amount(1234.56)})
	require.NoError(t, err)
	_, err = l.Add(ctx, owner, patient, model.SessionInput{Amount: amount(0.1)})
	require.NoError(t, err)
	_, err = l.Add(ctx, owner, patient, model.SessionInput{Amount: amount(0.2)})
	require.NoError(t, err)
	_, err = l.CollectPayment(ctx, owner, patient, a.ID, model.PaymentTransfer)
	require.NoError(t, err)

	summary, err := l.Summary(ctx, owner, patient)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Sessions)
	assert.Equal(t, 1, summary.PaidSessions)
	assert.Equal(t, 2, summary.UnpaidSessions)
	assert.Equal(t, "1234.56", summary.Collected)
	assert.Equal(t, "0.30", summary.Outstanding)
	assert.Equal(t, "$\u00a01.234,56", summary.CollectedFormatted)
	assert.Equal(t, "$\u00a00,30", summary.OutstandingFormatted)
}

func TestSubscribePushesSortedLedger(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	sub, err := l.Subscribe(ctx, owner, patient)
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.C
	assert.Empty(t, first)

	_, err = l.Add(ctx, owner, patient, model.SessionInput{Date: "2024-03-01"})
	require.NoError(t, err)

	select {
	case snapshot := <-sub.C:
		require.Len(t, snapshot, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after add")
	}
}
