// Package digest mails each practitioner the day's agenda and what their
// patients still owe.
package digest

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/email"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/money"
)

type AgendaSource interface {
	Today() time.Time
	Agenda(ctx context.Context, ownerID string, day time.Time) ([]model.Appointment, error)
}

type PatientSource interface {
	List(ctx context.Context, ownerID string) ([]model.Patient, error)
}

type SessionSource interface {
	List(ctx context.Context, ownerID, patientID string) ([]model.Session, error)
}

// Report is the content of one digest email.
type Report struct {
	Day          time.Time
	Appointments []model.Appointment
	Debtors      []Debtor
	Outstanding  string
}

type Debtor struct {
	Name        string
	Sessions    int
	Outstanding string
}

type Digest struct {
	agenda     AgendaSource
	patients   PatientSource
	sessions   SessionSource
	mailer     email.Service
	recipients []config.Recipient
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func New(
	agenda AgendaSource,
	patients PatientSource,
	sessions SessionSource,
	mailer email.Service,
	recipients []config.Recipient,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Digest {
	return &Digest{
		agenda:     agenda,
		patients:   patients,
		sessions:   sessions,
		mailer:     mailer,
		recipients: recipients,
		metrics:    m,
		logger:     logger.With().Str("component", "digest").Logger(),
	}
}

// Build collects the agenda of day and the unpaid sessions of every
// patient of the owner.
func (d *Digest) Build(ctx context.Context, ownerID string, day time.Time) (*Report, error) {
	appointments, err := d.agenda.Agenda(ctx, ownerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load agenda: %w", err)
	}

	patients, err := d.patients.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}

	report := &Report{Day: day, Appointments: appointments}
	total := decimal.Zero
	for _, p := range patients {
		sessions, err := d.sessions.List(ctx, ownerID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sessions of %s: %w", p.ID, err)
		}

		var unpaid []float64
		for _, s := range sessions {
			if !s.Paid {
				unpaid = append(unpaid, s.Amount)
			}
		}
		if len(unpaid) == 0 {
			continue
		}
		owed := money.Sum(unpaid...)
		total = total.Add(owed)
		report.Debtors = append(report.Debtors, Debtor{Name: p.Name, Sessions: len(unpaid), Outstanding: money.Format(owed)})
	}
	report.Outstanding = money.Format(total)

	return report, nil
}

// Run sends today's digest to every recipient. One failed recipient does
// not stop the others; the first error is returned.
func (d *Digest) Run(ctx context.Context) error {
	day := d.agenda.Today()

	var first error
	for _, r := range d.recipients {
		err := d.send(ctx, r, day)
		d.metrics.Digest(err)
		if err != nil {
			d.logger.Error().Err(err).Str("owner_id", r.OwnerID).Msg("failed to send digest")
			if first == nil {
				first = err
			}
			continue
		}
		d.logger.Info().Str("owner_id", r.OwnerID).Str("to", r.Email).Msg("digest sent")
	}
	return first
}

func (d *Digest) send(ctx context.Context, r config.Recipient, day time.Time) error {
	report, err := d.Build(ctx, r.OwnerID, day)
	if err != nil {
		return err
	}

	body, err := Render(report)
	if err != nil {
		return err
	}

	return d.mailer.Send(ctx, email.Message{
		To:      r.Email,
		Subject: "Agenda del " + day.Format("02/01/2006"),
		Text:    body,
	})
}

var bodyTemplate = template.Must(template.New("digest").Parse(`Agenda del {{.Day.Format "02/01/2006"}}
{{range .Appointments}}
  {{.StartTime}}{{if .EndTime}}-{{.EndTime}}{{end}}  {{.PatientName}}{{if eq .Modality "video_call"}} (videollamada){{end}}
{{- else}}
  Sin turnos.
{{- end}}

Saldo pendiente: {{.Outstanding}}
{{range .Debtors}}
  {{.Name}}: {{.Outstanding}} ({{.Sessions}} sesiones)
{{- end}}
`))

func Render(r *Report) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}
