// Package feed turns store change notices into full-snapshot
// subscriptions.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/pkg/messaging"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

func AppointmentsTopic(ownerID string) string {
	return fmt.Sprintf("practice:%s:appointments", ownerID)
}

func PatientsTopic(ownerID string) string {
	return fmt.Sprintf("practice:%s:patients", ownerID)
}

func SessionsTopic(ownerID, patientID string) string {
	return fmt.Sprintf("practice:%s:patients:%s:sessions", ownerID, patientID)
}

func JournalTopic(ownerID string) string {
	return fmt.Sprintf("practice:%s:journal", ownerID)
}

func BroadcastsTopic(ownerID string) string {
	return fmt.Sprintf("practice:%s:broadcasts", ownerID)
}

// Hub publishes change notices and opens snapshot subscriptions.
type Hub struct {
	notifier messaging.Notifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewHub(notifier messaging.Notifier, m *metrics.Metrics, logger zerolog.Logger) *Hub {
	return &Hub{
		notifier: notifier,
		metrics:  m,
		logger:   logger.With().Str("component", "feed").Logger(),
	}
}

// noticeTimeout bounds a publish once it is detached from the request.
const noticeTimeout = 5 * time.Second

// Changed announces a completed write on topic. The write has already
// happened, so the notice is published even when ctx is cancelled, and
// a failed notice is logged rather than returned.
func (h *Hub) Changed(ctx context.Context, topic string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
	defer cancel()

	err := h.notifier.Notify(ctx, topic)
	h.metrics.Notice(err)
	if err != nil {
		h.logger.Warn().Err(err).Str("topic", topic).Msg("failed to publish change notice")
	}
}

// Subscription pushes the full current snapshot on every change until
// closed. When the consumer falls behind only the latest snapshot is
// kept.
type Subscription[T any] struct {
	C <-chan T

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close releases the subscription and waits for its goroutine to exit.
// C is closed afterwards.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Subscribe loads the first snapshot synchronously, so load errors for
// it are returned unmodified, then reloads after each notice on topic.
// Cancelling ctx has the same effect as Close.
func Subscribe[T any](ctx context.Context, h *Hub, topic string, load func(context.Context) (T, error)) (*Subscription[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	notices, err := h.notifier.Listen(ctx, topic)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to listen on %s: %w", topic, err)
	}

	first, err := load(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan T, 1)
	out <- first

	sub := &Subscription[T]{C: out, cancel: cancel, done: make(chan struct{})}
	h.metrics.SubscriptionOpened()

	go func() {
		defer func() {
			close(out)
			h.metrics.SubscriptionClosed()
			close(sub.done)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notices:
				if !ok {
					return
				}
				snapshot, err := load(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					h.metrics.SnapshotFailed()
					h.logger.Error().Err(err).Str("topic", topic).Msg("failed to reload snapshot")
					continue
				}
				offer(out, snapshot)
			}
		}
	}()

	return sub, nil
}

// offer replaces any undelivered snapshot with the newer one. Only the
// subscription goroutine sends on out.
func offer[T any](out chan T, v T) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
