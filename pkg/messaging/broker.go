package messaging

import (
	"context"
)

// Notifier carries "something changed" notices per topic. Notices have
// no payload: listeners reload whatever state the topic names.
type Notifier interface {
	Notify(ctx context.Context, topic string) error
	// Listen delivers a notice on the returned channel for every change
	// on topic until ctx is done, then closes the channel. Bursts may
	// be coalesced into one notice.
	Listen(ctx context.Context, topic string) (<-chan struct{}, error)
	Close() error
}
