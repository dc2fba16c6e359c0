package messaging

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("notifier closed")

// MemoryNotifier delivers notices within one process.
type MemoryNotifier struct {
	mu        sync.Mutex
	listeners map[string]map[chan struct{}]struct{}
	closed    bool
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{listeners: make(map[string]map[chan struct{}]struct{})}
}

func (n *MemoryNotifier) Notify(_ context.Context, topic string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	for ch := range n.listeners[topic] {
		select {
		case ch <- struct{}{}:
		default: // a notice is already pending
		}
	}
	return nil
}

func (n *MemoryNotifier) Listen(ctx context.Context, topic string) (<-chan struct{}, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrClosed
	}

	ch := make(chan struct{}, 1)
	if n.listeners[topic] == nil {
		n.listeners[topic] = make(map[chan struct{}]struct{})
	}
	n.listeners[topic][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		n.remove(topic, ch)
	}()

	return ch, nil
}

// Listeners reports how many listeners are registered on topic.
func (n *MemoryNotifier) Listeners(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[topic])
}

func (n *MemoryNotifier) remove(topic string, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[topic][ch]; !ok {
		return
	}
	delete(n.listeners[topic], ch)
	if len(n.listeners[topic]) == 0 {
		delete(n.listeners, topic)
	}
	close(ch)
}

func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	for topic, set := range n.listeners {
		for ch := range set {
			close(ch)
		}
		delete(n.listeners, topic)
	}
	return nil
}
