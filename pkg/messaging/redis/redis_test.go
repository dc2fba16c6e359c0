package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	n := NewNotifierFromClient(client, zerolog.Nop())
	t.Cleanup(func() { n.Close() })
	return n
}

func TestNotifyReachesListener(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices, err := n.Listen(ctx, "practice:owner-1:appointments")
	require.NoError(t, err)

	require.NoError(t, n.Notify(ctx, "practice:owner-1:appointments"))

	select {
	case _, ok := <-notices:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("notice not delivered")
	}
}

func TestListenIgnoresOtherTopics(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices, err := n.Listen(ctx, "practice:owner-1:journal")
	require.NoError(t, err)

	require.NoError(t, n.Notify(ctx, "practice:owner-2:journal"))

	select {
	case <-notices:
		t.Fatal("unexpected notice")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestListenClosesOnCancel(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	notices, err := n.Listen(ctx, "practice:owner-1:patients")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-notices:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("listener not released")
	}
}

func TestPing(t *testing.T) {
	srv := miniredis.RunT(t)
	n := NewNotifierFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}), zerolog.Nop())
	defer n.Close()

	assert.NoError(t, n.Ping(context.Background()))

	srv.Close()
	assert.Error(t, n.Ping(context.Background()))
}

func TestCancelledNotifyDoesNotTripBreaker(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices, err := n.Listen(ctx, "practice:owner-1:patients")
	require.NoError(t, err)

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	for i := 0; i < 6; i++ {
		assert.Error(t, n.Notify(cancelled, "practice:owner-1:patients"))
	}

	require.NoError(t, n.Notify(context.Background(), "practice:owner-1:patients"))
	select {
	case <-notices:
	case <-time.After(2 * time.Second):
		t.Fatal("notice not delivered")
	}
}
