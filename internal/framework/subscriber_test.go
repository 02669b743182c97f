package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qms/qcsync/pkg/logger"
)

func TestSubscriber_ForwardsMessages(t *testing.T) {
	q := newFakeQueue(
		&Message{ID: "1", Queue: "q"},
		&Message{ID: "2", Queue: "q"},
		&Message{ID: "3", Queue: "q"},
	)
	cfg := &SubscriberConfig{
		QueueName:    "q",
		Concurrency:  2,
		Rate:         time.Millisecond,
		ErrorBackoff: time.Millisecond,
	}
	inputChan := make(chan *Message, 3)

	s := NewSubscriber(cfg, q, logger.NewNopLogger())
	require.NoError(t, s.Start(context.Background(), inputChan))

	got := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case msg := <-inputChan:
			got[msg.ID] = true
		case <-timeout:
			t.Fatalf("only received %d messages", len(got))
		}
	}

	s.Stop()
	s.Wait()

	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, got)
}

func TestSubscriber_StopWhileIdle(t *testing.T) {
	q := newFakeQueue()
	cfg := &SubscriberConfig{QueueName: "q", Concurrency: 1, Rate: time.Millisecond, ErrorBackoff: time.Millisecond}

	s := NewSubscriber(cfg, q, logger.NewNopLogger())
	require.NoError(t, s.Start(context.Background(), make(chan *Message)))

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not exit")
	}
}

func TestSubscriber_StopBeforeStart(t *testing.T) {
	q := newFakeQueue(&Message{ID: "1", Queue: "q"})
	cfg := &SubscriberConfig{QueueName: "q", Concurrency: 2, Rate: time.Millisecond, ErrorBackoff: time.Millisecond}

	s := NewSubscriber(cfg, q, logger.NewNopLogger())
	s.Stop()
	require.NoError(t, s.Start(context.Background(), make(chan *Message, 1)))

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber started after stop")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	assert.Equal(t, 0, q.consumeN)
	assert.Len(t, q.pending, 1)
}
