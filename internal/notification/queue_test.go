package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(8)

	assert.True(t, q.TryEnqueue(WorkItem{Subject: "A"}))
	assert.True(t, q.TryEnqueue(WorkItem{Subject: "B"}))
	assert.True(t, q.TryEnqueue(WorkItem{Subject: "C"}))
	assert.Equal(t, 3, q.Len())

	ctx := context.Background()
	for _, want := range []string{"A", "B", "C"} {
		item, err := q.Dequeue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, want, item.Subject)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2)

	assert.True(t, q.TryEnqueue(WorkItem{Subject: "A"}))
	assert.True(t, q.TryEnqueue(WorkItem{Subject: "B"}))

	// The producer is never blocked: overflow is dropped, not queued.
	assert.False(t, q.TryEnqueue(WorkItem{Subject: "C"}))
	assert.Equal(t, 2, q.Len())

	item, err := q.Dequeue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "A", item.Subject)

	assert.True(t, q.TryEnqueue(WorkItem{Subject: "D"}))
}

func TestQueue_DequeueUnblocksOnCancel(t *testing.T) {
	q := NewQueue(2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not unblock on context cancellation")
	}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < DefaultQueueCapacity; i++ {
		assert.True(t, q.TryEnqueue(WorkItem{}))
	}
	assert.False(t, q.TryEnqueue(WorkItem{}))
}
