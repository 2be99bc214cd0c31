package notification

import (
	"context"

	"go.uber.org/zap"
)

const DefaultQueueCapacity = 1024

// Queue is the bounded in-memory buffer between event emission and delivery.
// Enqueue never blocks and never fails the caller: when the buffer is full
// the item is logged and dropped, because notification delivery is
// best-effort and must not touch the business write path.
type Queue struct {
	ch     chan WorkItem
	logger *zap.Logger
}

func NewQueue(capacity int, logger ...*zap.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	l := zap.L().Named("notification.queue")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.queue")
	}
	return &Queue{
		ch:     make(chan WorkItem, capacity),
		logger: l,
	}
}

// TryEnqueue reports whether the item was accepted. A false return means the
// item was dropped; callers must not treat that as an error.
func (q *Queue) TryEnqueue(item WorkItem) bool {
	select {
	case q.ch <- item:
		return true
	default:
		q.logger.Warn("notification queue full, dropping item",
			zap.String("recipient_id", item.RecipientID),
			zap.String("subject", item.Subject),
		)
		return false
	}
}

// Dequeue blocks until an item is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (WorkItem, error) {
	select {
	case item := <-q.ch:
		return item, nil
	case <-ctx.Done():
		return WorkItem{}, ctx.Err()
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}
