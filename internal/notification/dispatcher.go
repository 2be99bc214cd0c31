package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher is the single background consumer of the queue. Items are
// dequeued in FIFO order; the channel sends for one item run concurrently
// and a failure on one channel never blocks another. Nothing is retried
// here: retry policy, if any, belongs to the channel adapter.
type Dispatcher struct {
	queue    *Queue
	channels []Channel
	logger   *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewDispatcher(queue *Queue, channels []Channel, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{
		queue:    queue,
		channels: channels,
		logger:   l,
		done:     make(chan struct{}),
	}
}

// Start launches the consumer loop. Safe to call once; the loop runs until
// Stop is called or the parent context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		d.cancel = cancel

		go func() {
			defer close(d.done)
			d.logger.Info("notification dispatcher started",
				zap.Int("channels", len(d.channels)),
			)
			for {
				item, err := d.queue.Dequeue(loopCtx)
				if err != nil {
					// Context cancelled: abandon whatever is still queued.
					// Notifications are not persisted, this is the documented
					// data-loss mode on shutdown.
					d.logger.Info("notification dispatcher stopped",
						zap.Int("abandoned", d.queue.Len()),
					)
					return
				}
				d.dispatch(loopCtx, item)
			}
		}()
	})
}

// Stop cancels the consumer loop and waits for the in-flight item to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}
		<-d.done
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, item WorkItem) {
	var wg sync.WaitGroup
	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := ch.Send(ctx, item); err != nil {
				d.logger.Error("notification send failed",
					zap.String("channel", ch.Name()),
					zap.String("recipient_id", item.RecipientID),
					zap.String("subject", item.Subject),
					zap.Error(err),
				)
				return
			}
			d.logger.Debug("notification sent",
				zap.String("channel", ch.Name()),
				zap.String("recipient_id", item.RecipientID),
			)
		}(ch)
	}
	wg.Wait()
}
