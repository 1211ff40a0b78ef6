package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/google/uuid"
)

const defaultHandlerTimeout = 10 * time.Second

// Dispatcher is a bounded fire-and-forget queue drained by a fixed set of
// workers. Handler errors and panics are logged and dropped.
type Dispatcher struct {
	notifier       Notifier
	metrics        Metrics
	logger         logging.Logger
	queue          chan NewAccountEvent
	workers        int
	handlerTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(n Notifier, m Metrics, l logging.Logger, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		notifier:       n,
		metrics:        m,
		logger:         l.With("module", "dispatcher"),
		queue:          make(chan NewAccountEvent, queueSize),
		workers:        workers,
		handlerTimeout: defaultHandlerTimeout,
	}
}

// Start launches the workers. They exit once Close has been called and
// the queue is drained; ctx is the parent for every handler call.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for ev := range d.queue {
				d.handle(ctx, ev)
			}
		}()
	}
}

// Submit enqueues ev without blocking. It returns false when the event was
// dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Submit(ev NewAccountEvent) bool {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn(context.Background(), "dispatcher closed, event dropped", "event_id", ev.ID)
		return false
	}

	select {
	case d.queue <- ev:
		return true
	default:
		d.logger.Warn(context.Background(), "dispatch queue full, event dropped", "event_id", ev.ID)
		return false
	}
}

// Close stops accepting events and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) handle(parent context.Context, ev NewAccountEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.handlerTimeout)
	defer cancel()

	log := d.logger.With("event_id", ev.ID, "account_id", ev.AccountID)

	if err := safeCall(func() error {
		return d.notifier.NotifyNewAccount(ctx, ev.Email, ev.DisplayName, ev.OneTimeSecret)
	}); err != nil {
		log.Warn(ctx, "failed to deliver welcome notification", "error", err)
	}

	if err := safeCall(func() error {
		d.metrics.IncSignup()
		return nil
	}); err != nil {
		log.Warn(ctx, "failed to update signup metrics", "error", err)
	}
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}
