// Package mail delivers notifications outside the request path: a bounded
// in-memory queue drained by worker goroutines that retry failed sends.
package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/metrics"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
)

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)

// Sender performs a single delivery attempt.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// DispatcherConfig sizes the dispatcher.
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	MaxRetries  uint64
	BaseBackoff time.Duration
}

type Dispatcher struct {
	sender  Sender
	cfg     DispatcherConfig
	logger  logging.Logger
	metrics *metrics.Metrics

	queue chan models.Notification
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, logger logging.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	return &Dispatcher{
		sender:  sender,
		cfg:     cfg,
		logger:  logger.With("module", "mail"),
		metrics: m,
		queue:   make(chan models.Notification, cfg.QueueSize),
	}
}

// Start launches the workers. Cancelling ctx aborts in-flight retries; the
// workers themselves exit once Close has drained the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for n := range d.queue {
				d.deliver(ctx, n)
			}
		}()
	}
}

// Enqueue schedules n for delivery and never blocks. An empty ID is filled
// with a ULID.
func (d *Dispatcher) Enqueue(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = ulid.Make().String()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- n:
		d.logger.Debug(ctx, "notification queued", "id", n.ID, "recipient", n.Recipient)
		return nil
	default:
		d.metrics.RecordMailDelivery(metrics.ResultDropped)
		d.logger.Warn(ctx, "notification dropped", "id", n.ID, "recipient", n.Recipient, "reason", "queue full")
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits until the workers have
// processed everything already queued. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, n models.Notification) {
	backoff := retry.WithMaxRetries(d.cfg.MaxRetries, retry.NewExponential(d.cfg.BaseBackoff))

	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := d.sender.Send(ctx, n); err != nil {
			d.logger.Debug(ctx, "notification attempt failed", "id", n.ID, "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		d.metrics.RecordMailDelivery(metrics.ResultFailure)
		d.logger.Error(ctx, "notification delivery failed",
			"id", n.ID, "recipient", n.Recipient, "attempts", attempts, "error", err)
		return
	}

	d.metrics.RecordMailDelivery(metrics.ResultSuccess)
	d.logger.Info(ctx, "notification delivered", "id", n.ID, "recipient", n.Recipient)
}
