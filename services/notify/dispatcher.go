package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"go.uber.org/zap"
)

// Notification is one completion event to deliver
type Notification struct {
	UserID    string                  `json:"user_id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	RequestID string                  `json:"request_id,omitempty"`
}

// Notifier posts a notification to a resolved channel. Delivery is an
// external boundary; this package only hands it a destination.
type Notifier interface {
	Post(ctx context.Context, channel string, n Notification) error
}

// Dispatcher delivers notifications off the response path. Dispatch is
// fire-and-forget: a delivery failure never alters the result already
// returned for the primary action, and each target gets a single attempt.
type Dispatcher struct {
	router   *Router
	notifier Notifier
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher instance
func NewDispatcher(router *Router, notifier Notifier, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		router:   router,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// DispatchAsync resolves targets and delivers in a background goroutine.
// It returns immediately; the caller's response never waits on delivery.
func (d *Dispatcher) DispatchAsync(n Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.dispatch(ctx, n)
	}()
}

// Dispatch resolves targets and delivers synchronously. Used by scheduled
// digest callers that manage their own concurrency.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	d.dispatch(ctx, n)
}

func (d *Dispatcher) dispatch(ctx context.Context, n Notification) {
	targets, err := d.router.ResolveTargets(ctx, n.UserID, n.Type)
	if err != nil {
		d.logger.Warn("notification target resolution failed",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		return
	}
	if len(targets) == 0 {
		d.logger.Debug("no notification targets, skipping delivery",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)))
		return
	}

	for _, channel := range targets {
		// Single best-effort attempt per target, no retries.
		if err := d.notifier.Post(ctx, channel, n); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("user_id", n.UserID),
				zap.String("type", string(n.Type)),
				zap.String("channel", channel),
				zap.Error(err))
			continue
		}
		d.logger.Debug("notification delivered",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.String("channel", channel))
	}
}

// Drain waits for in-flight deliveries, bounded by ctx. Called on shutdown.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
