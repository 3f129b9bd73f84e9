package obs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beive60/focus-game-deck-sub005/internal/platform/retry"
)

// Connection sends one request over an authenticated link. *Service
// satisfies it; tests substitute fakes.
type Connection interface {
	Request(ctx context.Context, requestType string, data any) (json.RawMessage, error)
}

// Job is a single fire-and-forget request.
type Job struct {
	Name        string
	RequestType string
	Data        any
}

// DispatcherOptions configure the background job dispatcher.
type DispatcherOptions struct {
	Connection Connection
	// StartDelay holds each job back before its first attempt, giving a
	// freshly launched OBS time to bring its websocket server up.
	StartDelay time.Duration
	Retry      retry.Policy
	Clock      clockwork.Clock
}

// Dispatcher runs jobs in the background so callers never wait on OBS
// readiness. A job outlives its submitter's cancellation but dies with the
// dispatcher, and a job that exhausts its retries is never re-run.
type Dispatcher struct {
	conn   Connection
	delay  time.Duration
	policy retry.Policy
	clock  clockwork.Clock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = 3
	}
	if opts.Retry.InitialBackoff <= 0 {
		opts.Retry.InitialBackoff = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		conn:   opts.Connection,
		delay:  opts.StartDelay,
		policy: opts.Retry,
		clock:  opts.Clock,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit schedules a job and returns immediately. The job keeps the
// submitter's log values but detaches from its cancellation; only a
// dispatcher shutdown stops it early.
func (d *Dispatcher) Submit(ctx context.Context, job Job) {
	select {
	case <-d.ctx.Done():
		slog.WarnContext(ctx, "Dropping job submitted after dispatcher shutdown", "job", job.Name)
		return
	default:
	}

	jobCtx, cancelJob := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(d.ctx, cancelJob)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer stop()
		defer cancelJob()
		d.run(jobCtx, job)
	}()
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	if d.delay > 0 {
		timer := d.clock.NewTimer(d.delay)
		defer timer.Stop()
		select {
		case <-timer.Chan():
		case <-ctx.Done():
			slog.InfoContext(ctx, "Job cancelled before start delay elapsed", "job", job.Name)
			return
		}
	}

	policy := d.policy
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
			slog.WarnContext(ctx, "Job attempt failed, backing off",
				"job", job.Name, "attempt", attempt, "backoff", backoff, "error", err)
		}
	}

	err := retry.DoVoid(ctx, policy, classifyJobError, func() error {
		_, err := d.conn.Request(ctx, job.RequestType, job.Data)
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "Job failed", "job", job.Name, "error", err)
		return
	}
	slog.InfoContext(ctx, "Job completed", "job", job.Name)
}

// classifyJobError separates the transient startup window (OBS not yet
// listening, connection dropped mid-handshake at the TCP level) from
// failures that retrying cannot fix: a rejected Identify, a request the
// server refused, or a deliberate close.
func classifyJobError(err error) retry.Action {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return retry.Stop
	case errors.Is(err, ErrHandshake), errors.Is(err, ErrClosed):
		return retry.Stop
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retry.Stop
	default:
		return retry.Retry
	}
}

// Shutdown cancels outstanding jobs and waits for their goroutines, bounded
// by ctx so process exit is never held hostage.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher shutdown: %w", ctx.Err())
	}
}
