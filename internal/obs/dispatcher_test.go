package obs

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/beive60/focus-game-deck-sub005/internal/platform/retry"
)

type mockConnection struct {
	mu        sync.Mutex
	calls     []string
	requestFn func(ctx context.Context, requestType string, data any) (json.RawMessage, error)
}

func (m *mockConnection) Request(ctx context.Context, requestType string, data any) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, requestType)
	m.mu.Unlock()
	if m.requestFn != nil {
		return m.requestFn(ctx, requestType, data)
	}
	return nil, nil
}

func (m *mockConnection) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockConnection) callTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// leakCheck must be the first registration in a test: cleanups run LIFO, so
// it verifies goroutines only after servers and dispatchers shut down.
func leakCheck(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { goleak.VerifyNone(t) })
}

func newTestDispatcher(t *testing.T, opts DispatcherOptions) *Dispatcher {
	t.Helper()
	d := NewDispatcher(opts)
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })
	return d
}

func quickRetry(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, InitialBackoff: 5 * time.Millisecond}
}

func TestDispatcher_RunsJobAfterStartDelay(t *testing.T) {
	leakCheck(t)
	clock := clockwork.NewFakeClock()
	conn := &mockConnection{}
	d := newTestDispatcher(t, DispatcherOptions{
		Connection: conn,
		StartDelay: 5 * time.Second,
		Retry:      quickRetry(1),
		Clock:      clock,
	})

	d.Submit(context.Background(), Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})

	clock.BlockUntilContext(context.Background(), 1) //nolint:errcheck // wait for the job goroutine to park on the delay timer
	assert.Equal(t, 0, conn.callCount(), "job must not run before the delay elapses")

	clock.Advance(5 * time.Second)
	assert.Eventually(t, func() bool { return conn.callCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{RequestStartReplayBuffer}, conn.callTypes())
}

func TestDispatcher_SubmitNeverBlocks(t *testing.T) {
	leakCheck(t)
	conn := &mockConnection{
		requestFn: func(ctx context.Context, _ string, _ any) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	d := newTestDispatcher(t, DispatcherOptions{Connection: conn, Retry: quickRetry(1)})

	start := time.Now()
	d.Submit(context.Background(), Job{Name: "slow", RequestType: RequestGetVersion})
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDispatcher_RetriesWhileServerComesUp(t *testing.T) {
	leakCheck(t)
	f := newFakeOBS(t, fakeOBSOptions{autoRespond: true, refuseUpgrades: 2})
	service := NewService(Options{URL: f.url})
	t.Cleanup(func() { _ = service.Close() })

	d := newTestDispatcher(t, DispatcherOptions{Connection: service, Retry: quickRetry(5)})

	d.Submit(context.Background(), Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})

	assert.Eventually(t, func() bool { return f.identified.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), f.upgrades.Load(), "two refused attempts plus the successful one")
}

func TestDispatcher_AuthFailureStopsRetrying(t *testing.T) {
	leakCheck(t)
	f := newFakeOBS(t, fakeOBSOptions{password: "MyStreamKey2024"})
	service := NewService(Options{URL: f.url, Password: "wrong"})
	t.Cleanup(func() { _ = service.Close() })

	d := newTestDispatcher(t, DispatcherOptions{Connection: service, Retry: quickRetry(5)})

	d.Submit(context.Background(), Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})

	assert.Eventually(t, func() bool { return f.upgrades.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	// All retry backoffs would have elapsed by now; a permanent stop means
	// no further handshake attempts arrive.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), f.upgrades.Load())
	assert.Equal(t, int32(0), f.identified.Load())
}

func TestDispatcher_RejectedRequestIsNotRerun(t *testing.T) {
	leakCheck(t)
	conn := &mockConnection{
		requestFn: func(_ context.Context, _ string, _ any) (json.RawMessage, error) {
			return nil, &RequestError{Code: 500, Comment: "output already active"}
		},
	}
	d := newTestDispatcher(t, DispatcherOptions{Connection: conn, Retry: quickRetry(4)})

	d.Submit(context.Background(), Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})

	assert.Eventually(t, func() bool { return conn.callCount() == 1 }, time.Second, time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, conn.callCount())
}

func TestDispatcher_JobSurvivesSubmitterCancellation(t *testing.T) {
	leakCheck(t)
	conn := &mockConnection{}
	d := newTestDispatcher(t, DispatcherOptions{Connection: conn, Retry: quickRetry(1)})

	ctx, cancel := context.WithCancel(context.Background())
	d.Submit(ctx, Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})
	cancel()

	assert.Eventually(t, func() bool { return conn.callCount() == 1 }, time.Second, time.Millisecond)
}

func TestDispatcher_ShutdownCancelsDelayedJobs(t *testing.T) {
	leakCheck(t)
	clock := clockwork.NewFakeClock()
	conn := &mockConnection{}
	d := newTestDispatcher(t, DispatcherOptions{
		Connection: conn,
		StartDelay: time.Hour,
		Retry:      quickRetry(1),
		Clock:      clock,
	})

	d.Submit(context.Background(), Job{Name: "start-replay-buffer", RequestType: RequestStartReplayBuffer})
	clock.BlockUntilContext(context.Background(), 1) //nolint:errcheck

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 0, conn.callCount())
}

func TestDispatcher_SubmitAfterShutdownIsDropped(t *testing.T) {
	leakCheck(t)
	conn := &mockConnection{}
	d := newTestDispatcher(t, DispatcherOptions{Connection: conn, Retry: quickRetry(1)})

	require.NoError(t, d.Shutdown(context.Background()))
	d.Submit(context.Background(), Job{Name: "late", RequestType: RequestGetVersion})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, conn.callCount())
}

func TestDispatcher_ShutdownHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	conn := &mockConnection{
		requestFn: func(_ context.Context, _ string, _ any) (json.RawMessage, error) {
			<-release // ignores cancellation on purpose
			return nil, nil
		},
	}
	t.Cleanup(func() { close(release) })

	d := NewDispatcher(DispatcherOptions{Connection: conn, Retry: quickRetry(1)})
	d.Submit(context.Background(), Job{Name: "stuck", RequestType: RequestGetVersion})

	assert.Eventually(t, func() bool { return conn.callCount() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := d.Shutdown(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
