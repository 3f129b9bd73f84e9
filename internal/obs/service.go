package obs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Service multiplexes callers onto one Client, dialing on first use.
// Concurrent first requests collapse into a single handshake, and a
// connection that faulted is replaced on the next request.
type Service struct {
	opts  Options
	group singleflight.Group

	mu     sync.Mutex
	client *Client
}

func NewService(opts Options) *Service {
	return &Service{opts: opts.withDefaults()}
}

// Request sends one request over the shared connection, dialing it first if
// none is live.
func (s *Service) Request(ctx context.Context, requestType string, data any) (json.RawMessage, error) {
	client, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	return client.Request(ctx, requestType, data)
}

// Ready reports whether a live connection is currently held.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil && s.client.State() == StateReady
}

func (s *Service) conn(ctx context.Context) (*Client, error) {
	s.mu.Lock()
	if s.client != nil && s.client.State() == StateReady {
		client := s.client
		s.mu.Unlock()
		return client, nil
	}
	s.mu.Unlock()

	// The flight function re-checks under the lock so late losers of the
	// race reuse the winner's connection instead of dialing their own.
	v, err, _ := s.group.Do("dial", func() (any, error) {
		s.mu.Lock()
		if s.client != nil && s.client.State() == StateReady {
			client := s.client
			s.mu.Unlock()
			return client, nil
		}
		stale := s.client
		s.mu.Unlock()

		if stale != nil {
			_ = stale.Close()
			slog.InfoContext(ctx, "Replacing faulted remote control connection", "url", s.opts.URL)
		}

		client, err := Dial(ctx, s.opts)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.client = client
		s.mu.Unlock()
		slog.InfoContext(ctx, "Remote control connected", "url", s.opts.URL, "rpc_version", client.NegotiatedRPCVersion())
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}

// Close tears down the shared connection if one is live. The service can be
// used again afterwards; the next request dials fresh.
func (s *Service) Close() error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}
