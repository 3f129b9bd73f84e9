package obs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// State of a remote control connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHello
	StateAwaitingIdentified
	StateReady
	StateClosed
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingHello:
		return "awaiting-hello"
	case StateAwaitingIdentified:
		return "awaiting-identified"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrClosed fails requests on a connection that was closed on purpose.
var ErrClosed = errors.New("connection closed")

// ErrHandshake marks dial failures past the TCP/upgrade stage: a missing or
// malformed Hello, a rejected Identify, or the handshake deadline expiring.
// These do not heal by retrying, unlike a refused dial while OBS boots.
var ErrHandshake = errors.New("handshake failed")

const (
	writeTimeout      = 5 * time.Second
	writeBufferFrames = 16

	defaultHandshakeTimeout = 5 * time.Second
	defaultRequestTimeout   = 10 * time.Second
)

// Options configure one connection to the obs-websocket server.
type Options struct {
	URL              string
	Password         string
	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	Clock            clockwork.Clock
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

type requestOutcome struct {
	response requestResponsePayload
	err      error
}

// Client is one authenticated obs-websocket v5 connection. The writer
// goroutine owns all frame writes; the reader goroutine dispatches
// RequestResponse frames into the pending table, which is the only state
// shared between flows and supports enqueue, match-by-id, and remove.
type Client struct {
	conn           *websocket.Conn
	clock          clockwork.Clock
	requestTimeout time.Duration
	negotiatedRPC  int

	stateMu sync.Mutex
	state   State

	writeCh   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	writerWg  sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[string]chan requestOutcome
}

// Dial connects and runs the Hello/Identify/Identified handshake. The whole
// exchange is bounded by the handshake timeout; no reply, a different
// opcode, or a rejected Identify closes the socket and fails the dial.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	opts = opts.withDefaults()

	c := &Client{
		clock:          opts.Clock,
		requestTimeout: opts.RequestTimeout,
		state:          StateConnecting,
		writeCh:        make(chan []byte, writeBufferFrames),
		closed:         make(chan struct{}),
		pending:        make(map[string]chan requestOutcome),
	}

	dialer := &websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		c.setState(StateDisconnected)
		return nil, fmt.Errorf("dialing %s: %w", opts.URL, err)
	}
	c.conn = conn

	if err := c.handshake(opts); err != nil {
		c.setState(StateFaulted)
		_ = conn.Close()
		return nil, err
	}

	c.setState(StateReady)
	c.writerWg.Add(1)
	go c.writeLoop()
	go c.readLoop()
	return c, nil
}

// handshake drives the client side of the identification exchange under a
// single deadline shared by all three legs.
func (c *Client) handshake(opts Options) error {
	deadline := c.clock.Now().Add(opts.HandshakeTimeout)
	_ = c.conn.SetReadDeadline(deadline)
	_ = c.conn.SetWriteDeadline(deadline)

	c.setState(StateAwaitingHello)
	env, err := c.readEnvelope()
	if err != nil {
		return fmt.Errorf("%w: reading hello: %v", ErrHandshake, err)
	}
	if env.Op != opHello {
		return fmt.Errorf("%w: expected hello (op %d), got op %d", ErrHandshake, opHello, env.Op)
	}
	var hello helloData
	if err := json.Unmarshal(env.D, &hello); err != nil {
		return fmt.Errorf("%w: decoding hello: %v", ErrHandshake, err)
	}

	identify := identifyData{RPCVersion: rpcVersion}
	if hello.Authentication != nil {
		identify.Authentication = authResponse(opts.Password, hello.Authentication.Salt, hello.Authentication.Challenge)
	}
	frame, err := encodeEnvelope(opIdentify, identify)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("%w: sending identify: %v", ErrHandshake, err)
	}

	c.setState(StateAwaitingIdentified)
	env, err = c.readEnvelope()
	if err != nil {
		return fmt.Errorf("%w: reading identified: %v", ErrHandshake, err)
	}
	if env.Op != opIdentified {
		return fmt.Errorf("%w: expected identified (op %d), got op %d", ErrHandshake, opIdentified, env.Op)
	}
	var identified identifiedData
	if err := json.Unmarshal(env.D, &identified); err != nil {
		return fmt.Errorf("%w: decoding identified: %v", ErrHandshake, err)
	}
	c.negotiatedRPC = identified.NegotiatedRPCVersion

	// Steady state: reads block until a frame arrives, writes get their own
	// per-frame deadline in the write loop.
	_ = c.conn.SetReadDeadline(time.Time{})
	_ = c.conn.SetWriteDeadline(time.Time{})
	return nil
}

func (c *Client) readEnvelope() (envelope, error) {
	var env envelope
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, nil
}

// State returns the connection state.
func (c *Client) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// NegotiatedRPCVersion reports the protocol revision from Identified.
func (c *Client) NegotiatedRPCVersion() int {
	return c.negotiatedRPC
}

// Request sends one request and blocks until the correlated response, the
// request timeout, or cancellation. Responses may arrive in any order;
// correlation is strictly by request id. Valid only in the Ready state.
func (c *Client) Request(ctx context.Context, requestType string, data any) (json.RawMessage, error) {
	if c.State() != StateReady {
		return nil, domain.ErrNotConnected
	}

	id := uuid.NewString()
	outcome := make(chan requestOutcome, 1)
	c.addPending(id, outcome)
	defer c.removePending(id)

	frame, err := encodeEnvelope(opRequest, requestPayload{
		RequestType: requestType,
		RequestID:   id,
		RequestData: data,
	})
	if err != nil {
		return nil, err
	}

	select {
	case c.writeCh <- frame:
	case <-c.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timer := c.clock.NewTimer(c.requestTimeout)
	defer timer.Stop()

	select {
	case out := <-outcome:
		if out.err != nil {
			return nil, out.err
		}
		if !out.response.RequestStatus.Result {
			return nil, &RequestError{
				Code:    out.response.RequestStatus.Code,
				Comment: out.response.RequestStatus.Comment,
			}
		}
		return out.response.ResponseData, nil
	case <-timer.Chan():
		return nil, fmt.Errorf("request %s timed out after %v", requestType, c.requestTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close is idempotent: it sends a close frame after the writer goroutine has
// drained out, closes the socket, and fails every pending request. The once
// guards only the state flip, so a write loop failing concurrently is never
// stuck behind the writer wait.
func (c *Client) Close() error {
	if c.shutdown(StateClosed) {
		c.writerWg.Wait()
		_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeTimeout))
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteMessage(websocket.CloseMessage, msg)
		_ = c.conn.Close()
	}
	c.failPending(ErrClosed)
	return nil
}

// fail transitions to Faulted after a socket error. Unlike Close it never
// writes a close frame: the read and write loops call it and the socket is
// already unusable.
func (c *Client) fail(err error) {
	if c.shutdown(StateFaulted) {
		_ = c.conn.Close()
	}
	c.failPending(err)
}

// shutdown performs the one-time transition out of Ready, reporting whether
// this caller won it and owns the socket teardown.
func (c *Client) shutdown(to State) bool {
	won := false
	c.closeOnce.Do(func() {
		won = true
		c.setState(to)
		close(c.closed)
	})
	return won
}

func (c *Client) readLoop() {
	for {
		env, err := c.readEnvelope()
		if err != nil {
			c.fail(fmt.Errorf("connection lost: %w", err))
			return
		}
		switch env.Op {
		case opRequestResponse:
			var payload requestResponsePayload
			if err := json.Unmarshal(env.D, &payload); err != nil {
				slog.Warn("Discarding malformed request response", "error", err)
				continue
			}
			c.resolve(payload)
		case opEvent:
			// This client subscribes to no events; tolerate strays.
		default:
			slog.Debug("Ignoring unexpected opcode", "op", env.Op)
		}
	}
}

func (c *Client) writeLoop() {
	defer c.writerWg.Done()
	for {
		select {
		case frame := <-c.writeCh:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.fail(fmt.Errorf("write failed: %w", err))
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Client) addPending(id string, ch chan requestOutcome) {
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
}

func (c *Client) removePending(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// resolve hands a response to its waiting requester. A response nobody
// waits for (the requester timed out or was cancelled) is dropped.
func (c *Client) resolve(payload requestResponsePayload) {
	c.pendingMu.Lock()
	ch, ok := c.pending[payload.RequestID]
	if ok {
		delete(c.pending, payload.RequestID)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- requestOutcome{response: payload}
	}
}

func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan requestOutcome)
	c.pendingMu.Unlock()
	for _, ch := range pending {
		ch <- requestOutcome{err: err}
	}
}
