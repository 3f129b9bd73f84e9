package logctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

type sessionKey struct{}

type componentKey struct{}

// NewSessionID generates an 8-character hex session ID (4 random bytes).
func NewSessionID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithSession returns a new context carrying the given session ID.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID extracts the session ID from ctx, returning ("", false) if not present.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

// WithComponent returns a new context tagging log records with a component name.
func WithComponent(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, componentKey{}, name)
}

// Component extracts the component name from ctx, returning ("", false) if not present.
func Component(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(componentKey{}).(string)
	return name, ok && name != ""
}

// Handler wraps an existing slog.Handler to automatically inject "session_id"
// and "component" attributes when the context carries them.
type Handler struct {
	inner slog.Handler
}

// NewHandler creates a context-aware handler wrapping the given handler.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := SessionID(ctx); ok {
		r.AddAttrs(slog.String("session_id", id))
	}
	if name, ok := Component(ctx); ok {
		r.AddAttrs(slog.String("component", name))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("logctx handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
