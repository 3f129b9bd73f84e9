package apps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

// Controller executes one verb against one managed application. It is the
// absorption boundary for integration failures: handler errors and panics
// are logged with application id and verb and converted into Success=false,
// so Setup and ShuttingDown sequences always proceed to the next item.
type Controller struct {
	registry *Registry
}

// NewController creates a controller dispatching through the registry.
func NewController(registry *Registry) *Controller {
	return &Controller{registry: registry}
}

// Invoke implements domain.ActionInvoker.
func (c *Controller) Invoke(ctx context.Context, app domain.AppProfile, verb domain.Verb) domain.ActionResult {
	handler, ok := c.registry.Handler(verb)
	if !ok {
		// Registry.Validate runs before every session; reaching this means a
		// handler was unregistered afterwards.
		slog.ErrorContext(ctx, "No handler registered for verb", "app", app.ID, "verb", verb)
		return domain.ActionResult{}
	}

	result, err := c.run(ctx, handler, app)
	if err != nil {
		slog.WarnContext(ctx, "Managed application action failed",
			"app", app.ID, "verb", verb, "error", err)
		return domain.ActionResult{}
	}

	slog.DebugContext(ctx, "Managed application action completed",
		"app", app.ID, "verb", verb, "already_in_desired_state", result.AlreadyInDesiredState)
	return result
}

// run shields the caller from handler panics.
func (c *Controller) run(ctx context.Context, handler HandlerFunc, app domain.AppProfile) (result domain.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.ActionResult{}
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, app)
}
