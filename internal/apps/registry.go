package apps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
)

// HandlerFunc implements one verb against one managed application. A handler
// returns an error for anything that should degrade the integration; the
// Controller turns it into a logged Success=false result.
type HandlerFunc func(ctx context.Context, app domain.AppProfile) (domain.ActionResult, error)

// Registry maps verbs to handlers. The verb set is closed, so a fully
// populated registry is exhaustive; Validate is the pre-session check that
// every configured verb actually has a handler behind it.
type Registry struct {
	handlers map[domain.Verb]HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.Verb]HandlerFunc)}
}

// Register binds a handler to a verb, replacing any previous binding.
func (r *Registry) Register(verb domain.Verb, handler HandlerFunc) {
	r.handlers[verb] = handler
}

// Handler resolves the handler for a verb.
func (r *Registry) Handler(verb domain.Verb) (HandlerFunc, bool) {
	h, ok := r.handlers[verb]
	return h, ok
}

// Validate reports a configuration error when any of the given verbs has no
// registered handler. Called once per session, before Setup, so a missing
// handler is never discovered mid-sequence.
func (r *Registry) Validate(verbs []domain.Verb) error {
	var missing []string
	seen := make(map[domain.Verb]struct{}, len(verbs))
	for _, verb := range verbs {
		if _, dup := seen[verb]; dup {
			continue
		}
		seen[verb] = struct{}{}
		if _, ok := r.handlers[verb]; !ok {
			missing = append(missing, string(verb))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.Configuration(
		fmt.Sprintf("no handler registered for verbs: %s", strings.Join(missing, ", ")))
}

// SessionVerbs collects the startup and shutdown verbs of every application
// a game references, for Validate.
func SessionVerbs(game domain.GameProfile, apps map[string]domain.AppProfile) []domain.Verb {
	verbs := make([]domain.Verb, 0, 2*len(game.Apps))
	for _, ref := range game.Apps {
		app, ok := apps[ref]
		if !ok {
			continue
		}
		verbs = append(verbs, app.StartupVerb, app.ShutdownVerb)
	}
	return verbs
}
