package apps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
	apperrors "github.com/beive60/focus-game-deck-sub005/internal/errors"
)

func okHandler(context.Context, domain.AppProfile) (domain.ActionResult, error) {
	return domain.ActionResult{Success: true}, nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.VerbStartProcess, okHandler)

	_, ok := registry.Handler(domain.VerbStartProcess)
	assert.True(t, ok)

	_, ok = registry.Handler(domain.VerbStopProcess)
	assert.False(t, ok)
}

func TestRegistry_ValidateAcceptsRegisteredVerbs(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.VerbStartProcess, okHandler)
	registry.Register(domain.VerbStopProcess, okHandler)

	err := registry.Validate([]domain.Verb{domain.VerbStartProcess, domain.VerbStopProcess})
	assert.NoError(t, err)
}

func TestRegistry_ValidateRejectsUnregisteredVerb(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.VerbStartProcess, okHandler)

	err := registry.Validate([]domain.Verb{domain.VerbStartProcess, domain.VerbToggleHotkeys})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "toggle-hotkeys")
}

func TestRegistry_FullHandlerSetCoversClosedVerbSet(t *testing.T) {
	registry := NewRegistry()
	NewHandlers(NewLeases(&fakeSupervisor{}), &fakeRunner{}, nil).Register(registry)

	assert.NoError(t, registry.Validate(domain.Verbs()))
}

func TestSessionVerbs_CollectsFromReferencedApps(t *testing.T) {
	apps := map[string]domain.AppProfile{
		"obs":  {ID: "obs", StartupVerb: domain.VerbStartReplayBuffer, ShutdownVerb: domain.VerbStopReplayBuffer},
		"tool": {ID: "tool", StartupVerb: domain.VerbStartProcess, ShutdownVerb: domain.VerbStopProcess},
	}
	game := domain.GameProfile{ID: "game", Apps: []string{"obs", "tool"}}

	verbs := SessionVerbs(game, apps)
	assert.ElementsMatch(t, []domain.Verb{
		domain.VerbStartReplayBuffer, domain.VerbStopReplayBuffer,
		domain.VerbStartProcess, domain.VerbStopProcess,
	}, verbs)
}
