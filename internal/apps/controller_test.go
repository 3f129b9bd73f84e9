package apps

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beive60/focus-game-deck-sub005/internal/domain"
)

func TestController_DispatchesToHandler(t *testing.T) {
	registry := NewRegistry()
	var invoked domain.AppProfile
	registry.Register(domain.VerbStartProcess, func(_ context.Context, app domain.AppProfile) (domain.ActionResult, error) {
		invoked = app
		return domain.ActionResult{Success: true}, nil
	})
	controller := NewController(registry)

	result := controller.Invoke(context.Background(), discordApp, domain.VerbStartProcess)

	assert.True(t, result.Success)
	assert.Equal(t, "discord", invoked.ID)
}

func TestController_HandlerErrorBecomesFailedResult(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.VerbStartProcess, func(context.Context, domain.AppProfile) (domain.ActionResult, error) {
		return domain.ActionResult{}, fmt.Errorf("executable missing")
	})
	controller := NewController(registry)

	result := controller.Invoke(context.Background(), discordApp, domain.VerbStartProcess)

	assert.False(t, result.Success)
	assert.False(t, result.AlreadyInDesiredState)
}

func TestController_HandlerPanicIsAbsorbed(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.VerbToggleHotkeys, func(context.Context, domain.AppProfile) (domain.ActionResult, error) {
		panic("handler exploded")
	})
	controller := NewController(registry)

	assert.NotPanics(t, func() {
		result := controller.Invoke(context.Background(), discordApp, domain.VerbToggleHotkeys)
		assert.False(t, result.Success)
	})
}

func TestController_UnregisteredVerbFailsSafely(t *testing.T) {
	controller := NewController(NewRegistry())

	result := controller.Invoke(context.Background(), discordApp, domain.VerbStopProcess)

	assert.False(t, result.Success)
}
