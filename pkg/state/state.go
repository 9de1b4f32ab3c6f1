package state

import (
	"context"

	"github.com/cbodonnell/rewind/pkg/game/types"
)

// StateManager provides shared access to the published game view.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current game view.
	Get(ctx context.Context) (*types.GameView, error)
	// Set replaces the current game view.
	Set(ctx context.Context, view *types.GameView) error
}
