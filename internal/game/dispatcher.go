package game

import (
	"context"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// Dispatcher is what the arena engine and admin controls need from the sync
// loop: dispatch an action into the store and read the current state.
type Dispatcher interface {
	Dispatch(ctx context.Context, action Action) models.GameStore
	State() models.GameStore
}
