// Package save persists per-player game state. Load never fails a
// session open: a malformed or missing blob comes back as a fresh
// default with ok=false.
package save

import (
	"context"

	"idlepost/internal/model"
)

type Repo interface {
	// Load returns the stored state for the player. ok is false when no
	// usable save exists; the returned state is then a fresh default.
	Load(ctx context.Context, playerID string) (state model.GameState, ok bool, err error)
	// Save replaces the stored state for the player.
	Save(ctx context.Context, playerID string, state model.GameState) error
	// Delete removes the stored state, used by hard resets and restores.
	Delete(ctx context.Context, playerID string) error
}
