package engine

import (
	"github.com/pixil98/go-fiction/internal/bundle"
	"github.com/pixil98/go-fiction/internal/event"
	"github.com/pixil98/go-fiction/internal/storage"
	"github.com/pixil98/go-fiction/internal/world"
)

// Definition is everything needed to start one game: its identity, its
// definition stores, and an optional setup hook where the game swaps in
// custom impls and registers listeners.
type Definition struct {
	Spec     *world.GameSpec
	Rooms    storage.Storer[*world.RoomSpec]
	Entities storage.Storer[*world.EntitySpec]

	// Passages is the game's prose provider, nil when the game keeps all
	// text in its definitions.
	Passages bundle.Provider

	// Setup runs after the world is built and before the opening look.
	Setup func(s world.Session, w *world.World, ev *event.Manager) error
}

// Library resolves game names to definitions. Loading a save looks the
// game up here; a save naming an unknown game cannot be restored.
type Library interface {
	Game(name string) (*Definition, bool)
}

// MapLibrary is the trivial in-memory Library.
type MapLibrary map[string]*Definition

func (l MapLibrary) Game(name string) (*Definition, bool) {
	d, ok := l[name]
	return d, ok
}
