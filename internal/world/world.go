package world

import (
	"fmt"

	"github.com/pixil98/go-fiction/internal/attr"
)

// World owns every object of one game session, indexed by ID. It is built
// fresh for a new game, rebuilt and then patched for a loaded one, and
// discarded wholesale when the session closes.
type World struct {
	Registry *attr.Registry
	Sys      SystemAttrs

	rooms    map[string]*Room
	entities map[string]*Entity
	player   *Player
}

// NewWorld creates an empty world sharing the engine's registry. The
// registry must already carry the frozen system attributes.
func NewWorld(reg *attr.Registry, sys SystemAttrs) *World {
	return &World{
		Registry: reg,
		Sys:      sys,
		rooms:    make(map[string]*Room),
		entities: make(map[string]*Entity),
		player:   NewPlayer(),
	}
}

// AddRoom registers a room in the ID map.
func (w *World) AddRoom(r *Room) error {
	if _, ok := w.rooms[r.ID()]; ok {
		return fmt.Errorf("duplicate room id %q", r.ID())
	}
	w.rooms[r.ID()] = r
	return nil
}

// AddEntity registers an entity in the ID map.
func (w *World) AddEntity(e *Entity) error {
	if e.ID() == PlayerID {
		return fmt.Errorf("entity id %q is reserved", PlayerID)
	}
	if _, ok := w.entities[e.ID()]; ok {
		return fmt.Errorf("duplicate entity id %q", e.ID())
	}
	w.entities[e.ID()] = e
	return nil
}

// Room returns the room with the given ID, or nil.
func (w *World) Room(id string) *Room {
	return w.rooms[id]
}

// Entity returns the entity with the given ID, or nil.
func (w *World) Entity(id string) *Entity {
	return w.entities[id]
}

// Rooms returns the room ID map. Callers must not mutate it.
func (w *World) Rooms() map[string]*Room {
	return w.rooms
}

// Entities returns the entity ID map. Callers must not mutate it.
func (w *World) Entities() map[string]*Entity {
	return w.entities
}

// Player returns the singleton player.
func (w *World) Player() *Player {
	return w.player
}

// Lookup resolves an object ID to its container, covering rooms, container
// entities, and the reserved player ID. Used when snapshots are patched
// back in by ID.
func (w *World) Lookup(id string) (Container, bool) {
	if id == PlayerID {
		return w.player, true
	}
	if r, ok := w.rooms[id]; ok {
		return r, true
	}
	if e, ok := w.entities[id]; ok {
		return e, true
	}
	return nil, false
}
