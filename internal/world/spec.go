package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fiction/internal/storage"
)

// GameSpec identifies a game definition loaded from asset files.
type GameSpec struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	StartRoom string `json:"start_room"`

	// Attributes are the game's own boolean flags, registered on top of
	// the engine's system attributes in declaration order.
	Attributes []string `json:"attributes,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (g *GameSpec) Validate() error {
	el := errors.NewErrorList()

	if g.Name == "" {
		el.Add(fmt.Errorf("game name is required"))
	}
	if g.Version == "" {
		el.Add(fmt.Errorf("game version is required"))
	}
	if g.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}

	seen := map[string]bool{}
	for _, a := range g.Attributes {
		if a == "" {
			el.Add(fmt.Errorf("attribute name cannot be empty"))
			continue
		}
		if seen[a] {
			el.Add(fmt.Errorf("duplicate attribute %q", a))
		}
		seen[a] = true
	}

	return el.Err()
}

// ExitSpec points one of a room's exit slots at a destination room.
type ExitSpec struct {
	RoomId string `json:"room_id"`
	Label  string `json:"label,omitempty"` // defaults to the direction name
}

// RoomSpec defines a room loaded from asset files.
type RoomSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Exits       map[string]ExitSpec `json:"exits,omitempty"` // direction -> destination

	// Ext carries config for custom room impls, keyed by impl name.
	Ext storage.ExtensionState `json:"ext,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *RoomSpec) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}

	for dir, exit := range r.Exits {
		if _, err := ParseDirection(dir); err != nil {
			el.Add(fmt.Errorf("exit %q: %w", dir, err))
		}
		if exit.RoomId == "" {
			el.Add(fmt.Errorf("exit %s: room_id is required", dir))
		}
	}

	return el.Err()
}

// DoorSpec makes an entity a two-sided connector between two rooms.
type DoorSpec struct {
	SideA string `json:"side_a"`
	SideB string `json:"side_b"`
}

// EntitySpec defines an entity loaded from asset files.
type EntitySpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Location is the ID of the room, container entity, or "player"
	// holding the entity at game start.
	Location string `json:"location,omitempty"`

	// Container marks the entity as able to hold other entities.
	Container bool `json:"container,omitempty"`

	// Attributes initially set on the entity, by name.
	Attributes []string `json:"attributes,omitempty"`

	Door *DoorSpec `json:"door,omitempty"`

	// Ext carries config for custom entity impls, keyed by impl name.
	// Doors read the "door" key for their starting hinge state.
	Ext storage.ExtensionState `json:"ext,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (e *EntitySpec) Validate() error {
	el := errors.NewErrorList()

	if e.Name == "" {
		el.Add(fmt.Errorf("entity name is required"))
	}
	if e.Door != nil {
		if e.Door.SideA == "" || e.Door.SideB == "" {
			el.Add(fmt.Errorf("door requires both side_a and side_b"))
		}
		if e.Container {
			el.Add(fmt.Errorf("a door cannot also be a container"))
		}
	}

	return el.Err()
}
