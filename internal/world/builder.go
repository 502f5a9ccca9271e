package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/storage"
)

// Builder constructs a World from definition stores. Building runs the
// whole world construction pass: game attributes are registered, rooms
// and entities are created with their default impls, and exits and
// initial containment are resolved by ID. A loaded game reuses the same
// pass and patches the result from the snapshot afterwards.
type Builder struct {
	Game     *GameSpec
	Rooms    storage.Storer[*RoomSpec]
	Entities storage.Storer[*EntitySpec]
}

// NewBuilder creates a builder over the given definition stores.
func NewBuilder(game *GameSpec, rooms storage.Storer[*RoomSpec], entities storage.Storer[*EntitySpec]) *Builder {
	return &Builder{
		Game:     game,
		Rooms:    rooms,
		Entities: entities,
	}
}

// Build constructs a fresh world on the given registry. The registry must
// carry only the frozen system attributes; the game's own attributes are
// registered on top and are expected to be cleared by the caller when the
// session ends.
func (b *Builder) Build(reg *attr.Registry, sys SystemAttrs) (*World, error) {
	if b.Game == nil {
		return nil, fmt.Errorf("game spec is required")
	}

	for _, name := range b.Game.Attributes {
		if _, err := reg.Register(name); err != nil {
			return nil, fmt.Errorf("registering game attribute: %w", err)
		}
	}

	w := NewWorld(reg, sys)

	// Rooms first so exits and door sides can resolve.
	for id, spec := range b.Rooms.GetAll() {
		room := NewRoom(id, &BaseRoomImpl{RoomName: spec.Name, RoomDesc: spec.Description})
		room.ext = spec.Ext
		if err := w.AddRoom(room); err != nil {
			return nil, err
		}
	}

	el := errors.NewErrorList()
	for id, spec := range b.Rooms.GetAll() {
		room := w.Room(id)
		for dir, exit := range spec.Exits {
			d, err := ParseDirection(dir)
			if err != nil {
				el.Add(fmt.Errorf("room %q: %w", id, err))
				continue
			}
			dest := w.Room(exit.RoomId)
			if dest == nil {
				el.Add(fmt.Errorf("room %q: exit %s references unknown room %q", id, dir, exit.RoomId))
				continue
			}
			label := exit.Label
			if label == "" {
				label = d.String()
			}
			room.SetExit(d, dest, label)
		}
	}

	for id, spec := range b.Entities.GetAll() {
		ent, err := b.buildEntity(w, id, spec)
		if err != nil {
			el.Add(err)
			continue
		}
		if err := w.AddEntity(ent); err != nil {
			el.Add(err)
			continue
		}
		for _, name := range spec.Attributes {
			idx, ok := reg.Index(name)
			if !ok {
				el.Add(fmt.Errorf("entity %q: unknown attribute %q", id, name))
				continue
			}
			ent.Attrs().Set(idx)
		}
	}

	// Containment second pass: every entity must exist before locations
	// resolve, since entities may start inside other entities.
	for id, spec := range b.Entities.GetAll() {
		if spec.Location == "" {
			continue
		}
		holder, ok := w.Lookup(spec.Location)
		if !ok {
			el.Add(fmt.Errorf("entity %q: unknown location %q", id, spec.Location))
			continue
		}
		if he, isEntity := holder.(*Entity); isEntity && !he.IsContainer() {
			el.Add(fmt.Errorf("entity %q: location %q is not a container", id, spec.Location))
			continue
		}
		holder.AddContent(w.Entity(id))
	}

	if w.Room(b.Game.StartRoom) == nil {
		el.Add(fmt.Errorf("start_room %q does not exist", b.Game.StartRoom))
	}

	el.Add(checkAcyclic(w))

	if err := el.Err(); err != nil {
		return nil, err
	}
	return w, nil
}

func (b *Builder) buildEntity(w *World, id string, spec *EntitySpec) (*Entity, error) {
	if spec.Door != nil {
		sideA := w.Room(spec.Door.SideA)
		sideB := w.Room(spec.Door.SideB)
		if sideA == nil || sideB == nil {
			return nil, fmt.Errorf("entity %q: door references unknown room", id)
		}
		impl := &DoorImpl{
			BaseEntityImpl: BaseEntityImpl{EntityName: spec.Name, EntityDesc: spec.Description},
			SideA:          sideA,
			SideB:          sideB,
			Sys:            w.Sys,
		}
		ent := NewEntity(id, impl, false)
		ent.ext = spec.Ext
		if err := applyDoorExt(ent, w.Sys); err != nil {
			return nil, fmt.Errorf("entity %q: %w", id, err)
		}
		return ent, nil
	}

	impl := &BaseEntityImpl{EntityName: spec.Name, EntityDesc: spec.Description}
	ent := NewEntity(id, impl, spec.Container)
	ent.ext = spec.Ext
	return ent, nil
}

// applyDoorExt sets a door's starting hinge state from its authored
// extension config. Doors with no config start closed and unlocked.
func applyDoorExt(ent *Entity, sys SystemAttrs) error {
	var cfg struct {
		Open   bool `json:"open"`
		Locked bool `json:"locked"`
	}
	found, err := ent.Ext().Get("door", &cfg)
	if err != nil || !found {
		return err
	}
	if cfg.Open {
		ent.Attrs().Set(sys.Open)
	}
	if cfg.Locked {
		ent.Attrs().Set(sys.Locked)
	}
	return nil
}

// checkAcyclic guarantees construction-time acyclicity of the containment
// graph; the upward walks rely on it.
func checkAcyclic(w *World) error {
	for id, e := range w.Entities() {
		seen := map[*Entity]bool{e: true}
		holder := e.Holder()
		for holder != nil {
			he, ok := holder.(*Entity)
			if !ok {
				break
			}
			if seen[he] {
				return fmt.Errorf("containment cycle through entity %q", id)
			}
			seen[he] = true
			holder = he.Holder()
		}
	}
	return nil
}
