package world

import (
	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/storage"
)

// Entity is any interactable object in the world: props, items, doors,
// scenery. All customizable behavior lives on a pluggable EntityImpl
// strategy chosen at construction and swappable at runtime; entities are
// never subclassed.
type Entity struct {
	id          string
	attrs       *attr.Set
	impl        EntityImpl
	holder      Container
	isContainer bool
	ext         storage.ExtensionState

	contents
}

// NewEntity creates an entity with the given impl. Container entities
// (chests, two-sided doors) compose the entity identity with the container
// capability.
func NewEntity(id string, impl EntityImpl, isContainer bool) *Entity {
	e := &Entity{
		id:          id,
		attrs:       attr.NewSet(),
		impl:        impl,
		isContainer: isContainer,
	}
	e.contents.owner = e
	return e
}

func (e *Entity) ID() string          { return e.id }
func (e *Entity) Attrs() *attr.Set    { return e.attrs }
func (e *Entity) Impl() EntityImpl    { return e.impl }
func (e *Entity) Holder() Container   { return e.holder }
func (e *Entity) IsContainer() bool   { return e.isContainer }
func (e *Entity) Kind() Kind          { return KindEntity }
func (e *Entity) ContainerID() string { return e.id }

// Ext is the authored extension config from the entity's definition,
// keyed by the impl that reads it. Custom impls installed during game
// setup take their config from here.
func (e *Entity) Ext() storage.ExtensionState { return e.ext }

// SetImpl swaps the behavior strategy at runtime.
func (e *Entity) SetImpl(impl EntityImpl) {
	e.impl = impl
}

// EntityImpl supplies every customizable behavior surface of an entity.
type EntityImpl interface {
	// Name is the entity's display name.
	Name(e *Entity) string
	// Description is shown when the player examines the entity.
	Description(e *Entity) string
	// Actions lists the action names the entity currently offers.
	Actions(e *Entity) []string
	// PerformAction handles one of the listed actions. It returns false
	// when the action was not handled, which the engine reports to the
	// player as an ordinary outcome, not an error.
	PerformAction(s Session, e *Entity, action string) bool

	// Lifecycle hooks. EnteredScope/ExitedScope fire when the entity
	// becomes reachable/unreachable from the current room; Taken/Dropped
	// fire on inventory transitions; GameStarting fires once per session.
	EnteredScope(s Session, e *Entity)
	ExitedScope(s Session, e *Entity)
	Taken(s Session, e *Entity)
	Dropped(s Session, e *Entity)
	GameStarting(s Session, e *Entity)

	// MarshalState/UnmarshalState carry the impl's opaque state blob
	// through a snapshot. Impls without state return (nil, nil).
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// BaseEntityImpl is the default strategy: static name and description, no
// actions, no hook behavior, no state. Game impls embed it and override
// the surfaces they care about.
type BaseEntityImpl struct {
	EntityName string
	EntityDesc string
}

func (b *BaseEntityImpl) Name(e *Entity) string        { return b.EntityName }
func (b *BaseEntityImpl) Description(e *Entity) string { return b.EntityDesc }
func (b *BaseEntityImpl) Actions(e *Entity) []string   { return nil }

func (b *BaseEntityImpl) PerformAction(s Session, e *Entity, action string) bool { return false }

func (b *BaseEntityImpl) EnteredScope(s Session, e *Entity) {}
func (b *BaseEntityImpl) ExitedScope(s Session, e *Entity)  {}
func (b *BaseEntityImpl) Taken(s Session, e *Entity)        {}
func (b *BaseEntityImpl) Dropped(s Session, e *Entity)      {}
func (b *BaseEntityImpl) GameStarting(s Session, e *Entity) {}

func (b *BaseEntityImpl) MarshalState() ([]byte, error)    { return nil, nil }
func (b *BaseEntityImpl) UnmarshalState(data []byte) error { return nil }
