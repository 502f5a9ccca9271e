package world

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/storage"
)

// Direction indexes a room's fixed exit slots.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	Up
	Down
	In
	Out

	NumDirections
)

var directionNames = [NumDirections]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
	"up", "down", "in", "out",
}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection resolves a direction name from game definition data.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(s)
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Room is a location in the world. It holds one exit slot per direction,
// each pointing at another room or nil, plus a parallel label array for
// the UI's exit buttons.
type Room struct {
	id         string
	attrs      *attr.Set
	impl       RoomImpl
	exits      [NumDirections]*Room
	exitLabels [NumDirections]string
	ext        storage.ExtensionState

	contents
}

// NewRoom creates a room with the given impl and no exits.
func NewRoom(id string, impl RoomImpl) *Room {
	r := &Room{
		id:    id,
		attrs: attr.NewSet(),
		impl:  impl,
	}
	r.contents.owner = r
	return r
}

func (r *Room) ID() string          { return r.id }
func (r *Room) Attrs() *attr.Set    { return r.attrs }
func (r *Room) Impl() RoomImpl      { return r.impl }
func (r *Room) Kind() Kind          { return KindRoom }
func (r *Room) ContainerID() string { return r.id }

// Ext is the authored extension config from the room's definition,
// keyed by the impl that reads it.
func (r *Room) Ext() storage.ExtensionState { return r.ext }

// SetImpl swaps the behavior strategy at runtime.
func (r *Room) SetImpl(impl RoomImpl) {
	r.impl = impl
}

// Exit returns the room behind the given exit slot, or nil.
func (r *Room) Exit(d Direction) *Room {
	if d < 0 || d >= NumDirections {
		return nil
	}
	return r.exits[d]
}

// SetExit points an exit slot at a destination with a UI label.
func (r *Room) SetExit(d Direction, to *Room, label string) {
	if d < 0 || d >= NumDirections {
		return
	}
	r.exits[d] = to
	r.exitLabels[d] = label
}

// ExitLabel returns the UI label for an exit slot.
func (r *Room) ExitLabel(d Direction) string {
	if d < 0 || d >= NumDirections {
		return ""
	}
	return r.exitLabels[d]
}

// ExitLabels returns the full label array, indexed by Direction.
func (r *Room) ExitLabels() [NumDirections]string {
	return r.exitLabels
}

// RoomImpl supplies every customizable behavior surface of a room.
type RoomImpl interface {
	Name(r *Room) string
	// Describe prints the room description for a look.
	Describe(s Session, r *Room)
	// Entered fires after the player's current room becomes r.
	Entered(s Session, r *Room)
	// Turn is the room's per-turn hook while it is current.
	Turn(s Session, r *Room)
	// CanExit decides whether the player may leave toward dest. Impls
	// report the reason to the player themselves; a false return is an
	// ordinary outcome, not an error.
	CanExit(s Session, r *Room, dest *Room) bool
	GameStarting(s Session, r *Room)

	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// BaseRoomImpl is the default room strategy: a static name and
// description, exits always allowed.
type BaseRoomImpl struct {
	RoomName string
	RoomDesc string
}

func (b *BaseRoomImpl) Name(r *Room) string { return b.RoomName }

func (b *BaseRoomImpl) Describe(s Session, r *Room) {
	s.NewPar()
	if b.RoomName != "" {
		s.Print(b.RoomName)
		s.NewPar()
	}
	if b.RoomDesc != "" {
		s.Print(b.RoomDesc)
	}
}

func (b *BaseRoomImpl) Entered(s Session, r *Room)            {}
func (b *BaseRoomImpl) Turn(s Session, r *Room)               {}
func (b *BaseRoomImpl) CanExit(s Session, r, dest *Room) bool { return true }
func (b *BaseRoomImpl) GameStarting(s Session, r *Room)       {}
func (b *BaseRoomImpl) MarshalState() ([]byte, error)         { return nil, nil }
func (b *BaseRoomImpl) UnmarshalState(data []byte) error      { return nil }
