package engine

import "github.com/pixil98/go-fiction/internal/world"

// Status bar slots.
const (
	StatusRoom = iota
	StatusTurns
)

// EntityRow is one line of the UI's room or inventory panel.
type EntityRow struct {
	Entity   *world.Entity
	Name     string
	Actions  []string
	Equipped bool
}

// UI is the front end the engine drives. Implementations live outside
// this module; tests use a recording fake.
type UI interface {
	// AppendOutput receives flushed, word-wrapped transcript text.
	AppendOutput(text string)

	SetRoomTitle(title string)
	SetExits(labels [world.NumDirections]string)
	SetRoomEntities(rows []EntityRow)
	SetInventory(rows []EntityRow)
	SetStatus(slot int, text string)

	// SetBusy brackets long operations such as save and load.
	SetBusy(busy bool)

	// ConfirmVersionSkew asks the player whether to load a save written
	// by a different engine or game version.
	ConfirmVersionSkew(saved, current string) bool

	// GameEnded fires after the session is torn down. The full
	// transcript is handed over so the host can offer to save it.
	GameEnded(transcript string)
}

// Namespace receives name bindings for the objects of the running
// session, so an embedding host can expose them to its scripting
// surface. Push and Pop shadow rather than replace.
type Namespace interface {
	Put(name string, value any)
	Push(name string, value any)
	Pop(name string)
}
