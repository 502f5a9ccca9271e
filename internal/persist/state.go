// Package persist captures a running game session as an ID-indexed
// snapshot and patches it back onto a freshly built world. Object
// pointers never touch the wire; everything is looked up by ID on
// restore, and attribute vectors are reconciled through an attr.Permuter
// before any other patch is applied.
package persist

import "time"

// GameState is the gob-encodable snapshot of one session.
type GameState struct {
	// EngineVersion is the engine release that wrote the save. Skew is
	// data for the caller to confirm with the player, never an error
	// here.
	EngineVersion string

	GameName    string
	GameVersion string

	// Attributes is the registry's ordered name list at save time. It is
	// the permutation key for every attribute vector below.
	Attributes []string

	Rooms    map[string]ObjectRecord
	Entities map[string]ObjectRecord
	Player   PlayerRecord

	CurrentRoom string
	NumTurns    int

	Handlers []HandlerRecord

	SavedAt time.Time
}

// ObjectRecord is the saved state of one room or entity.
type ObjectRecord struct {
	// Attrs is the attribute vector in the saved registry layout.
	Attrs []byte

	// Contents lists the IDs of contained entities in order.
	Contents []string

	// ImplState is the impl's opaque blob, nil for stateless impls.
	ImplState []byte
}

// PlayerRecord is the saved state of the singleton player.
type PlayerRecord struct {
	Attrs     []byte
	Inventory []string
	Equipped  []string
}

// HandlerRecord names a persistable listener plus its opaque state.
type HandlerRecord struct {
	ID    string
	State []byte
}
