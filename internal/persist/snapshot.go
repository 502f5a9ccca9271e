package persist

import (
	"fmt"
	"time"

	"github.com/pixil98/go-fiction/internal/world"
)

// Meta carries the session fields the engine owns and the world does
// not: identity, position, and listener state.
type Meta struct {
	EngineVersion string
	GameName      string
	GameVersion   string
	CurrentRoom   string
	NumTurns      int
	Handlers      []HandlerRecord
}

// Snapshot captures the world into an ID-indexed GameState.
func Snapshot(w *world.World, meta Meta) (*GameState, error) {
	st := &GameState{
		EngineVersion: meta.EngineVersion,
		GameName:      meta.GameName,
		GameVersion:   meta.GameVersion,
		Attributes:    w.Registry.Names(),
		Rooms:         make(map[string]ObjectRecord, len(w.Rooms())),
		Entities:      make(map[string]ObjectRecord, len(w.Entities())),
		CurrentRoom:   meta.CurrentRoom,
		NumTurns:      meta.NumTurns,
		Handlers:      meta.Handlers,
		SavedAt:       time.Now(),
	}

	for id, r := range w.Rooms() {
		rec, err := objectRecord(r.Attrs().Bytes(), r.Contents(), r.Impl().MarshalState)
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", id, err)
		}
		st.Rooms[id] = rec
	}

	for id, e := range w.Entities() {
		rec, err := objectRecord(e.Attrs().Bytes(), e.Contents(), e.Impl().MarshalState)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", id, err)
		}
		st.Entities[id] = rec
	}

	p := w.Player()
	st.Player = PlayerRecord{
		Attrs:     p.Attrs().Bytes(),
		Inventory: entityIDs(p.Contents()),
		Equipped:  entityIDs(p.Equipped()),
	}

	return st, nil
}

func objectRecord(attrs []byte, contents []*world.Entity, marshal func() ([]byte, error)) (ObjectRecord, error) {
	state, err := marshal()
	if err != nil {
		return ObjectRecord{}, fmt.Errorf("marshalling impl state: %w", err)
	}
	return ObjectRecord{
		Attrs:     attrs,
		Contents:  entityIDs(contents),
		ImplState: state,
	}, nil
}

func entityIDs(entities []*world.Entity) []string {
	if len(entities) == 0 {
		return nil
	}
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}
