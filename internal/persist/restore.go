package persist

import (
	"fmt"

	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/world"
)

// Restore patches a freshly built world with the snapshot's state.
//
// The attribute permutation runs first on every vector, before any code
// can read a stale bit position. Saved objects the current game no
// longer defines are dropped silently, as are content IDs that no
// longer resolve; a game update removing objects must not strand old
// saves. Objects the save does not mention keep their builder state.
func Restore(w *world.World, st *GameState) error {
	perm := attr.NewPermuter(st.Attributes, w.Registry)

	// Contents are cleared for every object the save describes before
	// any are re-added, so a stale builder-time placement cannot survive
	// alongside the saved one.
	for id := range st.Rooms {
		if r := w.Room(id); r != nil {
			r.ClearContents()
		}
	}
	for id := range st.Entities {
		if e := w.Entity(id); e != nil && e.IsContainer() {
			e.ClearContents()
		}
	}
	w.Player().ClearContents()

	for id, rec := range st.Rooms {
		r := w.Room(id)
		if r == nil {
			continue
		}
		perm.ApplySet(rec.Attrs, r.Attrs())
		if err := r.Impl().UnmarshalState(rec.ImplState); err != nil {
			return fmt.Errorf("room %q impl state: %w", id, err)
		}
		addContents(w, r, rec.Contents)
	}

	for id, rec := range st.Entities {
		e := w.Entity(id)
		if e == nil {
			continue
		}
		perm.ApplySet(rec.Attrs, e.Attrs())
		if err := e.Impl().UnmarshalState(rec.ImplState); err != nil {
			return fmt.Errorf("entity %q impl state: %w", id, err)
		}
		if e.IsContainer() {
			addContents(w, e, rec.Contents)
		}
	}

	p := w.Player()
	perm.ApplySet(st.Player.Attrs, p.Attrs())
	addContents(w, p, st.Player.Inventory)
	for _, id := range st.Player.Equipped {
		e := w.Entity(id)
		if e == nil {
			continue
		}
		// Equip refuses items outside the inventory; a stale equipped
		// ID is dropped like any other dangling reference.
		_ = p.Equip(e)
	}

	return nil
}

func addContents(w *world.World, c world.Container, ids []string) {
	for _, id := range ids {
		if e := w.Entity(id); e != nil {
			c.AddContent(e)
		}
	}
}
