package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/world"
	"github.com/pixil98/go-testutil"
)

// counterImpl is an entity impl with state worth persisting.
type counterImpl struct {
	world.BaseEntityImpl
	Rubs int
}

func (c *counterImpl) MarshalState() ([]byte, error) {
	return json.Marshal(map[string]int{"rubs": c.Rubs})
}

func (c *counterImpl) UnmarshalState(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	c.Rubs = m["rubs"]
	return nil
}

// buildWorld assembles the same small game every time: two rooms, a
// chest in the cellar, a lamp and a sword. Game attributes register in
// the order given, so two calls can disagree on bit layout.
func buildWorld(t *testing.T, gameAttrs []string) *world.World {
	t.Helper()

	reg := attr.NewRegistry()
	sys, err := world.RegisterSystemAttributes(reg)
	if err != nil {
		t.Fatalf("registering system attributes: %v", err)
	}
	for _, name := range gameAttrs {
		if _, err := reg.Register(name); err != nil {
			t.Fatalf("registering %q: %v", name, err)
		}
	}

	w := world.NewWorld(reg, sys)

	hall := world.NewRoom("hall", &world.BaseRoomImpl{RoomName: "Hall"})
	cellar := world.NewRoom("cellar", &world.BaseRoomImpl{RoomName: "Cellar"})
	chest := world.NewEntity("chest", &world.BaseEntityImpl{EntityName: "chest"}, true)
	lamp := world.NewEntity("lamp", &counterImpl{}, false)
	sword := world.NewEntity("sword", &world.BaseEntityImpl{EntityName: "sword"}, false)

	for _, r := range []*world.Room{hall, cellar} {
		if err := w.AddRoom(r); err != nil {
			t.Fatalf("adding room: %v", err)
		}
	}
	for _, e := range []*world.Entity{chest, lamp, sword} {
		if err := w.AddEntity(e); err != nil {
			t.Fatalf("adding entity: %v", err)
		}
	}

	// Builder-time placement, which a restore may override.
	cellar.AddContent(chest)
	hall.AddContent(lamp)
	hall.AddContent(sword)

	return w
}

func mustIndex(t *testing.T, w *world.World, name string) int {
	t.Helper()
	i, ok := w.Registry.Index(name)
	if !ok {
		t.Fatalf("attribute %q not registered", name)
	}
	return i
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	w := buildWorld(t, []string{"glowing", "cursed"})

	// Mutate away from builder state.
	lamp := w.Entity("lamp")
	lamp.Attrs().Set(mustIndex(t, w, "glowing"))
	lamp.Impl().(*counterImpl).Rubs = 3
	w.Entity("chest").AddContent(lamp)
	w.Player().AddContent(w.Entity("sword"))
	if err := w.Player().Equip(w.Entity("sword")); err != nil {
		t.Fatalf("equipping: %v", err)
	}
	w.Room("hall").Attrs().Set(w.Sys.Visited)

	st, err := Snapshot(w, Meta{
		EngineVersion: "1.0",
		GameName:      "manor",
		GameVersion:   "2",
		CurrentRoom:   "cellar",
		NumTurns:      17,
		Handlers:      []HandlerRecord{{ID: "butler", State: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Encode and decode so gob field handling is part of the trip.
	var buf bytes.Buffer
	if err := Write(&buf, st); err != nil {
		t.Fatalf("write: %v", err)
	}
	st2, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Rebuild with the game attributes registered in the other order,
	// so every saved game bit must move.
	w2 := buildWorld(t, []string{"cursed", "glowing"})
	if err := Restore(w2, st2); err != nil {
		t.Fatalf("restore: %v", err)
	}

	lamp2 := w2.Entity("lamp")
	testutil.AssertEqual(t, "glowing follows name", lamp2.Attrs().Get(mustIndex(t, w2, "glowing")), true)
	testutil.AssertEqual(t, "cursed stays off", lamp2.Attrs().Get(mustIndex(t, w2, "cursed")), false)
	testutil.AssertEqual(t, "impl state", lamp2.Impl().(*counterImpl).Rubs, 3)
	testutil.AssertEqual(t, "visited", w2.Room("hall").Attrs().Get(w2.Sys.Visited), true)

	if lamp2.Holder() != world.Container(w2.Entity("chest")) {
		t.Errorf("lamp holder = %v, expected chest", lamp2.Holder())
	}
	testutil.AssertEqual(t, "hall emptied", len(w2.Room("hall").Contents()), 0)
	testutil.AssertEqual(t, "inventory", len(w2.Player().Contents()), 1)
	testutil.AssertEqual(t, "equipped", w2.Player().IsEquipped(w2.Entity("sword")), true)

	testutil.AssertEqual(t, "current room", st2.CurrentRoom, "cellar")
	testutil.AssertEqual(t, "turns", st2.NumTurns, 17)
	testutil.AssertEqual(t, "handlers", len(st2.Handlers), 1)
}

func TestRestoreDropsDanglingIDs(t *testing.T) {
	w := buildWorld(t, nil)
	st, err := Snapshot(w, Meta{GameName: "manor"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// A later game version removed the sword and the attic.
	st.Entities["ghost"] = ObjectRecord{}
	st.Rooms["attic"] = ObjectRecord{Contents: []string{"lamp"}}
	rec := st.Rooms["hall"]
	rec.Contents = append(rec.Contents, "vanished-item")
	st.Rooms["hall"] = rec

	w2 := buildWorld(t, nil)
	if err := Restore(w2, st); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// The dropped room never claims the lamp and the dropped item never
	// materializes.
	if lamp := w2.Entity("lamp"); lamp.Holder() != world.Container(w2.Room("hall")) {
		t.Errorf("lamp holder = %v, expected hall", lamp.Holder())
	}
	for _, e := range w2.Room("hall").Contents() {
		if e.ID() == "vanished-item" {
			t.Error("phantom entity restored")
		}
	}
}

func TestRestoreDropsStaleEquipment(t *testing.T) {
	w := buildWorld(t, nil)
	st, err := Snapshot(w, Meta{GameName: "manor"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// A hand-edited or stale save can claim an equipped item the
	// inventory does not hold. The load survives and skips it.
	st.Player.Equipped = append(st.Player.Equipped, "sword")

	w2 := buildWorld(t, nil)
	if err := Restore(w2, st); err != nil {
		t.Fatalf("restore: %v", err)
	}

	testutil.AssertEqual(t, "not equipped", w2.Player().IsEquipped(w2.Entity("sword")), false)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a save")))
	if !errors.Is(err, ErrMalformedSave) {
		t.Errorf("expected ErrMalformedSave, got %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, &GameState{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = Read(&buf)
	if !errors.Is(err, ErrMalformedSave) {
		t.Errorf("expected ErrMalformedSave for empty game name, got %v", err)
	}
}
