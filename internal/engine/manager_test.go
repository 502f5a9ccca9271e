package engine

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-fiction/internal/event"
	"github.com/pixil98/go-fiction/internal/persist"
	"github.com/pixil98/go-fiction/internal/storage"
	"github.com/pixil98/go-fiction/internal/world"
	"github.com/pixil98/go-testutil"
)

type mapStore[T storage.ValidatingSpec] map[string]T

func (s mapStore[T]) Save(id string, v T) error { s[id] = v; return nil }
func (s mapStore[T]) Get(id string) T           { return s[id] }
func (s mapStore[T]) GetAll() map[string]T      { return s }

type fakeUI struct {
	output       []string
	titles       []string
	roomRows     [][]EntityRow
	invRows      [][]EntityRow
	busyCalls    int
	confirm      bool
	confirmCalls int
	ended        int
	transcript   string
	status       map[int]string
}

func (u *fakeUI) AppendOutput(text string)                    { u.output = append(u.output, text) }
func (u *fakeUI) SetRoomTitle(title string)                   { u.titles = append(u.titles, title) }
func (u *fakeUI) SetExits(labels [world.NumDirections]string) {}
func (u *fakeUI) SetRoomEntities(rows []EntityRow)            { u.roomRows = append(u.roomRows, rows) }
func (u *fakeUI) SetInventory(rows []EntityRow)               { u.invRows = append(u.invRows, rows) }
func (u *fakeUI) SetBusy(busy bool)                           { u.busyCalls++ }

func (u *fakeUI) SetStatus(slot int, text string) {
	if u.status == nil {
		u.status = make(map[int]string)
	}
	u.status[slot] = text
}

func (u *fakeUI) GameEnded(transcript string) {
	u.ended++
	u.transcript = transcript
}

func (u *fakeUI) ConfirmVersionSkew(saved, current string) bool {
	u.confirmCalls++
	return u.confirm
}

func (u *fakeUI) allOutput() string {
	return strings.Join(u.output, "")
}

// manorDef is the test fixture: two rooms, a portable lamp, and a chest.
func manorDef() *Definition {
	return &Definition{
		Spec: &world.GameSpec{
			Name:       "manor",
			Version:    "1",
			StartRoom:  "hall",
			Attributes: []string{"glowing"},
		},
		Rooms: mapStore[*world.RoomSpec]{
			"hall": {
				Name:        "Hall",
				Description: "A dusty hall.",
				Exits:       map[string]world.ExitSpec{"north": {RoomId: "cellar"}},
			},
			"cellar": {
				Name:        "Cellar",
				Description: "Dark and damp.",
				Exits:       map[string]world.ExitSpec{"south": {RoomId: "hall"}},
			},
		},
		Entities: mapStore[*world.EntitySpec]{
			"lamp":  {Name: "lamp", Location: "hall", Attributes: []string{"takeable"}},
			"chest": {Name: "chest", Location: "cellar", Container: true},
		},
	}
}

func newTestManager(t *testing.T, def *Definition, opts ...Option) (*GameManager, *fakeUI) {
	t.Helper()
	ui := &fakeUI{}
	m, err := NewGameManager(ui, MapLibrary{def.Spec.Name: def}, opts...)
	if err != nil {
		t.Fatalf("creating manager: %v", err)
	}
	return m, ui
}

func startManor(t *testing.T, def *Definition, opts ...Option) (*GameManager, *fakeUI) {
	t.Helper()
	m, ui := newTestManager(t, def, opts...)
	if err := m.NewGame("manor"); err != nil {
		t.Fatalf("starting game: %v", err)
	}
	return m, ui
}

func TestNewGameOpening(t *testing.T) {
	m, ui := startManor(t, manorDef())

	testutil.AssertEqual(t, "state", m.State(), StatePlaying)
	testutil.AssertEqual(t, "turns", m.NumTurns(), 0)
	testutil.AssertEqual(t, "current room", m.CurrentRoom().ID(), "hall")

	out := ui.allOutput()
	if !strings.Contains(out, "A dusty hall.") {
		t.Errorf("opening look missing, output: %q", out)
	}
	if len(ui.titles) == 0 || ui.titles[len(ui.titles)-1] != "Hall" {
		t.Errorf("room title not set, titles: %v", ui.titles)
	}
	if len(ui.roomRows) == 0 {
		t.Fatal("room panel never populated")
	}
	rows := ui.roomRows[len(ui.roomRows)-1]
	testutil.AssertEqual(t, "one entity shown", len(rows), 1)
	testutil.AssertEqual(t, "lamp row", rows[0].Name, "lamp")
}

func TestOperationsNeedGame(t *testing.T) {
	m, _ := newTestManager(t, manorDef())

	for name, err := range map[string]error{
		"look": m.Look(),
		"wait": m.Wait(),
		"exit": m.ExitSelected(world.North),
	} {
		if !errors.Is(err, ErrNoGame) {
			t.Errorf("%s: expected ErrNoGame, got %v", name, err)
		}
	}
}

func TestTurnCounterMonotonic(t *testing.T) {
	m, _ := startManor(t, manorDef())

	var seen []int
	m.Events().AddTurnHandler(&event.TurnFunc{ID: "probe", Fn: func() {
		seen = append(seen, m.NumTurns())
	}})

	for i := 0; i < 3; i++ {
		if err := m.Wait(); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}

	testutil.AssertEqual(t, "turns", m.NumTurns(), 3)
	// Handlers observe the count before the increment.
	testutil.AssertEqual(t, "probe saw", seen[0], 0)
	testutil.AssertEqual(t, "probe saw last", seen[2], 2)
}

func TestExitMovesAndDescribesOnce(t *testing.T) {
	m, ui := startManor(t, manorDef())

	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}
	testutil.AssertEqual(t, "moved", m.CurrentRoom().ID(), "cellar")
	testutil.AssertEqual(t, "turn consumed", m.NumTurns(), 1)
	testutil.AssertEqual(t, "visited", m.CurrentRoom().Attrs().Get(m.Sys().Visited), true)

	firstVisit := strings.Count(ui.allOutput(), "Dark and damp.")
	testutil.AssertEqual(t, "described on first entry", firstVisit, 1)

	// Round trip: both rooms are visited now, so no re-description.
	if err := m.ExitSelected(world.South); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}
	testutil.AssertEqual(t, "no re-description", strings.Count(ui.allOutput(), "Dark and damp."), 1)
}

func TestExitMissing(t *testing.T) {
	m, ui := startManor(t, manorDef())

	if err := m.ExitSelected(world.Down); err != nil {
		t.Fatalf("exit: %v", err)
	}

	testutil.AssertEqual(t, "no move", m.CurrentRoom().ID(), "hall")
	testutil.AssertEqual(t, "no turn", m.NumTurns(), 0)
	if !strings.Contains(ui.allOutput(), "You can't go that way.") {
		t.Errorf("missing refusal, output: %q", ui.allOutput())
	}
}

func TestMovementVetoConsumesTurn(t *testing.T) {
	m, _ := startManor(t, manorDef())

	after := 0
	m.Events().AddMovementHandler(&event.MovementFunc{
		ID:     "guard",
		Before: func(from, to *world.Room) bool { return true },
		After:  func(from, to *world.Room) bool { after++; return false },
	})

	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}

	testutil.AssertEqual(t, "not moved", m.CurrentRoom().ID(), "hall")
	testutil.AssertEqual(t, "turn consumed", m.NumTurns(), 1)
	testutil.AssertEqual(t, "after pass skipped", after, 0)
}

func TestBeforeActionReplacesDefault(t *testing.T) {
	m, ui := startManor(t, manorDef())
	lamp := m.World().Entity("lamp")

	performed := false
	lampImpl := &hookImpl{name: "lamp", log: &[]string{}}
	lampImpl.perform = func() { performed = true }
	lamp.SetImpl(lampImpl)

	after := 0
	m.Events().AddGameActionHandler(&event.GameActionFunc{
		ID: "override",
		Before: func(e *world.Entity, action string) bool {
			m.NewPar()
			m.Print("The lamp refuses.")
			return true
		},
		After: func(e *world.Entity, action string) bool { after++; return false },
	})

	if err := m.EntityActionSelected(lamp, "rub"); err != nil {
		t.Fatalf("action: %v", err)
	}

	testutil.AssertEqual(t, "default skipped", performed, false)
	testutil.AssertEqual(t, "after pass skipped", after, 0)
	testutil.AssertEqual(t, "turn consumed", m.NumTurns(), 1)
	if !strings.Contains(ui.allOutput(), "The lamp refuses.") {
		t.Errorf("override text missing, output: %q", ui.allOutput())
	}
}

// hookImpl records lifecycle hook firings.
type hookImpl struct {
	world.BaseEntityImpl
	name    string
	log     *[]string
	perform func()
}

func (h *hookImpl) Name(e *world.Entity) string { return h.name }

func (h *hookImpl) PerformAction(s world.Session, e *world.Entity, action string) bool {
	if h.perform != nil {
		h.perform()
		return true
	}
	return false
}

func (h *hookImpl) EnteredScope(s world.Session, e *world.Entity) { *h.log = append(*h.log, "enter") }
func (h *hookImpl) ExitedScope(s world.Session, e *world.Entity)  { *h.log = append(*h.log, "exit") }
func (h *hookImpl) Taken(s world.Session, e *world.Entity)        { *h.log = append(*h.log, "taken") }
func (h *hookImpl) Dropped(s world.Session, e *world.Entity)      { *h.log = append(*h.log, "dropped") }

func TestMoveEntityHooks(t *testing.T) {
	m, _ := startManor(t, manorDef())

	log := []string{}
	lamp := m.World().Entity("lamp")
	lamp.SetImpl(&hookImpl{name: "lamp", log: &log})

	// Room -> inventory: taken, but no scope change since the lamp was
	// already reachable.
	m.MoveEntity(lamp, m.Player())
	testutil.AssertEqual(t, "take", strings.Join(log, ","), "taken")

	// Inventory -> another room: dropped and out of scope.
	log = nil
	m.MoveEntity(lamp, m.World().Room("cellar"))
	testutil.AssertEqual(t, "drop", strings.Join(log, ","), "dropped,exit")

	// Same holder: nothing fires.
	log = nil
	m.MoveEntity(lamp, m.World().Room("cellar"))
	testutil.AssertEqual(t, "no-op move", len(log), 0)

	// Entering the lamp's room brings it back into scope.
	log = nil
	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}
	testutil.AssertEqual(t, "rescope", strings.Join(log, ","), "enter")
}

func TestDirtyRefreshCoalesces(t *testing.T) {
	m, ui := startManor(t, manorDef())
	lamp := m.World().Entity("lamp")

	// A processor that re-dirties the entity it is describing. The
	// refresh must not loop; the mark lands in the next cycle.
	m.Events().AddEntityActionsProcessor(&event.EntityActionsFunc{
		ID: "restless",
		Fn: func(e *world.Entity, actions *[]string) {
			m.EntityChanged(e)
		},
	})

	before := len(ui.roomRows)
	m.EntityChanged(lamp)
	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	testutil.AssertEqual(t, "one refresh per turn", len(ui.roomRows), before+1)
}

func TestRequestEndTearsDown(t *testing.T) {
	m, ui := startManor(t, manorDef())
	systemCount := m.Registry().SystemCount()

	m.Events().AddTurnHandler(&event.TurnFunc{ID: "doom", Fn: func() {
		m.RequestEnd()
	}})

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	testutil.AssertEqual(t, "state", m.State(), StateNoGame)
	testutil.AssertEqual(t, "ui notified", ui.ended, 1)
	testutil.AssertEqual(t, "game attributes revoked", m.Registry().Count(), systemCount)
	if !strings.Contains(ui.transcript, "Time passes.") {
		t.Errorf("transcript not handed over, got %q", ui.transcript)
	}
	if err := m.Wait(); !errors.Is(err, ErrNoGame) {
		t.Errorf("expected ErrNoGame after end, got %v", err)
	}
}

func TestOutputListenerRewrites(t *testing.T) {
	m, ui := startManor(t, manorDef())

	m.Events().AddOutputProcessor(&event.OutputFunc{ID: "shout", Fn: strings.ToUpper})

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if !strings.Contains(ui.allOutput(), "TIME PASSES.") {
		t.Errorf("rewrite not applied, output: %q", ui.allOutput())
	}
	if !strings.Contains(m.Transcript(), "TIME PASSES.") {
		t.Errorf("transcript missing rewrite: %q", m.Transcript())
	}
}

func TestSelectEntity(t *testing.T) {
	def := manorDef()
	def.Entities.Get("lamp").Description = "A tarnished brass lamp."
	m, ui := startManor(t, def)
	lamp := m.World().Entity("lamp")

	m.SelectEntity(lamp)

	testutil.AssertEqual(t, "selected", m.Selected() == lamp, true)
	testutil.AssertEqual(t, "no turn", m.NumTurns(), 0)
	if !strings.Contains(ui.allOutput(), "A tarnished brass lamp.") {
		t.Errorf("description missing, output: %q", ui.allOutput())
	}

	// A consuming listener replaces the description.
	m.Events().AddSelectionHandler(&event.SelectionFunc{ID: "mute", Fn: func(e *world.Entity) bool {
		return true
	}})
	before := strings.Count(ui.allOutput(), "A tarnished brass lamp.")
	m.SelectEntity(lamp)
	testutil.AssertEqual(t, "description suppressed",
		strings.Count(ui.allOutput(), "A tarnished brass lamp."), before)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	slots, err := persist.OpenSlotStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening slots: %v", err)
	}
	defer func() { _ = slots.Close() }()

	m, _ := startManor(t, manorDef(), WithSlotStore(slots))

	m.MoveEntity(m.World().Entity("lamp"), m.Player())
	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if err := m.SaveGame("quick"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Play past the save point, then load back.
	if err := m.ExitSelected(world.South); err != nil {
		t.Fatalf("exit: %v", err)
	}
	m.MoveEntity(m.World().Entity("lamp"), m.World().Room("hall"))

	if err := m.LoadGame("quick"); err != nil {
		t.Fatalf("load: %v", err)
	}

	testutil.AssertEqual(t, "room restored", m.CurrentRoom().ID(), "cellar")
	testutil.AssertEqual(t, "turns restored", m.NumTurns(), 2)
	lamp := m.World().Entity("lamp")
	testutil.AssertEqual(t, "inventory restored", m.Player().IsEquipped(lamp), false)
	if lamp.Holder() != world.Container(m.Player()) {
		t.Errorf("lamp holder = %v, expected player", lamp.Holder())
	}
}

func TestLoadVersionSkewDeclined(t *testing.T) {
	slots, err := persist.OpenSlotStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening slots: %v", err)
	}
	defer func() { _ = slots.Close() }()

	def := manorDef()
	m, ui := startManor(t, def, WithSlotStore(slots))
	if err := m.SaveGame("quick"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The game updated since the save was written.
	def.Spec.Version = "2"
	ui.confirm = false

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := m.LoadGame("quick"); err != nil {
		t.Fatalf("load: %v", err)
	}

	testutil.AssertEqual(t, "player was asked", ui.confirmCalls, 1)
	testutil.AssertEqual(t, "session untouched", m.NumTurns(), 1)
}

func TestLoadUnknownGame(t *testing.T) {
	slots, err := persist.OpenSlotStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening slots: %v", err)
	}
	defer func() { _ = slots.Close() }()

	if err := slots.Save("orphan", &persist.GameState{GameName: "gone"}); err != nil {
		t.Fatalf("seeding slot: %v", err)
	}

	m, _ := newTestManager(t, manorDef(), WithSlotStore(slots))
	if err := m.LoadGame("orphan"); !errors.Is(err, persist.ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
}

func TestHandlerStateSurvivesSave(t *testing.T) {
	slots, err := persist.OpenSlotStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening slots: %v", err)
	}
	defer func() { _ = slots.Close() }()

	def := manorDef()
	def.Setup = func(s world.Session, w *world.World, ev *event.Manager) error {
		ev.AddTurnHandler(&countingHandler{id: "clock"})
		return nil
	}

	m, _ := startManor(t, def, WithSlotStore(slots))
	for i := 0; i < 3; i++ {
		if err := m.Wait(); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if err := m.SaveGame("quick"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := m.LoadGame("quick"); err != nil {
		t.Fatalf("load: %v", err)
	}

	h := m.Events().Handler("clock").(*countingHandler)
	testutil.AssertEqual(t, "state restored", h.ticks, 3)
}

// startWatcher records the value of one attribute bit each time its
// game-starting hook fires.
type startWatcher struct {
	world.BaseEntityImpl
	idx int
	saw *[]bool
}

func (w *startWatcher) GameStarting(s world.Session, e *world.Entity) {
	*w.saw = append(*w.saw, e.Attrs().Get(w.idx))
}

func TestGameStartingSeesRestoredState(t *testing.T) {
	slots, err := persist.OpenSlotStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening slots: %v", err)
	}
	defer func() { _ = slots.Close() }()

	var saw []bool
	def := manorDef()
	def.Setup = func(s world.Session, w *world.World, ev *event.Manager) error {
		idx, ok := w.Registry.Index("glowing")
		if !ok {
			return errors.New("glowing not registered")
		}
		w.Entity("lamp").SetImpl(&startWatcher{idx: idx, saw: &saw})
		return nil
	}

	m, _ := startManor(t, def, WithSlotStore(slots))
	testutil.AssertEqual(t, "hook fired on new game", len(saw), 1)
	testutil.AssertEqual(t, "builder default observed", saw[0], false)

	idx, _ := m.World().Registry.Index("glowing")
	m.World().Entity("lamp").Attrs().Set(idx)
	if err := m.SaveGame("quick"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.LoadGame("quick"); err != nil {
		t.Fatalf("load: %v", err)
	}

	// The hook must fire after the snapshot is applied, so it observes
	// the saved bit rather than the builder default.
	testutil.AssertEqual(t, "hook fired on load", len(saw), 2)
	testutil.AssertEqual(t, "restored bit observed", saw[1], true)
}

// scopeWatcher captures the current room at the moment it leaves scope.
type scopeWatcher struct {
	world.BaseEntityImpl
	during *string
}

func (w *scopeWatcher) ExitedScope(s world.Session, e *world.Entity) {
	*w.during = s.CurrentRoom().ID()
}

func TestExitedScopeSeesDepartedRoom(t *testing.T) {
	m, _ := startManor(t, manorDef())

	var during string
	m.World().Entity("lamp").SetImpl(&scopeWatcher{during: &during})

	if err := m.ExitSelected(world.North); err != nil {
		t.Fatalf("exit: %v", err)
	}

	testutil.AssertEqual(t, "moved", m.CurrentRoom().ID(), "cellar")
	testutil.AssertEqual(t, "hook saw departed room", during, "hall")
}

func TestSetupHookActionsRefused(t *testing.T) {
	def := manorDef()
	var m *GameManager
	var waitErr, lookErr error
	def.Setup = func(s world.Session, w *world.World, ev *event.Manager) error {
		waitErr = m.Wait()
		lookErr = m.Look()
		return nil
	}

	mgr, _ := newTestManager(t, def)
	m = mgr
	if err := m.NewGame("manor"); err != nil {
		t.Fatalf("starting game: %v", err)
	}

	// The session has no current room until the opening entry, so
	// turn-consuming commands issued from Setup are refused, not run.
	if !errors.Is(waitErr, ErrNoGame) {
		t.Errorf("wait during setup: expected ErrNoGame, got %v", waitErr)
	}
	if !errors.Is(lookErr, ErrNoGame) {
		t.Errorf("look during setup: expected ErrNoGame, got %v", lookErr)
	}
	testutil.AssertEqual(t, "no turns consumed", m.NumTurns(), 0)
	testutil.AssertEqual(t, "game started", m.CurrentRoom().ID(), "hall")
}

type countingHandler struct {
	id    string
	ticks int
}

func (c *countingHandler) HandlerID() string { return c.id }
func (c *countingHandler) Turn()             { c.ticks++ }

func (c *countingHandler) MarshalState() ([]byte, error) {
	return []byte{byte(c.ticks)}, nil
}

func (c *countingHandler) UnmarshalState(data []byte) error {
	if len(data) == 1 {
		c.ticks = int(data[0])
	}
	return nil
}
