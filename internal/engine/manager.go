// Package engine runs game sessions: it owns the attribute registry,
// the listener registries, the turn loop, and the UI refresh. One
// GameManager lives for the whole process and plays games one at a
// time.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/display"
	"github.com/pixil98/go-fiction/internal/event"
	"github.com/pixil98/go-fiction/internal/persist"
	"github.com/pixil98/go-fiction/internal/world"
)

// Version identifies the engine release in saves; a mismatch on load is
// confirmed with the player rather than refused.
const Version = "1.0.0"

// State is the manager's lifecycle phase.
type State int

const (
	StateNoGame State = iota
	StatePlaying
)

// GameManager is the turn engine. It implements world.Session, so
// every impl and listener callback can print, queue a look, move
// things, or end the game through it.
type GameManager struct {
	ui      UI
	library Library
	slots   *persist.SlotStore
	ns      Namespace

	registry *attr.Registry
	sys      world.SystemAttrs
	events   *event.Manager

	alwaysLook bool

	state        State
	def          *Definition
	w            *world.World
	current      *world.Room
	selected     *world.Entity
	out          OutputBuffer
	transcript   strings.Builder
	numTurns     int
	endRequested bool
	lookQueued   bool

	dirtyEntities map[*world.Entity]struct{}
	dirtyRooms    map[*world.Room]struct{}
}

// NewGameManager creates an idle manager. The system attributes are
// registered here, once, and survive every session.
func NewGameManager(ui UI, library Library, opts ...Option) (*GameManager, error) {
	reg := attr.NewRegistry()
	sys, err := world.RegisterSystemAttributes(reg)
	if err != nil {
		return nil, err
	}

	m := &GameManager{
		ui:            ui,
		library:       library,
		registry:      reg,
		sys:           sys,
		events:        event.NewManager(),
		dirtyEntities: make(map[*world.Entity]struct{}),
		dirtyRooms:    make(map[*world.Room]struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func (m *GameManager) State() State             { return m.state }
func (m *GameManager) NumTurns() int            { return m.numTurns }
func (m *GameManager) Events() *event.Manager   { return m.events }
func (m *GameManager) Registry() *attr.Registry { return m.registry }
func (m *GameManager) Sys() world.SystemAttrs   { return m.sys }
func (m *GameManager) World() *world.World      { return m.w }
func (m *GameManager) Selected() *world.Entity  { return m.selected }
func (m *GameManager) Transcript() string       { return m.transcript.String() }

// SetAlwaysLook toggles re-describing a room on every entry instead of
// only the first.
func (m *GameManager) SetAlwaysLook(v bool) { m.alwaysLook = v }

// world.Session implementation.

func (m *GameManager) Print(text string)                 { m.out.Print(text) }
func (m *GameManager) Printf(format string, args ...any) { m.out.Printf(format, args...) }
func (m *GameManager) NewPar()                           { m.out.NewPar() }
func (m *GameManager) QueueLook()                        { m.lookQueued = true }
func (m *GameManager) RequestEnd()                       { m.endRequested = true }
func (m *GameManager) CurrentRoom() *world.Room          { return m.current }

func (m *GameManager) Player() *world.Player {
	if m.w == nil {
		return nil
	}
	return m.w.Player()
}

func (m *GameManager) EntityChanged(e *world.Entity) {
	if m.state == StatePlaying && e != nil {
		m.dirtyEntities[e] = struct{}{}
	}
}

func (m *GameManager) RoomChanged(r *world.Room) {
	if m.state == StatePlaying && r != nil {
		m.dirtyRooms[r] = struct{}{}
	}
}

// NewGame starts the named game. A running session is ended first.
func (m *GameManager) NewGame(name string) error {
	def, ok := m.library.Game(name)
	if !ok {
		return fmt.Errorf("game %q not in library", name)
	}

	if m.state == StatePlaying {
		m.teardown()
	}
	if err := m.startSession(def); err != nil {
		return err
	}
	m.fireGameStarting()

	m.enterRoom(m.w.Room(def.Spec.StartRoom))
	m.settle()
	return nil
}

// EndGame ends the running session immediately.
func (m *GameManager) EndGame() {
	if m.state != StatePlaying {
		return
	}
	m.RequestEnd()
	m.maybeFinish()
}

// Look re-describes the current room.
func (m *GameManager) Look() error {
	if m.state != StatePlaying || m.current == nil {
		return ErrNoGame
	}
	m.performLook()
	m.nextTurn()
	return nil
}

// Wait lets a turn pass with no player action.
func (m *GameManager) Wait() error {
	if m.state != StatePlaying || m.current == nil {
		return ErrNoGame
	}
	m.NewPar()
	m.Print("Time passes.")
	m.nextTurn()
	return nil
}

// ExitSelected moves the player through an exit slot. A missing exit is
// reported without consuming a turn; a vetoed move still consumes one.
func (m *GameManager) ExitSelected(d world.Direction) error {
	if m.state != StatePlaying || m.current == nil {
		return ErrNoGame
	}

	dest := m.current.Exit(d)
	if dest == nil {
		m.NewPar()
		m.Print("You can't go that way.")
		m.settle()
		return nil
	}

	m.MovePlayer(dest)
	m.nextTurn()
	return nil
}

// EntityActionSelected performs one of an entity's offered actions. A
// consuming before-listener replaces default processing and suppresses
// the after pass.
func (m *GameManager) EntityActionSelected(e *world.Entity, action string) error {
	if m.state != StatePlaying || m.current == nil {
		return ErrNoGame
	}
	if e == nil {
		return fmt.Errorf("no entity selected")
	}

	if !m.events.FireBeforeAction(e, action) {
		if !e.Impl().PerformAction(m, e, action) {
			m.NewPar()
			m.Printf("You can't %s the %s.", action, e.Impl().Name(e))
		}
		m.events.FireAfterAction(e, action)
	}
	m.nextTurn()
	return nil
}

// SelectEntity records the selection and shows the entity's description
// unless a selection listener consumed it. Selection is free: no turn.
func (m *GameManager) SelectEntity(e *world.Entity) {
	if m.state != StatePlaying || m.current == nil || e == nil {
		return
	}
	m.selected = e

	if !m.events.FireEntitySelected(e) {
		if desc := e.Impl().Description(e); desc != "" {
			m.NewPar()
			m.Print(desc)
		}
	}
	m.settle()
}

// MovePlayer runs the full movement protocol: movement listeners may
// block the move, then the departing room may refuse the exit, then the
// entry sequence runs and the after pass fires. Vetoed moves report to
// the player through the room or listener, not through an error.
func (m *GameManager) MovePlayer(to *world.Room) {
	if m.state != StatePlaying || to == nil || to == m.current {
		return
	}

	from := m.current
	if m.events.FireBeforeMove(from, to) {
		return
	}
	if from != nil && !from.Impl().CanExit(m, from, to) {
		return
	}

	m.enterRoom(to)
	m.events.FireAfterMove(from, to)
}

// MoveEntity reparents an entity and fires the inventory and scope
// transition hooks the move implies. Hooks fire only on actual
// transitions; moving within the same scope stays silent.
func (m *GameManager) MoveEntity(e *world.Entity, to world.Container) {
	if m.state != StatePlaying || e == nil || to == nil || e.Holder() == to {
		return
	}

	p := m.w.Player()
	wasInv := world.IsAncestor(p, e, m.current)
	wasScope := world.IsAncestor(m.current, e, m.current)

	world.Reparent(e, to)

	isInv := world.IsAncestor(p, e, m.current)
	isScope := world.IsAncestor(m.current, e, m.current)

	switch {
	case isInv && !wasInv:
		e.Impl().Taken(m, e)
	case !isInv && wasInv:
		e.Impl().Dropped(m, e)
	}
	switch {
	case isScope && !wasScope:
		e.Impl().EnteredScope(m, e)
	case !isScope && wasScope:
		e.Impl().ExitedScope(m, e)
	}

	m.EntityChanged(e)
	m.RoomChanged(m.current)
}

// SaveGame snapshots the session into a named slot.
func (m *GameManager) SaveGame(slot string) error {
	if m.state != StatePlaying {
		return ErrNoGame
	}
	if m.slots == nil {
		return fmt.Errorf("no save store configured")
	}

	m.ui.SetBusy(true)
	defer m.ui.SetBusy(false)

	handlers, err := m.handlerRecords()
	if err != nil {
		return err
	}

	st, err := persist.Snapshot(m.w, persist.Meta{
		EngineVersion: Version,
		GameName:      m.def.Spec.Name,
		GameVersion:   m.def.Spec.Version,
		CurrentRoom:   m.current.ID(),
		NumTurns:      m.numTurns,
		Handlers:      handlers,
	})
	if err != nil {
		return fmt.Errorf("snapshotting: %w", err)
	}

	if err := m.slots.Save(slot, st); err != nil {
		return fmt.Errorf("saving slot %q: %w", slot, err)
	}
	return nil
}

// LoadGame restores a slot. On version skew the player is asked; a
// declined load leaves the current session untouched and returns nil.
func (m *GameManager) LoadGame(slot string) error {
	if m.slots == nil {
		return fmt.Errorf("no save store configured")
	}

	m.ui.SetBusy(true)
	defer m.ui.SetBusy(false)

	st, err := m.slots.Load(slot)
	if err != nil {
		return err
	}

	def, ok := m.library.Game(st.GameName)
	if !ok {
		return fmt.Errorf("%w: %q", persist.ErrUnknownGame, st.GameName)
	}

	if st.EngineVersion != Version || st.GameVersion != def.Spec.Version {
		saved := fmt.Sprintf("engine %s, game %s", st.EngineVersion, st.GameVersion)
		cur := fmt.Sprintf("engine %s, game %s", Version, def.Spec.Version)
		if !m.ui.ConfirmVersionSkew(saved, cur) {
			return nil
		}
	}

	if m.state == StatePlaying {
		m.teardown()
	}
	if err := m.startSession(def); err != nil {
		return err
	}

	if err := persist.Restore(m.w, st); err != nil {
		m.teardown()
		return fmt.Errorf("restoring slot %q: %w", slot, err)
	}
	if err := m.restoreHandlers(st.Handlers); err != nil {
		m.teardown()
		return err
	}

	room := m.w.Room(st.CurrentRoom)
	if room == nil {
		m.teardown()
		return fmt.Errorf("%w: current room %q missing", persist.ErrMalformedSave, st.CurrentRoom)
	}

	m.current = room
	if m.ns != nil {
		m.ns.Put("here", room)
	}
	m.numTurns = st.NumTurns
	m.fireGameStarting()
	m.RoomChanged(room)
	m.lookQueued = true
	m.settle()
	return nil
}

// startSession builds the world and runs the pre-play hooks. On any
// failure the registry's game attributes are rolled back.
func (m *GameManager) startSession(def *Definition) error {
	b := world.NewBuilder(def.Spec, def.Rooms, def.Entities)
	w, err := b.Build(m.registry, m.sys)
	if err != nil {
		m.registry.ClearGameAttributes()
		return fmt.Errorf("building %q: %w", def.Spec.Name, err)
	}

	m.def = def
	m.w = w
	m.state = StatePlaying
	m.current = nil
	m.selected = nil
	m.numTurns = 0
	m.endRequested = false
	m.lookQueued = false
	m.out.Take()
	m.transcript.Reset()
	m.dirtyEntities = make(map[*world.Entity]struct{})
	m.dirtyRooms = make(map[*world.Room]struct{})

	if m.ns != nil {
		m.ns.Push("player", w.Player())
		m.ns.Push("here", nil)
	}

	if def.Setup != nil {
		if err := def.Setup(m, w, m.events); err != nil {
			m.teardown()
			return fmt.Errorf("setting up %q: %w", def.Spec.Name, err)
		}
	}

	return nil
}

// fireGameStarting runs the game-starting hooks on every object. On a
// load this happens only after the snapshot has been applied, so hooks
// observe restored state, not builder defaults. Deterministic order:
// rooms then entities, both by ID.
func (m *GameManager) fireGameStarting() {
	for _, id := range sortedKeys(m.w.Rooms()) {
		r := m.w.Room(id)
		r.Impl().GameStarting(m, r)
	}
	for _, id := range sortedKeys(m.w.Entities()) {
		e := m.w.Entity(id)
		e.Impl().GameStarting(m, e)
	}
}

func (m *GameManager) teardown() {
	m.events.Clear()
	m.registry.ClearGameAttributes()
	if m.ns != nil {
		m.ns.Pop("here")
		m.ns.Pop("player")
	}
	m.def = nil
	m.w = nil
	m.current = nil
	m.selected = nil
	m.state = StateNoGame
	m.endRequested = false
	m.lookQueued = false
	m.out.Take()
	m.dirtyEntities = make(map[*world.Entity]struct{})
	m.dirtyRooms = make(map[*world.Room]struct{})
}

// enterRoom makes to the current room: scope transition hooks fire for
// every entity whose reachability changed, then the room's entry hook,
// then a look is queued for unvisited rooms (or always, when
// configured).
func (m *GameManager) enterRoom(to *world.Room) {
	from := m.current

	before := m.scopeEntities(from)
	after := m.scopeEntities(to)

	beforeSet := make(map[*world.Entity]bool, len(before))
	for _, e := range before {
		beforeSet[e] = true
	}
	afterSet := make(map[*world.Entity]bool, len(after))
	for _, e := range after {
		afterSet[e] = true
	}

	// Exiting-scope hooks run while the departed room is still current.
	for _, e := range before {
		if !afterSet[e] {
			e.Impl().ExitedScope(m, e)
		}
	}

	m.current = to
	if m.ns != nil {
		m.ns.Put("here", to)
	}
	m.selected = nil

	to.Impl().Entered(m, to)

	for _, e := range after {
		if !beforeSet[e] {
			e.Impl().EnteredScope(m, e)
		}
	}

	if m.alwaysLook || !to.Attrs().Get(m.sys.Visited) {
		m.lookQueued = true
	}
	to.Attrs().Set(m.sys.Visited)

	m.RoomChanged(to)
	if from != nil {
		m.RoomChanged(from)
	}
}

// scopeEntities is everything reachable from r, inventory included.
// Inventory travels with the player, so it is in scope of whatever room
// is current.
func (m *GameManager) scopeEntities(r *world.Room) []*world.Entity {
	if r == nil {
		return nil
	}
	out := world.Descendants(r)
	return append(out, world.Descendants(m.w.Player())...)
}

// nextTurn runs the end-of-turn sequence for a turn-consuming command.
// Once end-of-game has been signalled, listeners and room hooks stay
// quiet, but the flush and the counter still happen for this last turn.
func (m *GameManager) nextTurn() {
	if !m.endRequested {
		m.events.FireTurn()
		m.current.Impl().Turn(m, m.current)
	}
	if m.lookQueued {
		m.performLook()
	}
	m.flush()
	m.refreshUI()
	m.numTurns++
	m.ui.SetStatus(StatusTurns, fmt.Sprintf("Turns: %d", m.numTurns))
	m.maybeFinish()
}

// settle flushes and refreshes without consuming a turn.
func (m *GameManager) settle() {
	if m.lookQueued {
		m.performLook()
	}
	m.flush()
	m.refreshUI()
	m.maybeFinish()
}

func (m *GameManager) performLook() {
	r := m.current
	if r == nil {
		return
	}
	m.lookQueued = false
	r.Impl().Describe(m, r)
	m.events.FireLook(r)
	m.RoomChanged(r)
}

func (m *GameManager) maybeFinish() {
	if !m.endRequested || m.state != StatePlaying {
		return
	}
	m.flush()
	transcript := m.transcript.String()
	m.teardown()
	m.ui.GameEnded(transcript)
}

// flush runs the buffered turn text through the output listeners and
// out to the transcript and UI.
func (m *GameManager) flush() {
	if m.out.Len() == 0 {
		return
	}
	text := m.events.RewriteOutput(m.out.Take())
	if text == "" {
		return
	}
	text = display.EnsureNewline(text)
	m.transcript.WriteString(text)
	m.ui.AppendOutput(display.Wrap(text))
}

// refreshUI rebuilds the panels the dirty sets touch. The sets are
// snapshotted and cleared before any rows are computed, so a listener
// that marks something dirty during row computation schedules the next
// refresh instead of growing this one.
func (m *GameManager) refreshUI() {
	if m.state != StatePlaying || m.current == nil {
		return
	}
	if len(m.dirtyEntities) == 0 && len(m.dirtyRooms) == 0 {
		return
	}

	dirtyEntities := m.dirtyEntities
	dirtyRooms := m.dirtyRooms
	m.dirtyEntities = make(map[*world.Entity]struct{})
	m.dirtyRooms = make(map[*world.Room]struct{})

	_, roomDirty := dirtyRooms[m.current]
	invDirty := false
	for e := range dirtyEntities {
		if world.IsAncestor(m.w.Player(), e, m.current) {
			invDirty = true
		}
		if world.IsAncestor(m.current, e, m.current) {
			roomDirty = true
		}
	}

	if roomDirty {
		m.ui.SetRoomTitle(m.current.Impl().Name(m.current))
		m.ui.SetStatus(StatusRoom, m.current.Impl().Name(m.current))
		m.ui.SetExits(m.current.ExitLabels())
		m.ui.SetRoomEntities(m.entityRows(m.current.Contents()))
		invDirty = true
	}
	if invDirty {
		m.ui.SetInventory(m.entityRows(m.w.Player().Contents()))
	}
}

func (m *GameManager) entityRows(entities []*world.Entity) []EntityRow {
	rows := make([]EntityRow, 0, len(entities))
	for _, e := range entities {
		actions := append([]string(nil), e.Impl().Actions(e)...)
		m.events.FireProcessActions(e, &actions)
		rows = append(rows, EntityRow{
			Entity:   e,
			Name:     e.Impl().Name(e),
			Actions:  actions,
			Equipped: m.w.Player().IsEquipped(e),
		})
	}
	return rows
}

func (m *GameManager) handlerRecords() ([]persist.HandlerRecord, error) {
	var out []persist.HandlerRecord
	for _, h := range m.events.PersistableHandlers() {
		rec := persist.HandlerRecord{ID: h.HandlerID()}
		if sh, ok := h.(event.StatefulHandler); ok {
			state, err := sh.MarshalState()
			if err != nil {
				return nil, fmt.Errorf("handler %q state: %w", h.HandlerID(), err)
			}
			rec.State = state
		}
		out = append(out, rec)
	}
	return out, nil
}

// restoreHandlers re-applies saved listener state by ID. Saved handlers
// the session no longer registers are dropped silently.
func (m *GameManager) restoreHandlers(recs []persist.HandlerRecord) error {
	for _, rec := range recs {
		h := m.events.Handler(rec.ID)
		if h == nil {
			continue
		}
		if sh, ok := h.(event.StatefulHandler); ok && rec.State != nil {
			if err := sh.UnmarshalState(rec.State); err != nil {
				return fmt.Errorf("handler %q state: %w", rec.ID, err)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
