// Package event holds the ordered listener registries the turn engine
// dispatches through. Each of the seven categories has its own dispatch
// semantics; what they share is ordering: new listeners are inserted at
// the front, so the most-recently-added fires first and a game can
// override default handling without removing the default.
package event

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-fiction/internal/world"
)

// AnonymousPrefix marks handler IDs that are ephemeral: they are never
// written to a snapshot and never restored.
const AnonymousPrefix = "#"

// AnonymousID mints a fresh ephemeral handler ID.
func AnonymousID() string {
	return AnonymousPrefix + uuid.New().String()
}

// Handler is the base of every listener: a stable string ID. IDs starting
// with AnonymousPrefix are treated as anonymous.
type Handler interface {
	HandlerID() string
}

// StatefulHandler is implemented by handlers whose state survives a
// snapshot as an opaque blob.
type StatefulHandler interface {
	Handler
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// GameActionHandler intercepts entity actions. Both passes short-circuit:
// iteration stops at the first handler returning true, and a true from
// the before pass skips default processing entirely.
type GameActionHandler interface {
	Handler
	BeforeAction(e *world.Entity, action string) bool
	AfterAction(e *world.Entity, action string) bool
}

// MovementHandler intercepts player movement with the same
// before/after short-circuit contract as GameActionHandler.
type MovementHandler interface {
	Handler
	BeforeMove(from, to *world.Room) bool
	AfterMove(from, to *world.Room) bool
}

// TurnHandler fires every turn, unconditionally, with no short-circuit.
type TurnHandler interface {
	Handler
	Turn()
}

// EntityActionsProcessor edits an entity's action list in place before it
// reaches the UI. All processors fire in order; later processors see
// earlier processors' edits.
type EntityActionsProcessor interface {
	Handler
	ProcessActions(e *world.Entity, actions *[]string)
}

// SelectionHandler observes UI entity selection. A true return stops
// notifying further listeners.
type SelectionHandler interface {
	Handler
	EntitySelected(e *world.Entity) bool
}

// OutputProcessor rewrites the accumulated, not-yet-flushed output text.
// All processors fire in order.
type OutputProcessor interface {
	Handler
	RewriteOutput(text string) string
}

// LookHandler observes completed looks. All fire.
type LookHandler interface {
	Handler
	Looked(r *world.Room)
}

// Manager owns the seven listener lists. It is cleared en masse when a
// game session ends.
type Manager struct {
	gameAction    []GameActionHandler
	movement      []MovementHandler
	turn          []TurnHandler
	entityActions []EntityActionsProcessor
	selection     []SelectionHandler
	output        []OutputProcessor
	look          []LookHandler
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// addFront prepends h unless an identical handler is already registered.
func addFront[H comparable](list []H, h H) []H {
	for _, existing := range list {
		if existing == h {
			return list
		}
	}
	return append([]H{h}, list...)
}

func removeHandler[H comparable](list []H, h H) []H {
	for i, existing := range list {
		if existing == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (m *Manager) AddGameActionHandler(h GameActionHandler) {
	m.gameAction = addFront(m.gameAction, h)
}

func (m *Manager) RemoveGameActionHandler(h GameActionHandler) {
	m.gameAction = removeHandler(m.gameAction, h)
}

// FireBeforeAction reports whether any handler consumed the action.
func (m *Manager) FireBeforeAction(e *world.Entity, action string) bool {
	for _, h := range m.gameAction {
		if h.BeforeAction(e, action) {
			return true
		}
	}
	return false
}

// FireAfterAction reports whether any handler consumed the notification.
func (m *Manager) FireAfterAction(e *world.Entity, action string) bool {
	for _, h := range m.gameAction {
		if h.AfterAction(e, action) {
			return true
		}
	}
	return false
}

func (m *Manager) AddMovementHandler(h MovementHandler) {
	m.movement = addFront(m.movement, h)
}

func (m *Manager) RemoveMovementHandler(h MovementHandler) {
	m.movement = removeHandler(m.movement, h)
}

// FireBeforeMove reports whether any handler blocked the move.
func (m *Manager) FireBeforeMove(from, to *world.Room) bool {
	for _, h := range m.movement {
		if h.BeforeMove(from, to) {
			return true
		}
	}
	return false
}

func (m *Manager) FireAfterMove(from, to *world.Room) bool {
	for _, h := range m.movement {
		if h.AfterMove(from, to) {
			return true
		}
	}
	return false
}

func (m *Manager) AddTurnHandler(h TurnHandler) {
	m.turn = addFront(m.turn, h)
}

func (m *Manager) RemoveTurnHandler(h TurnHandler) {
	m.turn = removeHandler(m.turn, h)
}

func (m *Manager) FireTurn() {
	for _, h := range m.turn {
		h.Turn()
	}
}

func (m *Manager) AddEntityActionsProcessor(h EntityActionsProcessor) {
	m.entityActions = addFront(m.entityActions, h)
}

func (m *Manager) RemoveEntityActionsProcessor(h EntityActionsProcessor) {
	m.entityActions = removeHandler(m.entityActions, h)
}

// FireProcessActions runs every processor over the caller-owned action
// list, in order, with no short-circuit.
func (m *Manager) FireProcessActions(e *world.Entity, actions *[]string) {
	for _, h := range m.entityActions {
		h.ProcessActions(e, actions)
	}
}

func (m *Manager) AddSelectionHandler(h SelectionHandler) {
	m.selection = addFront(m.selection, h)
}

func (m *Manager) RemoveSelectionHandler(h SelectionHandler) {
	m.selection = removeHandler(m.selection, h)
}

// FireEntitySelected reports whether any handler consumed the
// selection.
func (m *Manager) FireEntitySelected(e *world.Entity) bool {
	for _, h := range m.selection {
		if h.EntitySelected(e) {
			return true
		}
	}
	return false
}

func (m *Manager) AddOutputProcessor(h OutputProcessor) {
	m.output = addFront(m.output, h)
}

func (m *Manager) RemoveOutputProcessor(h OutputProcessor) {
	m.output = removeHandler(m.output, h)
}

// RewriteOutput threads the buffered text through every processor.
func (m *Manager) RewriteOutput(text string) string {
	for _, h := range m.output {
		text = h.RewriteOutput(text)
	}
	return text
}

func (m *Manager) AddLookHandler(h LookHandler) {
	m.look = addFront(m.look, h)
}

func (m *Manager) RemoveLookHandler(h LookHandler) {
	m.look = removeHandler(m.look, h)
}

func (m *Manager) FireLook(r *world.Room) {
	for _, h := range m.look {
		h.Looked(r)
	}
}

// Clear drops every listener in every category at once. Called when a
// game session ends so games never unregister listeners one by one.
func (m *Manager) Clear() {
	*m = Manager{}
}

// Handler finds a registered handler by ID across all categories.
func (m *Manager) Handler(id string) Handler {
	for _, h := range m.all() {
		if h.HandlerID() == id {
			return h
		}
	}
	return nil
}

// PersistableHandlers returns every registered handler whose ID is not
// anonymous, in category then list order.
func (m *Manager) PersistableHandlers() []Handler {
	var out []Handler
	for _, h := range m.all() {
		if !strings.HasPrefix(h.HandlerID(), AnonymousPrefix) {
			out = append(out, h)
		}
	}
	return out
}

func (m *Manager) all() []Handler {
	var out []Handler
	for _, h := range m.gameAction {
		out = append(out, h)
	}
	for _, h := range m.movement {
		out = append(out, h)
	}
	for _, h := range m.turn {
		out = append(out, h)
	}
	for _, h := range m.entityActions {
		out = append(out, h)
	}
	for _, h := range m.selection {
		out = append(out, h)
	}
	for _, h := range m.output {
		out = append(out, h)
	}
	for _, h := range m.look {
		out = append(out, h)
	}
	return out
}
