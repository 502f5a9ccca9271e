package event

import "github.com/pixil98/go-fiction/internal/world"

// Closure-backed adapters so games and impls can register listeners
// without declaring a type per hook. Nil funcs are treated as
// not-consumed / no-op. Registration identity is the adapter pointer.

type GameActionFunc struct {
	ID     string
	Before func(e *world.Entity, action string) bool
	After  func(e *world.Entity, action string) bool
}

func (f *GameActionFunc) HandlerID() string { return f.ID }

func (f *GameActionFunc) BeforeAction(e *world.Entity, action string) bool {
	if f.Before == nil {
		return false
	}
	return f.Before(e, action)
}

func (f *GameActionFunc) AfterAction(e *world.Entity, action string) bool {
	if f.After == nil {
		return false
	}
	return f.After(e, action)
}

type MovementFunc struct {
	ID     string
	Before func(from, to *world.Room) bool
	After  func(from, to *world.Room) bool
}

func (f *MovementFunc) HandlerID() string { return f.ID }

func (f *MovementFunc) BeforeMove(from, to *world.Room) bool {
	if f.Before == nil {
		return false
	}
	return f.Before(from, to)
}

func (f *MovementFunc) AfterMove(from, to *world.Room) bool {
	if f.After == nil {
		return false
	}
	return f.After(from, to)
}

type TurnFunc struct {
	ID string
	Fn func()
}

func (f *TurnFunc) HandlerID() string { return f.ID }

func (f *TurnFunc) Turn() {
	if f.Fn != nil {
		f.Fn()
	}
}

type EntityActionsFunc struct {
	ID string
	Fn func(e *world.Entity, actions *[]string)
}

func (f *EntityActionsFunc) HandlerID() string { return f.ID }

func (f *EntityActionsFunc) ProcessActions(e *world.Entity, actions *[]string) {
	if f.Fn != nil {
		f.Fn(e, actions)
	}
}

type SelectionFunc struct {
	ID string
	Fn func(e *world.Entity) bool
}

func (f *SelectionFunc) HandlerID() string { return f.ID }

func (f *SelectionFunc) EntitySelected(e *world.Entity) bool {
	if f.Fn == nil {
		return false
	}
	return f.Fn(e)
}

type OutputFunc struct {
	ID string
	Fn func(text string) string
}

func (f *OutputFunc) HandlerID() string { return f.ID }

func (f *OutputFunc) RewriteOutput(text string) string {
	if f.Fn == nil {
		return text
	}
	return f.Fn(text)
}

type LookFunc struct {
	ID string
	Fn func(r *world.Room)
}

func (f *LookFunc) HandlerID() string { return f.ID }

func (f *LookFunc) Looked(r *world.Room) {
	if f.Fn != nil {
		f.Fn(r)
	}
}
