package engine

import "github.com/pixil98/go-fiction/internal/persist"

// Option configures a GameManager at construction.
type Option func(*GameManager)

// WithSlotStore enables SaveGame and LoadGame.
func WithSlotStore(s *persist.SlotStore) Option {
	return func(m *GameManager) {
		m.slots = s
	}
}

// WithNamespace exposes session objects to a host scripting surface.
func WithNamespace(ns Namespace) Option {
	return func(m *GameManager) {
		m.ns = ns
	}
}

// WithAlwaysLook re-describes rooms on every entry, not just the first.
func WithAlwaysLook(v bool) Option {
	return func(m *GameManager) {
		m.alwaysLook = v
	}
}
