package storage

import (
	"encoding/json"
	"fmt"
)

// ExtensionState is the open-ended config block a game definition can
// attach to a room or entity. Each key names the impl that reads it;
// the value stays raw JSON until that impl asks for it, so the core
// never needs to know the shape of any game's config.
type ExtensionState map[string]json.RawMessage

// Set marshals v and stores it under key, allocating the map on first
// use so the zero value works.
func (e *ExtensionState) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal extension %q: %w", key, err)
	}
	if *e == nil {
		*e = ExtensionState{}
	}
	(*e)[key] = b
	return nil
}

// Get unmarshals the value under key into out. The first return is
// false when the key is absent; a present value that fails to decode
// reports (true, error).
func (e ExtensionState) Get(key string, out any) (bool, error) {
	raw, ok := e[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal extension %q: %w", key, err)
	}
	return true, nil
}

// Delete removes key, tolerating a nil map.
func (e ExtensionState) Delete(key string) {
	delete(e, key)
}
