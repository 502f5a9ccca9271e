package persist

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Write gob-encodes the snapshot onto w.
func Write(w io.Writer, st *GameState) error {
	if err := gob.NewEncoder(w).Encode(st); err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r. Any decode failure is reported as
// ErrMalformedSave; the caller cannot distinguish truncation from
// corruption and should not try.
func Read(r io.Reader) (*GameState, error) {
	var st GameState
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	if st.GameName == "" {
		return nil, fmt.Errorf("%w: missing game name", ErrMalformedSave)
	}
	return &st, nil
}
