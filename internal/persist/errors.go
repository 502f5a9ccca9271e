package persist

import "errors"

var (
	// ErrMalformedSave marks save data that cannot be decoded.
	ErrMalformedSave = errors.New("malformed save data")

	// ErrUnknownGame marks a save naming a game this installation does
	// not have.
	ErrUnknownGame = errors.New("unknown game")

	// ErrNoSlot marks a missing save slot.
	ErrNoSlot = errors.New("no such save slot")
)
