package engine

import "errors"

var (
	// ErrNoGame marks operations that need a running session.
	ErrNoGame = errors.New("no game in progress")
)
