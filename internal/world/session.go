package world

// Session is the surface impls use to talk back to the running game.
// The engine's GameManager implements it; impls never reach into the
// engine directly.
type Session interface {
	// Print appends player-visible text to the turn's output buffer.
	Print(text string)
	// Printf is Print with formatting.
	Printf(format string, args ...any)
	// NewPar guarantees the next printed text starts a new paragraph.
	NewPar()
	// QueueLook schedules a room re-description at the end of the turn.
	QueueLook()
	// RequestEnd signals end-of-game; the session is torn down once the
	// current turn completes.
	RequestEnd()
	// EntityChanged/RoomChanged mark an object dirty for the coalesced
	// end-of-turn UI refresh.
	EntityChanged(e *Entity)
	RoomChanged(r *Room)

	CurrentRoom() *Room
	Player() *Player
}
