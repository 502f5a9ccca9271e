package world

// Reparent moves e into to, detaching it from its previous holder. Moving
// an entity into the container it already occupies is a true no-op with
// zero side effects.
func Reparent(e *Entity, to Container) {
	if e == nil || to == nil || e.holder == to {
		return
	}
	to.AddContent(e)
}

// Descendants returns every entity transitively reachable through nested
// containers, in BFS discovery order, each exactly once. It uses a work
// queue rather than recursion so deep container nesting cannot grow the
// stack.
func Descendants(c Container) []*Entity {
	if c == nil {
		return nil
	}

	var out []*Entity
	seen := make(map[*Entity]bool)
	queue := c.Contents()
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if e.IsContainer() {
			queue = append(queue, e.Contents()...)
		}
	}
	return out
}

// IsAncestor reports whether candidate transitively contains target. The
// player is a dead end on the upward walk unless candidate is the current
// room: inventory conceptually lives in the current room for scope
// purposes.
func IsAncestor(candidate Container, target *Entity, current *Room) bool {
	if candidate == nil || target == nil {
		return false
	}

	seen := make(map[*Entity]bool)
	holder := target.Holder()
	for holder != nil {
		if holder == candidate {
			return true
		}
		switch h := holder.(type) {
		case *Player:
			return current != nil && candidate == Container(current)
		case *Entity:
			if seen[h] {
				return false
			}
			seen[h] = true
			holder = h.Holder()
		default:
			// A room that is not the candidate ends the walk.
			return false
		}
	}
	return false
}

// RoomOf walks holder back-references upward from e until a room is
// reached. Entities held by the player resolve to the current room.
// Returns nil for a loose entity, and also if a malformed containment
// cycle is encountered rather than looping forever.
func RoomOf(e *Entity, current *Room) *Room {
	if e == nil {
		return nil
	}

	seen := make(map[*Entity]bool)
	holder := e.Holder()
	for holder != nil {
		switch h := holder.(type) {
		case *Room:
			return h
		case *Player:
			return current
		case *Entity:
			if seen[h] {
				return nil
			}
			seen[h] = true
			holder = h.Holder()
		default:
			return nil
		}
	}
	return nil
}
