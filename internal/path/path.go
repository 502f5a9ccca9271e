// Package path finds routes through the room graph.
package path

import (
	"github.com/pixil98/go-fiction/internal/world"
)

// FindPath returns the shortest route from one room to another,
// excluding the starting room. It returns an empty slice when from and
// to are the same room and nil when no route exists.
//
// Edges are the room's exit slots plus any door entity in the room's
// contents that can currently be passed: open, or closed but unlocked.
func FindPath(from, to *world.Room, sys world.SystemAttrs) []*world.Room {
	if from == nil || to == nil {
		return nil
	}
	if from == to {
		return []*world.Room{}
	}

	prev := map[*world.Room]*world.Room{from: nil}
	queue := []*world.Room{from}

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		for _, next := range neighbors(r, sys) {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = r

			if next == to {
				return walkBack(prev, from, to)
			}
			queue = append(queue, next)
		}
	}

	return nil
}

func neighbors(r *world.Room, sys world.SystemAttrs) []*world.Room {
	var out []*world.Room

	for d := world.Direction(0); d < world.NumDirections; d++ {
		if next := r.Exit(d); next != nil {
			out = append(out, next)
		}
	}

	for _, e := range r.Contents() {
		door, ok := world.AsDoor(e)
		if !ok || !passable(e, sys) {
			continue
		}
		if next := door.OtherSide(e, r); next != nil {
			out = append(out, next)
		}
	}

	return out
}

// passable reports whether a door can be traversed right now. A closed
// door still counts as long as it is unlocked.
func passable(e *world.Entity, sys world.SystemAttrs) bool {
	return e.Attrs().Get(sys.Open) || !e.Attrs().Get(sys.Locked)
}

func walkBack(prev map[*world.Room]*world.Room, from, to *world.Room) []*world.Room {
	var rev []*world.Room
	for r := to; r != from; r = prev[r] {
		rev = append(rev, r)
	}

	out := make([]*world.Room, len(rev))
	for i, r := range rev {
		out[len(rev)-1-i] = r
	}
	return out
}
