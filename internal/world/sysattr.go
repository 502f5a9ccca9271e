package world

import (
	"fmt"

	"github.com/pixil98/go-fiction/internal/attr"
)

// SystemAttrs holds the indices of the permanent engine attributes. They
// are registered once, before the registry's system watermark is frozen,
// and survive every game load/unload cycle.
type SystemAttrs struct {
	Visited  int // room has been entered at least once
	Openable int // entity can be opened and closed
	Open     int // entity is currently open
	Locked   int // entity resists opening and traversal
	Takeable int // entity can be picked up
}

// RegisterSystemAttributes claims the engine's permanent attributes on a
// fresh registry and freezes the system watermark.
func RegisterSystemAttributes(reg *attr.Registry) (SystemAttrs, error) {
	var sys SystemAttrs
	var err error

	register := func(name string, dst *int) {
		if err != nil {
			return
		}
		*dst, err = reg.Register(name)
	}

	register("visited", &sys.Visited)
	register("openable", &sys.Openable)
	register("open", &sys.Open)
	register("locked", &sys.Locked)
	register("takeable", &sys.Takeable)
	if err != nil {
		return sys, fmt.Errorf("registering system attributes: %w", err)
	}

	if err := reg.MarkSystemDone(); err != nil {
		return sys, err
	}
	return sys, nil
}
