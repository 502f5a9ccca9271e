package world

// Door is implemented by entity impls that connect two rooms. A door
// entity sits in the contents of one or both of its rooms; pathfinding
// and movement discover the far side through this interface.
type Door interface {
	// OtherSide returns the room the door leads to when traversed from
	// the given side, or nil if from is not one of its sides.
	OtherSide(e *Entity, from *Room) *Room
}

// AsDoor returns the door behavior of an entity, if its impl provides one.
func AsDoor(e *Entity) (Door, bool) {
	if e == nil {
		return nil, false
	}
	d, ok := e.Impl().(Door)
	return d, ok
}

// DoorImpl is a two-sided connector entity: it joins SideA and SideB and
// tracks open/locked through the system attributes.
type DoorImpl struct {
	BaseEntityImpl
	SideA *Room
	SideB *Room

	Sys SystemAttrs
}

const (
	ActionOpen  = "open"
	ActionClose = "close"
)

func (d *DoorImpl) OtherSide(e *Entity, from *Room) *Room {
	switch from {
	case d.SideA:
		return d.SideB
	case d.SideB:
		return d.SideA
	default:
		return nil
	}
}

func (d *DoorImpl) Actions(e *Entity) []string {
	if !e.Attrs().Get(d.Sys.Openable) {
		return nil
	}
	if e.Attrs().Get(d.Sys.Open) {
		return []string{ActionClose}
	}
	return []string{ActionOpen}
}

func (d *DoorImpl) PerformAction(s Session, e *Entity, action string) bool {
	switch action {
	case ActionOpen:
		if e.Attrs().Get(d.Sys.Locked) {
			s.Printf("The %s is locked.", d.Name(e))
			return true
		}
		e.Attrs().Set(d.Sys.Open)
		s.Printf("You open the %s.", d.Name(e))
	case ActionClose:
		e.Attrs().Clear(d.Sys.Open)
		s.Printf("You close the %s.", d.Name(e))
	default:
		return false
	}
	s.EntityChanged(e)
	return true
}
