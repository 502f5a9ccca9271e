package world

// Kind identifies which variant of container an object is.
type Kind int

const (
	KindRoom Kind = iota
	KindEntity
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindEntity:
		return "entity"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Container is the capability shared by rooms, container entities, and the
// player. Contents are ordered and duplicate-free, and an entity is a
// member of exactly one container's list at any time; adding an entity to
// a container removes it from its previous one and keeps the entity's
// holder back-reference in agreement with the membership list.
type Container interface {
	Kind() Kind
	ContainerID() string
	Contents() []*Entity
	AddContent(e *Entity)
	RemoveContent(e *Entity)
	ClearContents()
}

// contents is the list-backed implementation shared by all three container
// variants. The owner pointer lets it maintain holder back-references.
type contents struct {
	owner Container
	items []*Entity
}

// Contents returns a copy of the contained entities in insertion order.
func (c *contents) Contents() []*Entity {
	out := make([]*Entity, len(c.items))
	copy(out, c.items)
	return out
}

// AddContent appends e, reparenting it away from its previous holder.
// Adding an entity to the container it is already in is a no-op.
func (c *contents) AddContent(e *Entity) {
	if e == nil || e.holder == c.owner {
		return
	}
	if e.holder != nil {
		e.holder.RemoveContent(e)
	}
	c.items = append(c.items, e)
	e.holder = c.owner
}

// RemoveContent removes e from the list and clears its holder
// back-reference. Removing a non-member is a no-op.
func (c *contents) RemoveContent(e *Entity) {
	for i, it := range c.items {
		if it == e {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if e.holder == c.owner {
				e.holder = nil
			}
			return
		}
	}
}

// ClearContents empties the list, clearing every member's back-reference.
func (c *contents) ClearContents() {
	for _, it := range c.items {
		if it.holder == c.owner {
			it.holder = nil
		}
	}
	c.items = nil
}

func (c *contents) contains(e *Entity) bool {
	for _, it := range c.items {
		if it == e {
			return true
		}
	}
	return false
}
