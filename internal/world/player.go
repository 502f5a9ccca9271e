package world

import (
	"fmt"

	"github.com/pixil98/go-fiction/internal/attr"
)

// PlayerID is the reserved object ID of the singleton player.
const PlayerID = "player"

// Player is the single actor. Its contents list is the inventory; its
// effective room is always the engine's current room.
type Player struct {
	attrs    *attr.Set
	equipped []*Entity

	contents
}

// NewPlayer creates an empty-handed player.
func NewPlayer() *Player {
	p := &Player{
		attrs: attr.NewSet(),
	}
	p.contents.owner = p
	return p
}

func (p *Player) Attrs() *attr.Set    { return p.attrs }
func (p *Player) Kind() Kind          { return KindPlayer }
func (p *Player) ContainerID() string { return PlayerID }

// Equip marks an inventory item as equipped. Only inventory members can
// be equipped.
func (p *Player) Equip(e *Entity) error {
	if !p.contains(e) {
		return fmt.Errorf("entity %q is not in inventory", e.ID())
	}
	if p.IsEquipped(e) {
		return nil
	}
	p.equipped = append(p.equipped, e)
	return nil
}

// Unequip removes the equipped mark. Unequipping a non-equipped entity is
// a no-op.
func (p *Player) Unequip(e *Entity) {
	for i, it := range p.equipped {
		if it == e {
			p.equipped = append(p.equipped[:i], p.equipped[i+1:]...)
			return
		}
	}
}

// IsEquipped reports whether e carries the equipped mark.
func (p *Player) IsEquipped(e *Entity) bool {
	for _, it := range p.equipped {
		if it == e {
			return true
		}
	}
	return false
}

// Equipped returns the equipped entities in equip order.
func (p *Player) Equipped() []*Entity {
	out := make([]*Entity, len(p.equipped))
	copy(out, p.equipped)
	return out
}

// RemoveContent drops the equipped mark of anything leaving the inventory.
func (p *Player) RemoveContent(e *Entity) {
	p.Unequip(e)
	p.contents.RemoveContent(e)
}

// ClearContents also clears the equipped list.
func (p *Player) ClearContents() {
	p.equipped = nil
	p.contents.ClearContents()
}
