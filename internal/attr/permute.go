package attr

// Permuter remaps attribute bit positions between a saved registry layout
// and the current one. It is built once per restore and applied to every
// attribute vector in the snapshot before any other attribute reads occur;
// stale bit positions are silently wrong rather than erroring, so this
// must be the first patch applied.
type Permuter struct {
	// saved index -> current index, -1 when the saved name no longer exists
	mapping []int
	// true when every saved name maps to its own index already
	identity bool
}

// NewPermuter builds the mapping from the snapshot's ordered attribute
// name list to the current registry. Saved names missing from the current
// registry map to nothing; their bits are dropped on Apply.
func NewPermuter(saved []string, current *Registry) *Permuter {
	p := &Permuter{
		mapping:  make([]int, len(saved)),
		identity: true,
	}
	for i, name := range saved {
		idx, ok := current.Index(name)
		if !ok {
			idx = -1
		}
		p.mapping[i] = idx
		if idx != i {
			p.identity = false
		}
	}
	return p
}

// Apply builds a fresh attribute vector with every saved bit moved to the
// index its name occupies in the current registry. Bits whose name was
// removed from the registry are dropped.
func (p *Permuter) Apply(saved []byte) []byte {
	if p.identity {
		return append([]byte(nil), saved...)
	}

	out := NewSet()
	for i := 0; i < len(saved)*8 && i < len(p.mapping); i++ {
		if saved[i/8]&(1<<uint(i%8)) == 0 {
			continue
		}
		if cur := p.mapping[i]; cur >= 0 {
			out.Set(cur)
		}
	}
	return out.Bytes()
}

// ApplySet is Apply for live sets: it replaces the contents of target with
// the permuted form of the saved bytes.
func (p *Permuter) ApplySet(saved []byte, target *Set) {
	target.SetBytes(p.Apply(saved))
}
