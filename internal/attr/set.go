package attr

// Set is a growable bit vector holding one boolean attribute per index.
// Indices are assigned by a Registry; the Set itself is pure data and
// does not know which names its bits carry.
type Set struct {
	bits []byte
}

// NewSet creates an empty attribute set.
func NewSet() *Set {
	return &Set{}
}

// Get reports whether bit i is set. Indices past the end of the vector
// read as false, never as an error.
func (s *Set) Get(i int) bool {
	if i < 0 || i/8 >= len(s.bits) {
		return false
	}
	return s.bits[i/8]&(1<<uint(i%8)) != 0
}

// Set sets bit i, growing the vector as needed.
func (s *Set) Set(i int) {
	if i < 0 {
		return
	}
	s.grow(i)
	s.bits[i/8] |= 1 << uint(i%8)
}

// Clear clears bit i. Clearing past the end is a no-op.
func (s *Set) Clear(i int) {
	if i < 0 || i/8 >= len(s.bits) {
		return
	}
	s.bits[i/8] &^= 1 << uint(i%8)
}

// Toggle flips bit i.
func (s *Set) Toggle(i int) {
	if s.Get(i) {
		s.Clear(i)
	} else {
		s.Set(i)
	}
}

// SetTo replaces the contents of s with a copy of other's bits.
func (s *Set) SetTo(other *Set) {
	if other == nil {
		s.bits = nil
		return
	}
	s.bits = append([]byte(nil), other.bits...)
}

// Copy returns a deep, independent clone of s.
func (s *Set) Copy() *Set {
	c := NewSet()
	c.SetTo(s)
	return c
}

// Bytes serializes the set. The result is trimmed of trailing zero
// bytes, so its length is a function of the highest set bit rather
// than of the registry size.
func (s *Set) Bytes() []byte {
	end := len(s.bits)
	for end > 0 && s.bits[end-1] == 0 {
		end--
	}
	return append([]byte(nil), s.bits[:end]...)
}

// SetBytes replaces the contents of s with the given serialized form.
func (s *Set) SetBytes(b []byte) {
	s.bits = append([]byte(nil), b...)
}

// Equal reports whether s and other carry the same bits, ignoring
// trailing zero bytes.
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return len(s.Bytes()) == 0
	}
	a, b := s.Bytes(), other.Bytes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Set) grow(i int) {
	need := i/8 + 1
	for len(s.bits) < need {
		s.bits = append(s.bits, 0)
	}
}
