package attr

import "fmt"

// Registry assigns stable integer indices to attribute names. Indices are
// handed out monotonically starting at zero and are never reused while the
// registry is open. A watermark set by MarkSystemDone separates the
// permanent engine attributes from the revocable attributes a loaded game
// registers on top; ClearGameAttributes truncates back to that watermark
// when the game unloads.
//
// Index assignment is registration-order-dependent, so the same name can
// map to different indices across engine or game versions. Saved attribute
// vectors are reconciled against the live layout by a Permuter.
type Registry struct {
	names       []string
	index       map[string]int
	systemCount int
	systemDone  bool
}

// NewRegistry creates an empty attribute registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register assigns the next free index to name. Registering a name twice
// is an error; callers own their names and must not double-register.
func (r *Registry) Register(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("attribute name is required")
	}
	if i, ok := r.index[name]; ok {
		return i, fmt.Errorf("attribute %q already registered at index %d", name, i)
	}

	i := len(r.names)
	r.names = append(r.names, name)
	r.index[name] = i
	return i, nil
}

// MarkSystemDone freezes the set of permanent attributes. It may be called
// exactly once, after the engine has registered its own attributes and
// before any game attributes are added.
func (r *Registry) MarkSystemDone() error {
	if r.systemDone {
		return fmt.Errorf("system attributes already frozen at %d", r.systemCount)
	}
	r.systemCount = len(r.names)
	r.systemDone = true
	return nil
}

// ClearGameAttributes truncates the registry back to the frozen system
// watermark, revoking every attribute a game registered.
func (r *Registry) ClearGameAttributes() {
	for _, name := range r.names[r.systemCount:] {
		delete(r.index, name)
	}
	r.names = r.names[:r.systemCount]
}

// Count returns the number of registered attributes.
func (r *Registry) Count() int {
	return len(r.names)
}

// SystemCount returns the frozen system watermark.
func (r *Registry) SystemCount() int {
	return r.systemCount
}

// Name returns the attribute name at index i.
func (r *Registry) Name(i int) (string, bool) {
	if i < 0 || i >= len(r.names) {
		return "", false
	}
	return r.names[i], true
}

// Index returns the index assigned to name.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Names returns a snapshot of all registered names in registration order.
// This ordered list is what a snapshot persists alongside attribute bytes.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
