package prefetch

// ExclusionSet tracks the correct answers already produced in a session
// so the content source is steered away from repeating them. It grows
// monotonically; Clear is for session resets only.
//
// Not safe for concurrent use on its own; the Buffer serializes access.
type ExclusionSet struct {
	seen  map[string]struct{}
	order []string
}

// NewExclusionSet returns an empty set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{seen: make(map[string]struct{})}
}

// Add records key. Adding a key twice is a no-op.
func (s *ExclusionSet) Add(key string) {
	if key == "" {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
}

// Snapshot returns a copy of the keys, oldest first. The copy stays
// valid while the set keeps growing.
func (s *ExclusionSet) Snapshot() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of keys recorded.
func (s *ExclusionSet) Len() int {
	return len(s.order)
}

// Clear empties the set. Only session resets call this.
func (s *ExclusionSet) Clear() {
	s.seen = make(map[string]struct{})
	s.order = nil
}
