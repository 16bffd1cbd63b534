package admin

// Set is an immutable set of trusted user ids, built once at start.
type Set struct {
	ids map[int64]struct{}
}

// NewSet builds a set from ids. Duplicates are collapsed.
func NewSet(ids []int64) *Set {
	s := &Set{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is an admin. A nil set contains nobody.
func (s *Set) Contains(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of admins.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}
