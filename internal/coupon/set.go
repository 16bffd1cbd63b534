package coupon

// MapCodeSet implements CodeSet using a map for O(1) lookups.
type MapCodeSet struct {
	codes map[string]struct{}
}

// NewCodeSet creates an empty map-based code set.
func NewCodeSet(capacity int) *MapCodeSet {
	return &MapCodeSet{
		codes: make(map[string]struct{}, capacity),
	}
}

// IssuedCodes builds a code set from a requester → code mapping.
func IssuedCodes(winners map[string]string) CodeSet {
	set := NewCodeSet(len(winners))
	for _, code := range winners {
		set.Add(code)
	}
	return set
}

// Contains checks if a code exists in the set.
func (s *MapCodeSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

// Size returns the number of codes in the set.
func (s *MapCodeSet) Size() int {
	return len(s.codes)
}

// Add adds a code to the set.
func (s *MapCodeSet) Add(code string) {
	s.codes[code] = struct{}{}
}
