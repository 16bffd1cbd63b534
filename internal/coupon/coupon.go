package coupon

// Generator produces promo codes.
type Generator interface {
	// Generate returns a fresh code for prefix that is not in taken.
	// A nil taken set means no code has been issued yet.
	Generate(prefix string, taken CodeSet) (string, error)
}

// CodeSet represents a set of issued codes for fast lookup.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}
