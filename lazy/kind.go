package lazy

// Kind classifies the shape of a placeholder's target.
type Kind int

const (
	// KindScalar targets a single entity.
	KindScalar Kind = iota
	// KindSeq targets an ordered sequence (a slice).
	KindSeq
	// KindSet targets a set, represented as map[K]struct{}.
	KindSet
	// KindMap targets an associative map.
	KindMap
	// KindArray targets a fixed-size array.
	KindArray
)

// String returns the kind's lowercase name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSeq:
		return "seq"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// IsContainer reports whether the kind describes a container shape.
func (k Kind) IsContainer() bool {
	return k != KindScalar
}
