package stubber

import "github.com/flarebyte/seshat-stubs/internal/firmware"

// Category is the stub shape assigned to one runtime value.
type Category int

const (
	// Opaque is the catch-all: the attribute's name survives, its type does not.
	Opaque Category = iota
	// Callable values become zero-argument placeholder definitions.
	Callable
	// PrimitiveLiteral values become name = <repr> assignments.
	PrimitiveLiteral
	// CompositeType values become class blocks at the top level only.
	CompositeType
)

func (c Category) String() string {
	switch c {
	case Callable:
		return "callable"
	case PrimitiveLiteral:
		return "literal"
	case CompositeType:
		return "composite"
	default:
		return "opaque"
	}
}

// Type tags as the runtimes report them. The sets cover the Lua device
// runtime, the yaegi host runtime and Python-style firmware tags; an
// unknown tag falls through to Opaque, never to an error.
var (
	callableTags  = tagSet("function", "bound_method", "closure", "func")
	literalTags   = tagSet("str", "string", "int", "int64", "float", "float64", "number")
	compositeTags = tagSet("type", "class", "table", "struct")
)

func tagSet(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

// Classify maps a live value to its stub category. Pure and total: every
// value lands in exactly one category, with Opaque as the default.
func Classify(v firmware.Value) Category {
	if v == nil {
		return Opaque
	}
	tag := v.TypeTag()
	switch {
	case callableTags[tag]:
		return Callable
	case literalTags[tag]:
		return PrimitiveLiteral
	case compositeTags[tag]:
		return CompositeType
	default:
		return Opaque
	}
}
