package stubber

// DefaultNestedThreshold is the free-heap floor, in bytes, under which the
// optional nested-module branch is skipped.
const DefaultNestedThreshold = 3200

// Governor gates optional traversal work on the freshest free-heap reading.
// It never owns memory; it only answers whether an optional branch may
// proceed right now. Callers must re-ask before every decision because the
// heap drains continuously and there is no reservation system.
type Governor struct {
	// MemFree reports free heap in bytes. A nil func disables gating.
	MemFree func() int
	// Threshold is the minimum free heap required for nested expansion.
	Threshold int
}

// AllowNested reports whether the nested-module branch may run.
func (g *Governor) AllowNested() bool {
	if g == nil || g.MemFree == nil {
		return true
	}
	return g.MemFree() >= g.Threshold
}
