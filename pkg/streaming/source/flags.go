package source

import "strings"

// Flags are the capability flags of a stream stage.
type Flags struct {
	Fresh     bool
	Expensive bool
	Infinite  bool
}

// Wrap returns the flags of a per-item transform over a stage with f.
func (f Flags) Wrap() Flags {
	return Flags{Infinite: f.Infinite}
}

// Bounded returns f with the Infinite taint cleared.
func (f Flags) Bounded() Flags {
	f.Infinite = false
	return f
}

// View returns the flags of a contiguous view over a stage with f. A view
// of a fresh slice is still exclusively owned by the caller.
func (f Flags) View() Flags {
	return Flags{Fresh: f.Fresh, Infinite: f.Infinite}
}

// Materialized returns the flags of a stage that copies its whole input
// into a new slice on every produce.
func Materialized() Flags {
	return Flags{Fresh: true, Expensive: true}
}

// Indexed returns the flags of a stage that builds an index before
// yielding anything.
func Indexed() Flags {
	return Flags{Expensive: true}
}

// Union returns the flags of the concatenation of stages with f and other.
// The result is never fresh; it is expensive or infinite if either part is.
func (f Flags) Union(other Flags) Flags {
	return Flags{
		Expensive: f.Expensive || other.Expensive,
		Infinite:  f.Infinite || other.Infinite,
	}
}

func (f Flags) String() string {
	var parts []string
	if f.Fresh {
		parts = append(parts, "fresh")
	}
	if f.Expensive {
		parts = append(parts, "expensive")
	}
	if f.Infinite {
		parts = append(parts, "infinite")
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ",") + "}"
}
