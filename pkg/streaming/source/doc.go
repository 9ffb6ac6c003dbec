/*
Package source describes where a stream stage gets its elements from and
what downstream operations may assume about them.

A Descriptor pairs a Produce function with capability Flags. Every call to
Produce returns a Snapshot: one independent iteration over the stage's
logical contents, optionally backed by a concrete slice.

Capability flags:

  - Fresh: every Produce call returns a newly allocated slice that the
    caller may mutate. Never set when the slice is shared with
    caller-supplied data.
  - Expensive: producing the snapshot costs more than O(1) (sorting,
    indexing, copying). Downstream stages avoid calling Produce more than
    once per terminal operation.
  - Infinite: the stage may never end. Sync streams only. The flag is a
    conservative taint: it survives every combinator that keeps the
    stage unbounded and is cleared only by bounding ones such as Take.

Combinators derive their output flags with the helpers on Flags:

	Wrap          per-item transforms (map, filter): keeps Infinite only
	View          slice views (take, skip over a slice): keeps Fresh
	Materialized  sort, reverse, shuffle, collapse: Fresh and Expensive
	Indexed       join and group stages: Expensive
	Union         concatenation: Infinite if either side is
*/
package source
