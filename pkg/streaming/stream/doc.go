/*
Package stream provides lazy, chainable pipelines over in-memory and
generated sequences.

Core Concepts:

A Stream is an immutable pipeline stage. Streams are:
  - Lazy: nothing runs until a terminal operation pulls items through the chain
  - Re-iterable: every terminal operation produces the source afresh
  - Pull-based: items flow one at a time, and Take stops the upstream exactly at n
  - Self-describing: each stage carries capability flags (see package source)

Basic Usage:

	evens := stream.From([]int{1, 2, 3, 4, 5, 6}).
		Filter(func(x int) bool { return x%2 == 0 })

	doubled, err := stream.Map(evens, func(x int) int { return x * 2 }).ToSlice()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doubled) // [4 8 12]

Type-changing operations (Map, FlatMap, GroupBy, Join, Fold, ...) are
package functions because Go methods cannot introduce type parameters.

Stream Creation:

	stream.From(slice)              // shares slice, never mutates it
	stream.Of(1, 2, 3)
	stream.FromSeq(maps.Keys(m))
	stream.FromFunc(loadRows)       // expensive: loadRows runs per iteration
	stream.FromChannel(ch)          // one-shot
	stream.FromJSON(body, "items")  // lazy over a JSON array
	stream.Range(0, 10, 2)
	stream.Generate(func(i int) int { return i * i }) // infinite

Infinite Streams:

Generate, RangeFrom and Repeat(x, Unbounded) are infinite. The taint
survives Map, Filter, Concat and the like, and is cleared by Take with a
finite count. Operations that need the whole input (ToSlice, Reduce, Fold,
Sort, GroupBy, joins, Every, ...) fail with ErrNeverEnding instead of
hanging:

	_, err := stream.Generate(rand.Int).Filter(isPrime).ToSlice()
	errors.Is(err, lferrors.ErrNeverEnding) // true

	first, _ := stream.Generate(rand.Int).Filter(isPrime).Take(5).ToSlice()

Failures:

Combinators never panic and never return errors. A stage that cannot be
built (negative count, nil function, finite-only operation on an infinite
stage) is a failed stage; its error is carried through every derived stage
and returned by the terminal operation. Stream.Err reports it early.

Sorting:

SortBy returns a *Sorted. ThenBy extends the ordering and re-sorts the
original input, so ties are always broken by the full key sequence and then
by input order. Take on a sorted stream keeps only the n smallest elements
seen so far instead of sorting everything:

	top := stream.From(orders).
		SortByDescending(order.KeyOf(func(o Order) float64 { return o.Total })).
		ThenBy(order.KeyOf(func(o Order) string { return o.ID })).
		Take(10)

Joins and Groups:

Join, LeftJoin and GroupJoin index the inner stream by key and scan the
outer stream once; their Where variants take a predicate and compare
every pair. GroupBy keeps keys in first-occurrence order.

	rows := stream.LeftJoin(customers, orders,
		func(c Customer) int { return c.ID },
		func(o Order) int { return o.CustomerID },
		func(c Customer, o Order, ok bool) Row { return Row{c, o, ok} })

Fresh Buffers:

Stages that build a new slice on every iteration (Sort, Reverse, Shuffle,
Collapse, GroupBy) are fresh. Downstream stages reuse such a buffer in
place, and ToSlice hands it to the caller without copying. ToSlice over a
stage built from caller data always copies.
*/
package stream
