/*
Package streaming groups the lazy sequence packages of lazyflow.

  - source: capability flags and deferred sources shared by both pipelines
  - stream: synchronous pipelines over iter.Seq
  - async: the same combinators over a pull source whose Next takes a context

Basic usage:

	names, err := stream.Map(
		stream.From(users).Filter(func(u User) bool { return u.Active }),
		func(u User) string { return u.Name },
	).ToSlice()

	// The async mirror honors cancellation at every pulled element.
	rows, err := async.FromSource[Row](cursor).Filter(valid).ToSlice(ctx)
*/
package streaming
