/*
Package async mirrors package stream for sources whose elements arrive
asynchronously.

A Stream is built from a Source, a pull iterator whose Next takes a
context. Every combinator callback receives the same context and may
block; the pipeline awaits it before pulling the next element, so
elements are processed one at a time in source order.

	rows := async.FromFunc(func(ctx context.Context) ([]Row, error) {
		return db.Query(ctx, "...")
	})

	names, err := async.Map(rows.Filter(isActive), func(ctx context.Context, r Row) (string, error) {
		return lookupName(ctx, r.ID)
	}).ToSlice(ctx)

Terminal operations take a context, check it at every pull and return
its cause once it is done. They always close the Source they opened,
including on early exit and on error.

SortBy, ThenBy, Take and Skip on the sorted stage behave as in package
stream but drain their input on the first pull. Joins drain the inner
stream into an index the same way and then pull the outer one. There is
no infinite taint: a Generate stream must be bounded with Take or by
canceling the context.

FromStream turns any synchronous stream into an asynchronous one.
*/
package async
