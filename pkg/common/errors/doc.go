// Package errors defines the error taxonomy shared by the lazyflow packages.
//
// Failures are plain sentinel values (ErrNeverEnding, ErrEmptySource,
// ErrInvalidArgument, ErrIndexOutOfBounds) wrapped in structured types that
// name the failing operation or argument. Match them with errors.Is:
//
//	_, err := stream.Generate(next).ToSlice()
//	if errors.Is(err, lferrors.ErrNeverEnding) {
//		// the pipeline was tainted infinite
//	}
package errors
