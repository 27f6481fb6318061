package mpc

import "fmt"

// RedundantShareError describes a second share arriving from a party that
// already submitted one for the same share id. The receive loop does not
// return it: it keeps the first share and drops the later one.
type RedundantShareError struct {
	ShareID int64
	From    string
}

func (e *RedundantShareError) Error() string {
	return fmt.Sprintf("mpc: redundant share for id %d from %s", e.ShareID, e.From)
}

// CrossTagError describes a message tagged for one phase of a protocol
// arriving under a share id already in use by a different tag. The receive
// loop does not return it: it drops the mismatched message.
type CrossTagError struct {
	ShareID int64
	Want    string
	Got     string
}

func (e *CrossTagError) Error() string {
	return fmt.Sprintf("mpc: share id %d expected tag %s, got %s", e.ShareID, e.Want, e.Got)
}

// BackgroundLoopExitedError is returned by any blocking wait (OpenSingle,
// BatchReconstruct) when the context's receive loop has exited
// -- because its Router was closed, or the run's context was cancelled --
// before the wait could complete. A caller never hangs forever behind a
// dead receive loop.
type BackgroundLoopExitedError struct {
	Cause error
}

func (e *BackgroundLoopExitedError) Error() string {
	return fmt.Sprintf("mpc: background receive loop exited: %v", e.Cause)
}

func (e *BackgroundLoopExitedError) Unwrap() error { return e.Cause }

// DegreeMismatchError is returned when two shares combined by an operator
// (MultiplyShare, ShareEquality, ...) do not share the same polynomial
// degree, which would make the result's degree ill-defined.
type DegreeMismatchError struct {
	A, B int
}

func (e *DegreeMismatchError) Error() string {
	return fmt.Sprintf("mpc: mismatched share degrees %d and %d", e.A, e.B)
}
