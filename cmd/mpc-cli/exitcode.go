package main

import "errors"

// configError marks a failure reading or validating the deployment
// configuration, or any other I/O failure encountered before the node
// starts talking to its peers.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// peerUnreachableError marks a failure establishing the outbound
// connection to a configured peer.
type peerUnreachableError struct{ err error }

func (e *peerUnreachableError) Error() string { return e.err.Error() }
func (e *peerUnreachableError) Unwrap() error { return e.err }

// exitCode maps a runRun/runGenpreproc/runSimulate error to the process
// exit status spec.md §6 assigns it: 0 success, 1 reconstruction failure,
// 2 I/O or config error, 3 peer-unreachable. Any error not explicitly
// classified as a config or connectivity failure defaults to 1, the same
// code a failed poly.Decode (reconstruction failure) produces.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *configError
	var peerErr *peerUnreachableError
	switch {
	case errors.As(err, &cfgErr):
		return 2
	case errors.As(err, &peerErr):
		return 3
	default:
		return 1
	}
}
