package agent

import (
	"errors"
	"fmt"
)

// ErrStreamProtocol reports a malformed or out-of-order message on the
// worker stream.
var ErrStreamProtocol = errors.New("agent: stream protocol violation")

// SpawnError reports that the worker process could not be started.
type SpawnError struct {
	Command  string
	Resolved string // resolved executable path, empty if lookup failed
	Err      error
}

func (e *SpawnError) Error() string {
	if e.Resolved != "" && e.Resolved != e.Command {
		return fmt.Sprintf("agent: failed to spawn %q (resolved to %s): %v", e.Command, e.Resolved, e.Err)
	}
	return fmt.Sprintf("agent: failed to spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError reports that the worker endpoint never became reachable.
type TimeoutError struct {
	Endpoint string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("agent: could not reach %s after %d attempts", e.Endpoint, e.Attempts)
}
