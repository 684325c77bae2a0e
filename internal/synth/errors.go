package synth

import "errors"

var (
	// ErrInvariant reports an internal precondition violation. It signals a
	// bug in an earlier phase (classification or tree construction) and
	// aborts the run.
	ErrInvariant = errors.New("synthesis invariant violated")
	// ErrUnknownKind reports a node kind outside the closed set.
	ErrUnknownKind = errors.New("unknown construct kind")
	// ErrCircular reports a subroutine body requested while being emitted.
	ErrCircular = errors.New("circular subroutine request")
)
