package cmn

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Error taxonomy (spec §7). Protocol violations and invariant
// violations are fatal — the caller is expected to log and exit, the
// way an aborted aistore xaction propagates its error up through
// r.AddErr / r.Abort rather than recovering. Soft budget underflow and
// tolerated races are not represented here at all: per spec §7 they
// are not errors, they are documented no-op outcomes.

// ErrProtocolViolation signals a malformed or out-of-sequence line on
// the driver stream (timestamp mismatch, bad count). Unrecoverable.
type ErrProtocolViolation struct {
	Detail string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Detail)
}

// NewErrProtocolViolation wraps a protocol violation with a stack
// trace, mirroring aistore's cmn.NewErrAborted.
func NewErrProtocolViolation(format string, args ...any) error {
	return pkgerrors.WithStack(&ErrProtocolViolation{Detail: fmt.Sprintf(format, args...)})
}

// ErrCapacityExhausted signals the placement engine found no group
// whose reference slice could hold an object (spec §4.1 step 2,
// "fail-fast if none"). The driver is assumed to never present a
// workload that exhausts capacity; seeing this is an invariant
// violation of the driver's contract, not a recoverable condition.
type ErrCapacityExhausted struct {
	ObjectID int
	Size     int
}

func (e *ErrCapacityExhausted) Error() string {
	return fmt.Sprintf("no group can place object %d (size %d): capacity exhausted", e.ObjectID, e.Size)
}

func NewErrCapacityExhausted(objectID, size int) error {
	return pkgerrors.WithStack(&ErrCapacityExhausted{ObjectID: objectID, Size: size})
}

// ErrInvariantViolation marks an internal-counter inconsistency that
// should be unreachable (negative empty-count, a write over a live
// cell). Always fatal; never attempt a partial recovery.
type ErrInvariantViolation struct {
	Detail string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func NewErrInvariantViolation(format string, args ...any) error {
	return pkgerrors.WithStack(&ErrInvariantViolation{Detail: fmt.Sprintf(format, args...)})
}

// IsProtocolViolation reports whether err (or something it wraps) is
// an ErrProtocolViolation.
func IsProtocolViolation(err error) bool {
	var e *ErrProtocolViolation
	return errors.As(err, &e)
}

// IsInvariantViolation reports whether err (or something it wraps) is
// an ErrInvariantViolation.
func IsInvariantViolation(err error) bool {
	var e *ErrInvariantViolation
	return errors.As(err, &e)
}
