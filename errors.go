package textlayout

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by a query of this package wraps
// one of them.
var (
	// ErrBadPosition is returned when a character offset or line number
	// is outside the text or document.
	ErrBadPosition = errors.New("textlayout: bad position")

	// ErrOutOfBounds is returned when a subline or run index exceeds the
	// count of the layout.
	ErrOutOfBounds = errors.New("textlayout: index out of bounds")

	// ErrInvalidArgument is returned when an operation is used outside
	// its contract.
	ErrInvalidArgument = errors.New("textlayout: invalid argument")
)

// BadPositionError reports a position outside [0, Limit].
type BadPositionError struct {
	What     string
	Position int
	Limit    int
}

func (e *BadPositionError) Error() string {
	return fmt.Sprintf("textlayout: bad %s %d (limit %d)", e.What, e.Position, e.Limit)
}

// Is makes errors.Is(err, ErrBadPosition) hold.
func (e *BadPositionError) Is(target error) bool { return target == ErrBadPosition }

// OutOfBoundsError reports an index outside [0, Count).
type OutOfBoundsError struct {
	What  string
	Index int
	Count int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("textlayout: %s index %d out of bounds [0,%d)", e.What, e.Index, e.Count)
}

// Is makes errors.Is(err, ErrOutOfBounds) hold.
func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }

func badPosition(what string, pos, limit int) error {
	return &BadPositionError{What: what, Position: pos, Limit: limit}
}

func outOfBounds(what string, index, count int) error {
	return &OutOfBoundsError{What: what, Index: index, Count: count}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
