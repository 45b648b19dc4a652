package board

import "errors"

var (
	ErrTileCountMismatch = errors.New("tile counts do not match available cells")
	ErrBadSpecial        = errors.New("invalid special tile request")
)

// AssertionError reports a broken structural invariant.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
