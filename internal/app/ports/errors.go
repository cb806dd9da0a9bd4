package ports

import "errors"

var (
	// ErrNotFound reports a missing colony, execution record or archived tick.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a stale colony version or a duplicate insert.
	ErrConflict = errors.New("version conflict")
)
