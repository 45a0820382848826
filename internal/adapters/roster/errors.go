package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrUnavailable = errors.New("roster unavailable")
)
