package scoreboard

import "errors"

// Sentinel kinds for scoreboard errors.
var (
	ErrCorrupt = errors.New("scoreboard corrupt")
)
