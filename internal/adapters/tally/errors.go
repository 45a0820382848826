package tally

import "errors"

// Sentinel kinds for tally store errors.
var (
	ErrWriteFailed = errors.New("tally write failed")
)
