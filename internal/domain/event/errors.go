package event

import "errors"

// Sentinel kinds for classification errors.
var (
	ErrMalformed = errors.New("malformed event")
)
