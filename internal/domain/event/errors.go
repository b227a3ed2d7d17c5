package event

import "errors"

// Sentinel kinds for record validation failures.
var (
	ErrMissingUser      = errors.New("missing user id")
	ErrMissingComponent = errors.New("missing component")
	ErrZeroTimestamp    = errors.New("zero timestamp")
	ErrUnknownBucket    = errors.New("unknown event bucket")
)
