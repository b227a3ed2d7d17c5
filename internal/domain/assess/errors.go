package assess

import "errors"

// Sentinel kinds for assessment configuration parsing.
var (
	ErrUnknownLevel = errors.New("unknown competency level")
)
