package simulate

import "errors"

// Simulation errors.
var (
	ErrUnknownArchetype = errors.New("unknown archetype")
)
