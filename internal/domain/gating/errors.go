package gating

import "errors"

// Sentinel errors for gating lookups.
var (
	// ErrUnknownCapability marks an access check against a capability
	// that is not in the catalog.
	ErrUnknownCapability = errors.New("unknown capability")
)
