package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrOpen   = errors.New("store open failed")
	ErrClosed = errors.New("store closed")
)
