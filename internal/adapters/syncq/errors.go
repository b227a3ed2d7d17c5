package syncq

import "errors"

// Sentinel kinds for sync errors.
var (
	ErrOffline = errors.New("device offline; flush skipped")
	ErrSend    = errors.New("batch send failed")
)
