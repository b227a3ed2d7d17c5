package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrEmptyBatch    = errors.New("batch has no events")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)
