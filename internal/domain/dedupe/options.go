// Package dedupe tracks already-collected event ids.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds how many ids the deduper keeps. maxSize > 0 enables
// FIFO eviction of the oldest id; maxSize <= 0 keeps every id forever.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
