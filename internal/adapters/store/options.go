package store

// defaultNamespace is the fixed key namespace for one installation. All
// persisted rows carry it so several engine instances can share a DB file
// without reading each other's telemetry.
const defaultNamespace = "acumen.telemetry.v1"

// Option applies a configuration option to the SQLite store.
type Option func(*SQLiteStore)

// WithNamespace overrides the installation key namespace.
func WithNamespace(ns string) Option {
	return func(s *SQLiteStore) {
		if ns != "" {
			s.namespace = ns
		}
	}
}
