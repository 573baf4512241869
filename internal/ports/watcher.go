package ports

// Watcher monitors the pattern-catalog file for changes and drives hot
// reload in serve mode. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the changed
	// path and may be invoked from any goroutine; rapid successive
	// events are debounced by the adapter.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop
	// returns, no further onChange calls will fire. Safe to call
	// multiple times.
	Stop() error
}
