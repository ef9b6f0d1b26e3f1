package ports

// Watcher monitors a single file and reports when its content may have changed.
// Editors often save through a temp file and rename, so the adapter must keep
// watching the path across remove/create cycles. Only one WatchFile call
// should be active at a time.
type Watcher interface {
	// WatchFile starts monitoring path. onChange is called with the absolute
	// path after each write, create, or rename that lands on it. The callback
	// may be invoked from any goroutine. Returns an error if the parent
	// directory doesn't exist or permissions are insufficient.
	WatchFile(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
