package fetch

import "fmt"

// Kind is the type of resource being loaded.
type Kind string

const (
	KindStyle  Kind = "style"
	KindScript Kind = "script"
)

// ResourceLoadError means a single stylesheet or script failed to load.
type ResourceLoadError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	label := "CSS"
	if e.Kind == KindScript {
		label = "JS"
	}
	if e.Err == nil {
		return fmt.Sprintf("error loading %s: %s", label, e.URL)
	}
	return fmt.Sprintf("error loading %s: %s: %v", label, e.URL, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// NoTransportError means no transport is registered for a URL's scheme.
type NoTransportError struct {
	URL string
}

func (e *NoTransportError) Error() string {
	return fmt.Sprintf("no transport for url %q", e.URL)
}

// HTTPStatusError means the server answered with a non-success status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}
