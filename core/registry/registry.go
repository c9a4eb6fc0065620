package registry

import (
	"context"
	"sync"

	"condi-loader/core/fetch"
)

// ScriptFetcher starts a single script load.
type ScriptFetcher interface {
	FetchScript(ctx context.Context, url string) *fetch.Completion
}

// Registry is the in-flight script map.
type Registry struct {
	fetcher     ScriptFetcher
	deduplicate bool

	mu       sync.Mutex
	inflight map[string]*fetch.Completion
}

// New creates an empty Registry in front of fetcher.
func New(fetcher ScriptFetcher, deduplicate bool) *Registry {
	return &Registry{
		fetcher:     fetcher,
		deduplicate: deduplicate,
		inflight:    make(map[string]*fetch.Completion),
	}
}

// RequestScript returns the completion of the load for url, starting one if
// none was requested before. Every requester of the same raw url observes the
// same outcome.
func (r *Registry) RequestScript(ctx context.Context, url string) *fetch.Completion {
	if !r.deduplicate {
		return r.fetcher.FetchScript(ctx, url)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.inflight[url]; ok {
		return c
	}
	c := r.fetcher.FetchScript(ctx, url)
	r.inflight[url] = c
	return c
}

// Deduplicates reports whether the registry shares loads.
func (r *Registry) Deduplicates() bool {
	return r.deduplicate
}

// Len returns the number of recorded script URLs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight)
}

// Lookup returns the recorded completion for url, if any.
func (r *Registry) Lookup(url string) (*fetch.Completion, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.inflight[url]
	return c, ok
}
