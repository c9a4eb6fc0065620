package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"condi-loader/core/storage"

	"github.com/minio/minio-go/v7"
)

// Request describes one physical load.
type Request struct {
	// Kind is the resource type.
	Kind Kind
	// URL is the URL as requested by the item.
	URL string
	// Resolved is the absolute (or base-prefixed) URL actually loaded.
	Resolved string
	// Media is the stylesheet media query, if any.
	Media string
}

// Transport performs the load behind a Request. It returns nil once the
// resource is fully available.
type Transport interface {
	Load(ctx context.Context, req Request) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) error

// Load calls f.
func (f TransportFunc) Load(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// NewHTTPClient builds an http.Client over storage.NewTransport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Transport: storage.NewTransport(timeout)}
}

// HTTPTransport loads http(s) and scheme-relative URLs with GET.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTPTransport. A nil client uses NewHTTPClient(0).
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &HTTPTransport{client: client}
}

// Load fetches the resource and drains the body. Any status >= 400 fails.
func (t *HTTPTransport) Load(ctx context.Context, req Request) error {
	target := req.Resolved
	if strings.HasPrefix(target, "//") {
		target = "https:" + target
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	switch req.Kind {
	case KindStyle:
		httpReq.Header.Set("Accept", "text/css,*/*;q=0.1")
	case KindScript:
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	return nil
}

// StorageTransport loads s3://bucket/key URLs, and relative URLs as keys in
// the default bucket.
type StorageTransport struct {
	client storage.Client
	bucket string
}

// NewStorageTransport creates a StorageTransport over client.
func NewStorageTransport(client storage.Client, bucket string) *StorageTransport {
	return &StorageTransport{client: client, bucket: bucket}
}

// Load downloads the object and drains it.
func (t *StorageTransport) Load(ctx context.Context, req Request) error {
	bucket, key, ok := storage.ParseObjectURL(req.Resolved)
	if !ok {
		if IsAbsURL(req.Resolved) {
			return &NoTransportError{URL: req.Resolved}
		}
		bucket, key = t.bucket, storage.ObjectKey(req.Resolved)
	}

	obj, err := t.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	// minio reports missing objects on first read
	if _, err := io.Copy(io.Discard, obj); err != nil {
		return fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Mux routes requests to transports by URL scheme. Scheme-relative URLs
// ("//host/path") are routed as https.
type Mux struct {
	schemes  map[string]Transport
	relative Transport
}

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{schemes: make(map[string]Transport)}
}

// Handle routes scheme (case-insensitive, without "://") to t.
func (m *Mux) Handle(scheme string, t Transport) *Mux {
	m.schemes[strings.ToLower(scheme)] = t
	return m
}

// HandleRelative routes URLs that are not absolute to t.
func (m *Mux) HandleRelative(t Transport) *Mux {
	m.relative = t
	return m
}

// Load dispatches req to the matching transport.
func (m *Mux) Load(ctx context.Context, req Request) error {
	t := m.route(req.Resolved)
	if t == nil {
		return &NoTransportError{URL: req.Resolved}
	}
	return t.Load(ctx, req)
}

func (m *Mux) route(u string) Transport {
	if strings.HasPrefix(u, "//") {
		return m.schemes["https"]
	}
	if i := strings.Index(u, "://"); i >= 0 {
		return m.schemes[strings.ToLower(u[:i])]
	}
	return m.relative
}

// NewDefaultTransport wires the HTTP transport for http/https and, when store
// is non-nil, the storage transport for s3:// and relative URLs.
func NewDefaultTransport(client *http.Client, store storage.Client, bucket string) *Mux {
	httpTransport := NewHTTPTransport(client)
	mux := NewMux().
		Handle("http", httpTransport).
		Handle("https", httpTransport)

	if store != nil {
		st := NewStorageTransport(store, bucket)
		mux.Handle(storage.Scheme, st).HandleRelative(st)
	}
	return mux
}
