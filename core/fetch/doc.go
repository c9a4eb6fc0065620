// Package fetch implements the single-resource fetcher.
//
// A Fetcher performs exactly one load of a stylesheet or script per call and
// reports the outcome through a Completion that settles exactly once. Each call
// inserts a loading node into the document head (<link rel="preload" as="style">
// or <script async>) before the load starts, so the document records every
// physical load in the order it was triggered.
//
// The fetcher holds no cross-call state. Sharing script loads between callers
// is the job of core/registry.
//
// # URL Resolution
//
// A URL is absolute when it starts with "//" or contains "://" anywhere.
// Relative URLs are prefixed with the configured style or script base path by
// plain string concatenation.
//
// # Transports
//
// The actual bytes are moved by a Transport:
//
//   - HTTPTransport: http(s) and scheme-relative URLs.
//   - StorageTransport: s3://bucket/key URLs and bucket-relative keys.
//   - Mux: routes a request to one of the above by scheme.
package fetch
