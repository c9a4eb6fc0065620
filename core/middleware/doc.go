// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query). Disabled
//     when no key is configured.
//   - rayid: assigns every request a RayID, stored in the context locals and
//     echoed in the X-Ray-ID response header for tracing.
//
// Both are registered globally in cmd/start, rayid first.
package middleware
