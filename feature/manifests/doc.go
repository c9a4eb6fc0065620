// Package manifests stores item manifests in the object storage bucket.
//
// A manifest is a YAML (or JSON) list of items, kept at
// <manifest_prefix><name>.yaml. Manifests are validated before they are
// stored, so every stored condition clause compiles.
//
// Reads go through an in-memory cache with a TTL. Concurrent misses for the
// same name are collapsed with singleflight.
//
// # HTTP Endpoints
//
//   - GET /manifests : lists manifest names.
//   - GET /manifests/:name : returns a manifest.
//   - PUT /manifests/:name : validates and stores a manifest.
//   - DELETE /manifests/:name : removes a manifest.
package manifests
