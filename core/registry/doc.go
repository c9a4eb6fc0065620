// Package registry tracks in-flight script loads so that concurrent requests
// for the same script share one physical load.
//
// Entries are keyed by the raw URL as written in the item, before base path
// resolution, and are never evicted: a Registry lives exactly as long as the
// loader that owns it. With de-duplication disabled the registry is a plain
// pass-through and records nothing.
package registry
