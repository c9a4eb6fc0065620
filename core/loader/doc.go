// Package loader mounts service features on the fiber router.
//
// A feature reports its name and whether its dependencies are configured,
// then registers its routes in Load:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// cmd/start registers pages, manifests, history and integrity with a Manager
// and calls LoadAll. Disabled features are skipped with a log line, and the
// first Load error aborts startup.
package loader
