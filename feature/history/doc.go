// Package history records the per-item outcomes of processed pages.
//
// Every page run gets a run id; each item of the run becomes one row of the
// load_history table with its outcome, error and duration. The database is
// optional: without one the feature stays disabled and recording is skipped.
//
// # HTTP Endpoints
//
//   - GET /history : recent entries, filtered by run, item or outcome.
package history
