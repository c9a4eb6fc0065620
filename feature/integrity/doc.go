// Package integrity checks that the service's storage and database can serve
// the stored manifests.
//
// # Checks Provided
//
//   - Structure: the manifest prefix and every bucket-served base path exist in the bucket.
//   - Manifest assets: every stylesheet and script a manifest loads from the bucket
//     (relative or s3:// URLs) exists. Remote http(s) URLs are listed, not fetched.
//   - History: the history table carries every column of its model.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/history : Runs the history schema check.
//   - GET /integrity/manifests/:name : Checks the assets of one manifest.
package integrity
