package storage

import "strings"

// Scheme is the URL scheme addressing objects directly, as in s3://bucket/key.
const Scheme = "s3"

// ParseObjectURL splits an s3://bucket/key URL. It reports false for any
// other form, or when the bucket or key is empty.
func ParseObjectURL(raw string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(raw, Scheme+"://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// ObjectKey turns a bucket-relative asset path into an object key.
// Leading slashes and any query string or fragment are dropped.
func ObjectKey(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.TrimLeft(path, "/")
}
