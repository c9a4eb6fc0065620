package storage

import "time"

// Config is the MinIO/S3 connection plus where manifests live in the bucket.
type Config struct {
	// Endpoint is host:port, with or without a scheme.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds stylesheets, scripts and manifests. Relative asset URLs
	// resolve to keys in it.
	Bucket string `mapstructure:"bucket" default:"assets"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds connection setup and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ManifestPrefix is the key prefix under which item manifests are stored.
	ManifestPrefix string `mapstructure:"manifest_prefix" default:"manifests/"`
	// ManifestCacheTTLSeconds is how long a read manifest is served from memory.
	// 0 disables caching.
	ManifestCacheTTLSeconds int `mapstructure:"manifest_cache_ttl_seconds" default:"60"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ManifestCacheTTL returns ManifestCacheTTLSeconds as a duration.
func (c Config) ManifestCacheTTL() time.Duration {
	return time.Duration(c.ManifestCacheTTLSeconds) * time.Second
}
