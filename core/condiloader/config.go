package condiloader

import (
	"time"

	"condi-loader/core/fetch"
)

// Config holds the loader options.
type Config struct {
	// StyleBasePath is prepended to relative stylesheet URLs.
	StyleBasePath string `mapstructure:"style_base_path" default:""`
	// ScriptBasePath is prepended to relative script URLs.
	ScriptBasePath string `mapstructure:"script_base_path" default:""`
	// DisableScriptDedup gives every script request its own physical load.
	// By default in-flight and finished script loads are shared across items
	// by raw URL.
	DisableScriptDedup bool `mapstructure:"disable_script_dedup" default:"false"`
	// FetchTimeoutSeconds bounds each physical load. 0 waits forever.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"0"`
	// MaxConcurrentFetches bounds loads in progress. 0 is unbounded.
	MaxConcurrentFetches int `mapstructure:"max_concurrent_fetches" default:"0"`
	// ProcessTimeoutSeconds bounds how long the service and CLI wait for a
	// page to settle. The loader itself never uses it.
	ProcessTimeoutSeconds int `mapstructure:"process_timeout_seconds" default:"30"`
}

// DefaultConfig returns the documented defaults. It differs from the zero
// Config only in spelling out the process timeout.
func DefaultConfig() Config {
	return Config{
		ProcessTimeoutSeconds: 30,
	}
}

// ProcessTimeout returns ProcessTimeoutSeconds as a duration, 30s if unset.
func (c Config) ProcessTimeout() time.Duration {
	if c.ProcessTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ProcessTimeoutSeconds) * time.Second
}

func (c Config) fetchConfig() fetch.Config {
	return fetch.Config{
		StyleBasePath:  c.StyleBasePath,
		ScriptBasePath: c.ScriptBasePath,
		Timeout:        time.Duration(c.FetchTimeoutSeconds) * time.Second,
		MaxConcurrent:  c.MaxConcurrentFetches,
	}
}
