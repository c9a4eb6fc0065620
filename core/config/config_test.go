package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "assets", cfg.Storage.Bucket)
	assert.Equal(t, "manifests/", cfg.Storage.ManifestPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Loader.DisableScriptDedup)
	assert.Equal(t, 0, cfg.Loader.FetchTimeoutSeconds)
	assert.Equal(t, 30, cfg.Loader.ProcessTimeoutSeconds)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOADER_DISABLE_SCRIPT_DEDUP", "true")
	t.Setenv("LOADER_SCRIPT_BASE_PATH", "/static/js/")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Loader.DisableScriptDedup)
	assert.Equal(t, "/static/js/", cfg.Loader.ScriptBasePath)
}

func TestLoadConfig_Files(t *testing.T) {
	dir := t.TempDir()
	yaml := "loader:\n  style_base_path: /css/\n  max_concurrent_fetches: 4\nlog:\n  format: console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=json\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/css/", cfg.Loader.StyleBasePath)
	assert.Equal(t, 4, cfg.Loader.MaxConcurrentFetches)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestBindValues(t *testing.T) {
	type inner struct {
		Name string `mapstructure:"name" default:"x"`
	}
	type outer struct {
		Inner  inner `mapstructure:"inner"`
		Count  int   `mapstructure:"count" default:"3"`
		Hidden string
	}

	v := viper.New()
	bindValues(v, outer{}, "")

	assert.Equal(t, "x", v.GetString("inner.name"))
	assert.Equal(t, 3, v.GetInt("count"))
	assert.False(t, v.IsSet("hidden"))
}
