package config

import (
	"errors"
	"reflect"
	"strings"

	"condi-loader/core/condiloader"
	"condi-loader/core/database"
	"condi-loader/core/logger"
	"condi-loader/core/server"
	"condi-loader/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full condi-loader configuration, one section per package.
type Config struct {
	Server server.Config `mapstructure:"server"`
	// Storage is the bucket for assets and manifests.
	Storage storage.Config `mapstructure:"storage"`
	Log     logger.Config  `mapstructure:"log"`
	// Database holds configuration for the run history database.
	Database database.Config `mapstructure:"database"`
	// Loader holds the resource loader options.
	Loader condiloader.Config `mapstructure:"loader"`
}

// LoadConfig loads configuration from environment variables, a .env file and
// an optional config.yaml in path. Environment wins over the file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// .env is optional
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// LOADER_DISABLE_SCRIPT_DEDUP -> loader.disable_script_dedup
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every mapstructure key of iface with its default tag,
// recursing into nested sections.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// unset keys are invisible to AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
