// Package config provides configuration management for the loader service.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config.yaml.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: run history connection (sqlite or MySQL)
//   - Storage: S3/MinIO credentials, bucket and manifest prefix
//   - Log: Logging level and format
//   - Loader: base paths, script de-duplication and fetch limits
//
// Defaults come from the `default` struct tags of each section.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Loader.ScriptBasePath)
package config
