// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// defines the settings it reads: listen port, API key, request body limit and
// graceful shutdown bound.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start to configure Fiber.
package server
