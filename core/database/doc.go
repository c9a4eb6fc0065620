// Package database handles the connection to the run history database.
//
// It wraps GORM and picks the dialector from the configured driver: MySQL for
// shared deployments, SQLite (a file or :memory:) for local use and tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table layout, so the
// history feature can report a table that drifted from its model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("History disabled", zap.Error(err))
//	}
package database
