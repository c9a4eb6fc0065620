package checks

import (
	"condi-loader/core/database"

	"gorm.io/gorm"
)

// HistoryReport is the outcome of the history schema check.
type HistoryReport struct {
	Enabled        bool     `json:"enabled"`
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Error          string   `json:"error,omitempty"`
}

// CheckHistorySchema compares the live history table against the columns the
// history model maps to. A nil db yields a disabled report.
func CheckHistorySchema(db *gorm.DB, table string, columns []string) *HistoryReport {
	report := &HistoryReport{Table: table, MissingColumns: []string{}}
	if db == nil {
		return report
	}
	report.Enabled = true

	missing, err := database.MissingColumns(db, table, columns)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		return report
	}
	report.Matched = true
	return report
}
