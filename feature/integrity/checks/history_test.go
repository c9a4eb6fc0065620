package checks

import (
	"testing"

	"condi-loader/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHistorySchema(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		report := CheckHistorySchema(nil, "load_history", []string{"id"})
		assert.False(t, report.Enabled)
		assert.False(t, report.Matched)
	})

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE load_history (id INTEGER PRIMARY KEY, item TEXT)").Error)

	t.Run("Matched", func(t *testing.T) {
		report := CheckHistorySchema(db, "load_history", []string{"id", "item"})
		assert.True(t, report.Enabled)
		assert.True(t, report.Matched)
		assert.Empty(t, report.MissingColumns)
	})

	t.Run("Drifted", func(t *testing.T) {
		report := CheckHistorySchema(db, "load_history", []string{"id", "item", "outcome"})
		assert.False(t, report.Matched)
		assert.Equal(t, []string{"outcome"}, report.MissingColumns)
	})
}
