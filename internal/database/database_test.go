package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{
		"metadata",
		"book_names",
		"translation_info",
		"bookmarks",
		"highlights",
		"notes",
		"reading_progress",
		"strong_number_index",
		"strong_number_reverse_index",
		"strong_number_words",
	} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestNewDatabaseInvalidPath(t *testing.T) {
	_, err := NewDatabase("/nonexistent-dir/sub/test.db")
	assert.Error(t, err)
}

func TestDatabase_Close(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}
