package translations

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/scriptura/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_translations_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.TranslationInfo{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SaveAndRead(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	info := entities.TranslationInfo{
		ShortName: "KJV", Name: "King James Version", Language: "en", Size: 4500000,
	}
	require.NoError(t, repo.Save(info))

	stored, err := repo.Read("KJV")
	require.NoError(t, err)
	assert.Equal(t, info, stored)

	exists, err := repo.Exists("KJV")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists("WEB")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_SaveOverwrites(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save(entities.TranslationInfo{ShortName: "KJV", Name: "King James Version"}))
	require.NoError(t, repo.Save(entities.TranslationInfo{ShortName: "KJV", Name: "King James Version", Downloaded: true}))

	stored, err := repo.Read("KJV")
	require.NoError(t, err)
	assert.True(t, stored.Downloaded)

	list, err := repo.ReadAll()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_Replace(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save(entities.TranslationInfo{ShortName: "OLD"}))

	err := repo.Replace([]entities.TranslationInfo{
		{ShortName: "KJV", Downloaded: true},
		{ShortName: "WEB"},
	})
	require.NoError(t, err)

	list, err := repo.ReadAll()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	exists, err := repo.Exists("OLD")
	require.NoError(t, err)
	assert.False(t, exists)

	// Replacing with an empty list clears the table
	require.NoError(t, repo.Replace(nil))
	list, err = repo.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save(entities.TranslationInfo{ShortName: "KJV"}))
	require.NoError(t, repo.Delete("KJV"))

	exists, err := repo.Exists("KJV")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent row is a no-op
	require.NoError(t, repo.Delete("KJV"))
}
