package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/scriptura/internal/database"
	"github.com/mrlokans/scriptura/internal/database/booknames"
	"github.com/mrlokans/scriptura/internal/database/translations"
	"github.com/mrlokans/scriptura/internal/database/verses"
)

const testTranslationJSON = `{
	"shortName": "KJV",
	"name": "King James Version",
	"language": "en",
	"bookNames": ["Genesis"],
	"bookShortNames": ["Gen"],
	"verses": [
		{"bookIndex": 0, "chapterIndex": 0, "verses": [
			"In the beginning God created the heaven and the earth."
		]}
	]
}`

func TestImportTranslationCommand_ParseFlags(t *testing.T) {
	cmd := NewImportTranslationCommand()
	err := cmd.ParseFlags([]string{})
	assert.Error(t, err)

	cmd = NewImportTranslationCommand()
	err = cmd.ParseFlags([]string{"-file", "./kjv.json", "-db", "./test.db"})
	require.NoError(t, err)
	assert.Equal(t, "./kjv.json", cmd.FilePath)
	assert.Equal(t, "./test.db", cmd.DatabasePath)
}

func TestImportTranslationCommand_Run(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "kjv.json")
	require.NoError(t, os.WriteFile(filePath, []byte(testTranslationJSON), 0o644))
	dbPath := filepath.Join(dir, "scriptura.db")

	cmd := NewImportTranslationCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", filePath, "-db", dbPath}))
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := translations.NewRepository(db.DB).Read("KJV")
	require.NoError(t, err)
	assert.True(t, info.Downloaded)
	assert.Equal(t, "King James Version", info.Name)

	names, err := booknames.NewRepository(db.DB).Read("KJV")
	require.NoError(t, err)
	assert.Equal(t, []string{"Genesis"}, names)

	stored, err := verses.NewRepository(db.DB).Read("KJV", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Contains(t, stored[0].Text.Text, "In the beginning")
}

func TestImportTranslationCommand_RunRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(filePath, []byte("{not json"), 0o644))

	cmd := NewImportTranslationCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", filePath, "-db", filepath.Join(dir, "scriptura.db")}))
	assert.Error(t, cmd.Run())
}
