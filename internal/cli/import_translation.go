package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/scriptura/internal/config"
	"github.com/mrlokans/scriptura/internal/database"
	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
	"github.com/mrlokans/scriptura/internal/services"
)

// ImportTranslationCommand side-loads a translation from a local JSON file,
// bypassing the remote catalog.
type ImportTranslationCommand struct {
	FilePath     string
	DatabasePath string
}

// NewImportTranslationCommand creates a new ImportTranslationCommand
func NewImportTranslationCommand() *ImportTranslationCommand {
	return &ImportTranslationCommand{}
}

// translationFile mirrors the content-host translation format, plus the
// descriptive fields list.json would normally carry.
type translationFile struct {
	ShortName      string   `json:"shortName"`
	Name           string   `json:"name"`
	Language       string   `json:"language"`
	BookNames      []string `json:"bookNames"`
	BookShortNames []string `json:"bookShortNames"`
	Chapters       []struct {
		BookIndex    int      `json:"bookIndex"`
		ChapterIndex int      `json:"chapterIndex"`
		Verses       []string `json:"verses"`
	} `json:"verses"`
}

// ParseFlags parses command line flags
func (cmd *ImportTranslationCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-translation", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the translation JSON file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-translation -file <translation.json> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a translation from a local JSON file without contacting the content host.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-translation -file ./kjv.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-translation -file ./kjv.json -db ./scriptura.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	return nil
}

// Run executes the import command
func (cmd *ImportTranslationCommand) Run() error {
	absPath, err := filepath.Abs(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read translation file: %w", err)
	}

	var file translationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse translation file: %w", err)
	}
	if file.ShortName == "" {
		return fmt.Errorf("translation file has no shortName")
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	payload := &services.TranslationPayload{
		BookNames:      file.BookNames,
		BookShortNames: file.BookShortNames,
		Verses:         make(map[verses.ChapterKey][]string, len(file.Chapters)),
	}
	for _, chapter := range file.Chapters {
		key := verses.ChapterKey{BookIndex: chapter.BookIndex, ChapterIndex: chapter.ChapterIndex}
		payload.Verses[key] = chapter.Verses
	}

	info := entities.TranslationInfo{
		ShortName: file.ShortName,
		Name:      file.Name,
		Language:  file.Language,
		Size:      int64(len(data)),
	}

	service := services.NewTranslationService(db.DB, nil, services.DefaultRefreshInterval)
	if err := service.InstallLocal(info, payload); err != nil {
		return fmt.Errorf("failed to install translation: %w", err)
	}

	fmt.Printf("Imported %s (%s): %d chapters\n", file.ShortName, file.Name, len(file.Chapters))
	return nil
}
