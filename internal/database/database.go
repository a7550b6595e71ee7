package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/scriptura/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the single database file and migrates all
// fixed tables. Per-translation verse tables are created dynamically by the
// verses repository when a translation is installed.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Metadata{},
		&entities.BookName{},
		&entities.TranslationInfo{},
		&entities.Bookmark{},
		&entities.Highlight{},
		&entities.Note{},
		&entities.ChapterReadingStatus{},
		&entities.StrongNumberIndex{},
		&entities.StrongNumberReverseIndex{},
		&entities.StrongNumberWord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
