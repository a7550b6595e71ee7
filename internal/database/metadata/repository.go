// Package metadata provides the generic key/value table every other component
// uses for scalars. Values are string-encoded; every read takes an explicit
// default supplied by the caller, so an absent key is never an error.
package metadata

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/entities"
)

// Known metadata keys.
const (
	KeyCurrentTranslation  = "current_translation"
	KeyCurrentBookIndex    = "current_book_index"
	KeyCurrentChapterIndex = "current_chapter_index"
	KeyCurrentVerseIndex   = "current_verse_index"

	KeyBookmarkSortOrder  = "bookmark_sort_order"
	KeyHighlightSortOrder = "highlight_sort_order"
	KeyNoteSortOrder      = "note_sort_order"

	KeyContinuousReadingDays = "continuous_reading_days"
	KeyLastReadingTimestamp  = "last_reading_timestamp"

	KeyTranslationListRefreshTimestamp = "translation_list_refresh_timestamp"
	KeyParallelTranslations            = "parallel_translations"
)

// Repository handles all metadata database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new metadata repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Read returns the value stored under key, or def when the key is absent.
func (r *Repository) Read(key, def string) (string, error) {
	var row entities.Metadata
	err := r.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return row.Value, nil
}

// ReadInt returns the value stored under key as an int, or def when the key
// is absent or not a number.
func (r *Repository) ReadInt(key string, def int) (int, error) {
	value, err := r.Read(key, strconv.Itoa(def))
	if err != nil {
		return def, err
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def, nil
	}
	return parsed, nil
}

// ReadInt64 returns the value stored under key as an int64, or def when the
// key is absent or not a number.
func (r *Repository) ReadInt64(key string, def int64) (int64, error) {
	value, err := r.Read(key, strconv.FormatInt(def, 10))
	if err != nil {
		return def, err
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def, nil
	}
	return parsed, nil
}

// Save creates or updates the value stored under key.
func (r *Repository) Save(key, value string) error {
	var row entities.Metadata
	result := r.db.Where("key = ?", key).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = entities.Metadata{Key: key, Value: value}
		return r.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Value = value
	return r.db.Save(&row).Error
}

// SaveInt stores an int under key.
func (r *Repository) SaveInt(key string, value int) error {
	return r.Save(key, strconv.Itoa(value))
}

// SaveInt64 stores an int64 under key.
func (r *Repository) SaveInt64(key string, value int64) error {
	return r.Save(key, strconv.FormatInt(value, 10))
}

// Delete removes a key. No-op when absent.
func (r *Repository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Metadata{}).Error
}
