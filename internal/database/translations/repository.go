// Package translations persists the translation list the lifecycle service
// merges from the remote catalog and local installs.
package translations

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/scriptura/internal/entities"
)

// Repository handles all translation-info database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new translation-info repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReadAll returns every persisted translation.
func (r *Repository) ReadAll() ([]entities.TranslationInfo, error) {
	var list []entities.TranslationInfo
	err := r.db.Find(&list).Error
	return list, err
}

// Read returns one translation by short name.
func (r *Repository) Read(shortName string) (entities.TranslationInfo, error) {
	var info entities.TranslationInfo
	err := r.db.Where("short_name = ?", shortName).First(&info).Error
	return info, err
}

// Exists reports whether a translation row is persisted.
func (r *Repository) Exists(shortName string) (bool, error) {
	_, err := r.Read(shortName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save creates or updates one translation row.
func (r *Repository) Save(info entities.TranslationInfo) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&info).Error
}

// Replace overwrites the whole persisted list with the merged catalog.
func (r *Repository) Replace(list []entities.TranslationInfo) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.TranslationInfo{}).Error; err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&list).Error
	})
}

// Delete removes one translation row entirely. No-op when absent.
func (r *Repository) Delete(shortName string) error {
	return r.db.Where("short_name = ?", shortName).Delete(&entities.TranslationInfo{}).Error
}
