// Package booknames provides database operations for per-translation book
// name lists.
package booknames

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/scriptura/internal/entities"
)

// Repository handles all book-name database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book-names repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores the full and short book names of a translation, overwriting any
// previous rows for the same translation. The two lists must have the same
// length; names are stored in canonical book order.
func (r *Repository) Save(translation string, names, shortNames []string) error {
	if len(names) != len(shortNames) {
		return fmt.Errorf("book name count mismatch: %d names, %d short names", len(names), len(shortNames))
	}
	rows := make([]entities.BookName, 0, len(names))
	for i, name := range names {
		rows = append(rows, entities.BookName{
			Translation: translation,
			BookIndex:   i,
			Name:        name,
			ShortName:   shortNames[i],
		})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("translation = ?", translation).Delete(&entities.BookName{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// Read returns the full book names of a translation in canonical order.
// An unknown translation yields an empty slice.
func (r *Repository) Read(translation string) ([]string, error) {
	var rows []entities.BookName
	err := r.db.Where("translation = ?", translation).Order("book_index ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// ReadShortNames returns the short book names of a translation in canonical
// order. An unknown translation yields an empty slice.
func (r *Repository) ReadShortNames(translation string) ([]string, error) {
	var rows []entities.BookName
	err := r.db.Where("translation = ?", translation).Order("book_index ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.ShortName)
	}
	return names, nil
}

// Remove deletes all book-name rows for a translation.
func (r *Repository) Remove(translation string) error {
	return r.db.Where("translation = ?", translation).Delete(&entities.BookName{}).Error
}
