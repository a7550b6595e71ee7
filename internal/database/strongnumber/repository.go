// Package strongnumber stores the Strong's-number cross-reference: a forward
// index (verse to codes), a reverse index (code to verses), and the word
// dictionary (code to gloss). The three tables are only meaningful together,
// so writers replace all of them inside one outer transaction.
package strongnumber

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/entities"
)

// Repository handles all Strong's-number database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Strong's-number repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func encodeVerseIndexes(indexes []entities.VerseIndex) string {
	parts := make([]string, 0, len(indexes))
	for _, v := range indexes {
		parts = append(parts, fmt.Sprintf("%d-%d-%d", v.BookIndex, v.ChapterIndex, v.VerseIndex))
	}
	return strings.Join(parts, ",")
}

func decodeVerseIndexes(encoded string) []entities.VerseIndex {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	indexes := make([]entities.VerseIndex, 0, len(parts))
	for _, part := range parts {
		fields := strings.SplitN(part, "-", 3)
		if len(fields) != 3 {
			continue
		}
		book, err1 := strconv.Atoi(fields[0])
		chapter, err2 := strconv.Atoi(fields[1])
		verse, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		indexes = append(indexes, entities.VerseIndex{BookIndex: book, ChapterIndex: chapter, VerseIndex: verse})
	}
	return indexes
}

// ReplaceIndexes replaces the entire forward index (verse to codes).
func (r *Repository) ReplaceIndexes(verseToCodes map[entities.VerseIndex][]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.StrongNumberIndex{}).Error; err != nil {
			return err
		}
		for verseIndex, codes := range verseToCodes {
			row := entities.StrongNumberIndex{
				BookIndex:    verseIndex.BookIndex,
				ChapterIndex: verseIndex.ChapterIndex,
				VerseIndex:   verseIndex.VerseIndex,
				Codes:        strings.Join(codes, " "),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceReverseIndexes replaces the entire reverse index (code to verses).
func (r *Repository) ReplaceReverseIndexes(codeToVerses map[string][]entities.VerseIndex) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.StrongNumberReverseIndex{}).Error; err != nil {
			return err
		}
		for code, indexes := range codeToVerses {
			row := entities.StrongNumberReverseIndex{
				Code:         code,
				VerseIndexes: encodeVerseIndexes(indexes),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceWords replaces the entire word dictionary (code to gloss).
func (r *Repository) ReplaceWords(words map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.StrongNumberWord{}).Error; err != nil {
			return err
		}
		for code, gloss := range words {
			row := entities.StrongNumberWord{Code: code, Gloss: gloss}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadStrongNumber resolves one code to its gloss. An unknown code yields a
// StrongNumber with an empty gloss.
func (r *Repository) ReadStrongNumber(code string) (entities.StrongNumber, error) {
	var row entities.StrongNumberWord
	err := r.db.Where("code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.StrongNumber{Code: code}, nil
	}
	if err != nil {
		return entities.StrongNumber{Code: code}, err
	}
	return entities.StrongNumber{Code: code, Gloss: row.Gloss}, nil
}

// ReadStrongNumbers returns the Strong's numbers of one verse with glosses
// batch-resolved from the word dictionary, in the order the codes appear in
// the verse. An unknown verse yields an empty slice.
func (r *Repository) ReadStrongNumbers(verseIndex entities.VerseIndex) ([]entities.StrongNumber, error) {
	var row entities.StrongNumberIndex
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	codes := strings.Fields(row.Codes)
	if len(codes) == 0 {
		return nil, nil
	}

	var words []entities.StrongNumberWord
	if err := r.db.Where("code IN ?", codes).Find(&words).Error; err != nil {
		return nil, err
	}
	glosses := make(map[string]string, len(words))
	for _, word := range words {
		glosses[word.Code] = word.Gloss
	}

	numbers := make([]entities.StrongNumber, 0, len(codes))
	for _, code := range codes {
		numbers = append(numbers, entities.StrongNumber{Code: code, Gloss: glosses[code]})
	}
	return numbers, nil
}

// ReadVerseIndexes returns the verses containing a code, as stored in the
// reverse index. An unknown code yields an empty slice.
func (r *Repository) ReadVerseIndexes(code string) ([]entities.VerseIndex, error) {
	var row entities.StrongNumberReverseIndex
	err := r.db.Where("code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeVerseIndexes(row.VerseIndexes), nil
}
