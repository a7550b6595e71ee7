// Package readingprogress tracks per-chapter reading activity and the
// continuous-reading-days streak.
package readingprogress

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/entities"
)

const dayMillis = int64(24 * 60 * 60 * 1000)

// Repository handles all reading-progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading-progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TrackReading records one reading event for a chapter and updates the streak.
// The chapter row and the global streak scalars are updated inside one
// transaction so a crash cannot desynchronize them.
//
// The chapter row only changes when timestamp is strictly newer than its last
// reading timestamp; out-of-order and duplicate events are ignored for the
// chapter. The streak compares calendar-day buckets (floor division by a day
// in millis, then subtract), not raw durations: same bucket keeps the streak
// at max(1, current), the next bucket increments it, anything else resets to 1.
func (r *Repository) TrackReading(bookIndex, chapterIndex int, timeSpentMillis, timestamp int64) error {
	if bookIndex < 0 || bookIndex >= entities.BookCount || chapterIndex < 0 {
		return fmt.Errorf("invalid chapter (%d, %d)", bookIndex, chapterIndex)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var status entities.ChapterReadingStatus
		err := tx.Where("book_index = ? AND chapter_index = ?", bookIndex, chapterIndex).First(&status).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = entities.ChapterReadingStatus{BookIndex: bookIndex, ChapterIndex: chapterIndex}
		} else if err != nil {
			return err
		}

		if timestamp > status.LastReadingTimestamp {
			status.ReadCount++
			status.TimeSpentMillis += timeSpentMillis
			status.LastReadingTimestamp = timestamp
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&status).Error; err != nil {
				return err
			}
		}

		meta := metadata.NewRepository(tx)
		streak, err := meta.ReadInt(metadata.KeyContinuousReadingDays, 1)
		if err != nil {
			return err
		}
		lastTimestamp, err := meta.ReadInt64(metadata.KeyLastReadingTimestamp, 0)
		if err != nil {
			return err
		}

		if timestamp > lastTimestamp {
			daysSince := timestamp/dayMillis - lastTimestamp/dayMillis
			switch {
			case daysSince == 0:
				if streak < 1 {
					streak = 1
				}
			case daysSince == 1:
				streak++
			default:
				streak = 1
			}
			if err := meta.SaveInt(metadata.KeyContinuousReadingDays, streak); err != nil {
				return err
			}
			if err := meta.SaveInt64(metadata.KeyLastReadingTimestamp, timestamp); err != nil {
				return err
			}
		}
		return nil
	})
}

// Read assembles the full reading progress from the streak scalars and every
// chapter row, inside one read transaction for snapshot consistency.
func (r *Repository) Read() (entities.ReadingProgress, error) {
	var progress entities.ReadingProgress
	err := r.db.Transaction(func(tx *gorm.DB) error {
		meta := metadata.NewRepository(tx)

		streak, err := meta.ReadInt(metadata.KeyContinuousReadingDays, 1)
		if err != nil {
			return err
		}
		lastTimestamp, err := meta.ReadInt64(metadata.KeyLastReadingTimestamp, 0)
		if err != nil {
			return err
		}

		var statuses []entities.ChapterReadingStatus
		if err := tx.Order("book_index ASC, chapter_index ASC").Find(&statuses).Error; err != nil {
			return err
		}

		progress = entities.ReadingProgress{
			ContinuousReadingDays:  streak,
			LastReadingTimestamp:   lastTimestamp,
			ChapterReadingStatuses: statuses,
		}
		return nil
	})
	return progress, err
}

// ReadChapterStatus returns the status row for one chapter, or the zero value
// when the chapter has never been read.
func (r *Repository) ReadChapterStatus(bookIndex, chapterIndex int) (entities.ChapterReadingStatus, error) {
	var status entities.ChapterReadingStatus
	err := r.db.Where("book_index = ? AND chapter_index = ?", bookIndex, chapterIndex).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ChapterReadingStatus{BookIndex: bookIndex, ChapterIndex: chapterIndex}, nil
	}
	return status, err
}
