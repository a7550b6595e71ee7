// Package annotations provides database operations for bookmarks, highlights,
// and notes. Each kind allows a single annotation per verse; saving again
// overwrites the previous value.
package annotations

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/scriptura/internal/entities"
)

// Repository handles all annotation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new annotations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func sortClause(order entities.SortOrder) string {
	if order == entities.SortByBook {
		return "book_index ASC, chapter_index ASC, verse_index ASC"
	}
	return "timestamp DESC"
}

// --- Bookmarks ---

// SaveBookmark stores a bookmark, replacing any existing one for the verse.
func (r *Repository) SaveBookmark(bookmark entities.Bookmark) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&bookmark).Error
}

// ReadBookmark returns the bookmark for a verse, or a zero-timestamp bookmark
// when none exists.
func (r *Repository) ReadBookmark(verseIndex entities.VerseIndex) (entities.Bookmark, error) {
	bookmark := entities.Bookmark{
		BookIndex:    verseIndex.BookIndex,
		ChapterIndex: verseIndex.ChapterIndex,
		VerseIndex:   verseIndex.VerseIndex,
	}
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bookmark.Timestamp = 0
		return bookmark, nil
	}
	return bookmark, err
}

// ReadBookmarks returns all bookmarks in the requested order.
func (r *Repository) ReadBookmarks(order entities.SortOrder) ([]entities.Bookmark, error) {
	var bookmarks []entities.Bookmark
	err := r.db.Order(sortClause(order)).Find(&bookmarks).Error
	return bookmarks, err
}

// RemoveBookmark deletes the bookmark for a verse. No-op when absent.
func (r *Repository) RemoveBookmark(verseIndex entities.VerseIndex) error {
	return r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).Delete(&entities.Bookmark{}).Error
}

// --- Highlights ---

// SaveHighlight stores a highlight, replacing any existing one for the verse.
func (r *Repository) SaveHighlight(highlight entities.Highlight) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&highlight).Error
}

// ReadHighlight returns the highlight for a verse, or a zero-value highlight
// (color none, timestamp 0) when none exists.
func (r *Repository) ReadHighlight(verseIndex entities.VerseIndex) (entities.Highlight, error) {
	highlight := entities.Highlight{
		BookIndex:    verseIndex.BookIndex,
		ChapterIndex: verseIndex.ChapterIndex,
		VerseIndex:   verseIndex.VerseIndex,
	}
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).First(&highlight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		highlight.Color = entities.HighlightColorNone
		highlight.Timestamp = 0
		return highlight, nil
	}
	return highlight, err
}

// ReadHighlights returns all highlights in the requested order.
func (r *Repository) ReadHighlights(order entities.SortOrder) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Order(sortClause(order)).Find(&highlights).Error
	return highlights, err
}

// RemoveHighlight deletes the highlight for a verse. No-op when absent.
func (r *Repository) RemoveHighlight(verseIndex entities.VerseIndex) error {
	return r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).Delete(&entities.Highlight{}).Error
}

// --- Notes ---

// SaveNote stores a note, replacing any existing one for the verse.
func (r *Repository) SaveNote(note entities.Note) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&note).Error
}

// ReadNote returns the note for a verse, or an empty note when none exists.
func (r *Repository) ReadNote(verseIndex entities.VerseIndex) (entities.Note, error) {
	note := entities.Note{
		BookIndex:    verseIndex.BookIndex,
		ChapterIndex: verseIndex.ChapterIndex,
		VerseIndex:   verseIndex.VerseIndex,
	}
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		note.Text = ""
		note.Timestamp = 0
		return note, nil
	}
	return note, err
}

// ReadNotes returns all notes in the requested order.
func (r *Repository) ReadNotes(order entities.SortOrder) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.Order(sortClause(order)).Find(&notes).Error
	return notes, err
}

// RemoveNote deletes the note for a verse. No-op when absent.
func (r *Repository) RemoveNote(verseIndex entities.VerseIndex) error {
	return r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).Delete(&entities.Note{}).Error
}
