package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/entities"
)

// AnnotationStore defines the bookmark/highlight/note operations the
// controller needs.
type AnnotationStore interface {
	SaveBookmark(bookmark entities.Bookmark) error
	ReadBookmark(verseIndex entities.VerseIndex) (entities.Bookmark, error)
	ReadBookmarks(order entities.SortOrder) ([]entities.Bookmark, error)
	RemoveBookmark(verseIndex entities.VerseIndex) error

	SaveHighlight(highlight entities.Highlight) error
	ReadHighlight(verseIndex entities.VerseIndex) (entities.Highlight, error)
	ReadHighlights(order entities.SortOrder) ([]entities.Highlight, error)
	RemoveHighlight(verseIndex entities.VerseIndex) error

	SaveNote(note entities.Note) error
	ReadNote(verseIndex entities.VerseIndex) (entities.Note, error)
	ReadNotes(order entities.SortOrder) ([]entities.Note, error)
	RemoveNote(verseIndex entities.VerseIndex) error
}

// SettingsStore persists the per-annotation sort order preference.
type SettingsStore interface {
	ReadInt(key string, def int) (int, error)
	SaveInt(key string, value int) error
}

type AnnotationsController struct {
	store    AnnotationStore
	settings SettingsStore
}

func NewAnnotationsController(store AnnotationStore, settings SettingsStore) *AnnotationsController {
	return &AnnotationsController{store: store, settings: settings}
}

// sortOrderFor resolves the effective sort order: an explicit ?sort= wins and
// is remembered as the new preference; otherwise the persisted preference
// applies, defaulting to sorting by date.
func (ac *AnnotationsController) sortOrderFor(c *gin.Context, key string) entities.SortOrder {
	if raw := c.Query("sort"); raw != "" {
		order := parseSortOrder(c)
		if err := ac.settings.SaveInt(key, int(order)); err != nil {
			log.Printf("Failed to persist sort order for %s: %v", key, err)
		}
		return order
	}
	stored, err := ac.settings.ReadInt(key, int(entities.SortByDate))
	if err != nil {
		return entities.SortByDate
	}
	return entities.SortOrder(stored)
}

func timestampOrNow(timestamp int64) int64 {
	if timestamp > 0 {
		return timestamp
	}
	return time.Now().UnixMilli()
}

// --- Bookmarks ---

// ListBookmarks returns all bookmarks.
// GET /api/bookmarks?sort=date|book
func (ac *AnnotationsController) ListBookmarks(c *gin.Context) {
	bookmarks, err := ac.store.ReadBookmarks(ac.sortOrderFor(c, metadata.KeyBookmarkSortOrder))
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// SaveBookmark creates or overwrites the bookmark for a verse.
// POST /api/bookmarks
func (ac *AnnotationsController) SaveBookmark(c *gin.Context) {
	var req struct {
		BookIndex    int   `json:"book_index"`
		ChapterIndex int   `json:"chapter_index"`
		VerseIndex   int   `json:"verse_index"`
		Timestamp    int64 `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid bookmark")
		return
	}
	index := entities.VerseIndex{BookIndex: req.BookIndex, ChapterIndex: req.ChapterIndex, VerseIndex: req.VerseIndex}
	if !index.Valid() {
		respondBadRequest(c, "verse index out of range")
		return
	}

	bookmark := entities.Bookmark{
		BookIndex:    req.BookIndex,
		ChapterIndex: req.ChapterIndex,
		VerseIndex:   req.VerseIndex,
		Timestamp:    timestampOrNow(req.Timestamp),
	}
	if err := ac.store.SaveBookmark(bookmark); err != nil {
		respondInternalError(c, err, "save bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// RemoveBookmark deletes the bookmark for a verse.
// DELETE /api/bookmarks/:book/:chapter/:verse
func (ac *AnnotationsController) RemoveBookmark(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	if err := ac.store.RemoveBookmark(index); err != nil {
		respondInternalError(c, err, "remove bookmark")
		return
	}
	respondSuccess(c, "bookmark removed")
}

// --- Highlights ---

// ListHighlights returns all highlights.
// GET /api/highlights?sort=date|book
func (ac *AnnotationsController) ListHighlights(c *gin.Context) {
	highlights, err := ac.store.ReadHighlights(ac.sortOrderFor(c, metadata.KeyHighlightSortOrder))
	if err != nil {
		respondInternalError(c, err, "list highlights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"highlights": highlights})
}

// SaveHighlight creates or overwrites the highlight for a verse.
// POST /api/highlights
func (ac *AnnotationsController) SaveHighlight(c *gin.Context) {
	var req struct {
		BookIndex    int    `json:"book_index"`
		ChapterIndex int    `json:"chapter_index"`
		VerseIndex   int    `json:"verse_index"`
		Color        string `json:"color"`
		Timestamp    int64  `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid highlight")
		return
	}
	index := entities.VerseIndex{BookIndex: req.BookIndex, ChapterIndex: req.ChapterIndex, VerseIndex: req.VerseIndex}
	if !index.Valid() {
		respondBadRequest(c, "verse index out of range")
		return
	}
	color, err := strconv.ParseInt(req.Color, 0, 64)
	if err != nil {
		respondBadRequest(c, "invalid color")
		return
	}

	highlight := entities.Highlight{
		BookIndex:    req.BookIndex,
		ChapterIndex: req.ChapterIndex,
		VerseIndex:   req.VerseIndex,
		Color:        color,
		Timestamp:    timestampOrNow(req.Timestamp),
	}
	if err := ac.store.SaveHighlight(highlight); err != nil {
		respondInternalError(c, err, "save highlight")
		return
	}
	c.JSON(http.StatusOK, highlight)
}

// RemoveHighlight deletes the highlight for a verse.
// DELETE /api/highlights/:book/:chapter/:verse
func (ac *AnnotationsController) RemoveHighlight(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	if err := ac.store.RemoveHighlight(index); err != nil {
		respondInternalError(c, err, "remove highlight")
		return
	}
	respondSuccess(c, "highlight removed")
}

// --- Notes ---

// ListNotes returns all notes.
// GET /api/notes?sort=date|book
func (ac *AnnotationsController) ListNotes(c *gin.Context) {
	notes, err := ac.store.ReadNotes(ac.sortOrderFor(c, metadata.KeyNoteSortOrder))
	if err != nil {
		respondInternalError(c, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// SaveNote creates or overwrites the note for a verse.
// POST /api/notes
func (ac *AnnotationsController) SaveNote(c *gin.Context) {
	var req struct {
		BookIndex    int    `json:"book_index"`
		ChapterIndex int    `json:"chapter_index"`
		VerseIndex   int    `json:"verse_index"`
		Text         string `json:"text" binding:"required"`
		Timestamp    int64  `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "text is required")
		return
	}
	index := entities.VerseIndex{BookIndex: req.BookIndex, ChapterIndex: req.ChapterIndex, VerseIndex: req.VerseIndex}
	if !index.Valid() {
		respondBadRequest(c, "verse index out of range")
		return
	}

	note := entities.Note{
		BookIndex:    req.BookIndex,
		ChapterIndex: req.ChapterIndex,
		VerseIndex:   req.VerseIndex,
		Text:         req.Text,
		Timestamp:    timestampOrNow(req.Timestamp),
	}
	if err := ac.store.SaveNote(note); err != nil {
		respondInternalError(c, err, "save note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// RemoveNote deletes the note for a verse.
// DELETE /api/notes/:book/:chapter/:verse
func (ac *AnnotationsController) RemoveNote(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	if err := ac.store.RemoveNote(index); err != nil {
		respondInternalError(c, err, "remove note")
		return
	}
	respondSuccess(c, "note removed")
}
