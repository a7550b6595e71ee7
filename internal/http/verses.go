package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
)

// VerseStore defines the verse read operations the controller needs.
type VerseStore interface {
	ReadVerses(translation string, parallel []string, bookIndex, chapterIndex int) ([]entities.Verse, error)
	Search(translation, keywords string) ([]entities.Verse, error)
	BookNames(translation string) ([]string, error)
	BookShortNames(translation string) ([]string, error)
}

type VersesController struct {
	store VerseStore
}

func NewVersesController(store VerseStore) *VersesController {
	return &VersesController{store: store}
}

// Chapter returns one chapter of a translation, optionally with parallel
// translations from the comma-separated ?parallel= query.
// GET /api/verses/:translation/:book/:chapter
func (vc *VersesController) Chapter(c *gin.Context) {
	translation := c.Param("translation")
	book, ok := parseIntParam(c, "book")
	if !ok {
		return
	}
	chapter, ok := parseIntParam(c, "chapter")
	if !ok {
		return
	}
	if book < 0 || book >= entities.BookCount || chapter < 0 || chapter >= entities.ChapterCounts[book] {
		respondBadRequest(c, "chapter out of range")
		return
	}

	var parallel []string
	if raw := c.Query("parallel"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				parallel = append(parallel, name)
			}
		}
	}

	verses, err := vc.store.ReadVerses(translation, parallel, book, chapter)
	if err != nil {
		respondInternalError(c, err, "read chapter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verses": verses})
}

// Search runs a keyword search over one translation.
// GET /api/search?translation=KJV&q=god+created
func (vc *VersesController) Search(c *gin.Context) {
	translation := c.Query("translation")
	if translation == "" {
		respondBadRequest(c, "translation is required")
		return
	}

	verses, err := vc.store.Search(translation, c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "search verses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verses": verses})
}

// BookNames returns the full and short book names of a translation.
// GET /api/books/:translation
func (vc *VersesController) BookNames(c *gin.Context) {
	translation := c.Param("translation")

	names, err := vc.store.BookNames(translation)
	if err != nil {
		respondInternalError(c, err, "read book names")
		return
	}
	shortNames, err := vc.store.BookShortNames(translation)
	if err != nil {
		respondInternalError(c, err, "read short book names")
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": names, "short_names": shortNames})
}
