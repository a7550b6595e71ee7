package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
	"github.com/mrlokans/scriptura/internal/services"
)

// ReadingStateStore defines the current-reading-state operations the
// controller needs.
type ReadingStateStore interface {
	CurrentVerseIndex() *services.Observable[entities.VerseIndex]
	CurrentTranslation() *services.Observable[string]
	ParallelTranslations() *services.Observable[[]string]
	SaveCurrentVerseIndex(verseIndex entities.VerseIndex) error
	SaveCurrentTranslation(translation string) error
	RequestParallelTranslation(translation string)
	RemoveParallelTranslation(translation string)
}

type ReadingController struct {
	store ReadingStateStore
}

func NewReadingController(store ReadingStateStore) *ReadingController {
	return &ReadingController{store: store}
}

func (rc *ReadingController) currentState() gin.H {
	return gin.H{
		"current_translation":   rc.store.CurrentTranslation().Get(),
		"current_verse":         rc.store.CurrentVerseIndex().Get(),
		"parallel_translations": rc.store.ParallelTranslations().Get(),
	}
}

// Current returns the current reading state.
// GET /api/reading/current
func (rc *ReadingController) Current(c *gin.Context) {
	c.JSON(http.StatusOK, rc.currentState())
}

// SaveCurrent updates the current translation and/or verse.
// PUT /api/reading/current
func (rc *ReadingController) SaveCurrent(c *gin.Context) {
	var req struct {
		Translation *string              `json:"translation"`
		Verse       *entities.VerseIndex `json:"verse"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid reading state")
		return
	}

	if req.Translation != nil {
		if err := rc.store.SaveCurrentTranslation(*req.Translation); err != nil {
			respondInternalError(c, err, "save current translation")
			return
		}
	}
	if req.Verse != nil {
		if !req.Verse.Valid() {
			respondBadRequest(c, "verse index out of range")
			return
		}
		if err := rc.store.SaveCurrentVerseIndex(*req.Verse); err != nil {
			respondInternalError(c, err, "save current verse")
			return
		}
	}
	c.JSON(http.StatusOK, rc.currentState())
}

// AddParallel adds a parallel translation.
// POST /api/reading/parallel/:translation
func (rc *ReadingController) AddParallel(c *gin.Context) {
	rc.store.RequestParallelTranslation(c.Param("translation"))
	c.JSON(http.StatusOK, rc.currentState())
}

// RemoveParallel removes a parallel translation.
// DELETE /api/reading/parallel/:translation
func (rc *ReadingController) RemoveParallel(c *gin.Context) {
	rc.store.RemoveParallelTranslation(c.Param("translation"))
	c.JSON(http.StatusOK, rc.currentState())
}
