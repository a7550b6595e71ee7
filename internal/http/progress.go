package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
)

// ProgressStore defines the reading-progress operations the controller needs.
type ProgressStore interface {
	TrackReading(bookIndex, chapterIndex int, timeSpentMillis, timestamp int64) error
	Read() (entities.ReadingProgress, error)
}

type ProgressController struct {
	store ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{store: store}
}

// Track records one reading event. A zero timestamp means "now".
// POST /api/progress/track
func (pc *ProgressController) Track(c *gin.Context) {
	var req struct {
		BookIndex       int   `json:"book_index"`
		ChapterIndex    int   `json:"chapter_index"`
		TimeSpentMillis int64 `json:"time_spent_millis"`
		Timestamp       int64 `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid tracking event")
		return
	}
	if req.Timestamp <= 0 {
		req.Timestamp = time.Now().UnixMilli()
	}

	if err := pc.store.TrackReading(req.BookIndex, req.ChapterIndex, req.TimeSpentMillis, req.Timestamp); err != nil {
		respondInternalError(c, err, "track reading")
		return
	}
	respondSuccess(c, "reading tracked")
}

// Read returns the assembled reading progress.
// GET /api/progress
func (pc *ProgressController) Read(c *gin.Context) {
	progress, err := pc.store.Read()
	if err != nil {
		respondInternalError(c, err, "read progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}
