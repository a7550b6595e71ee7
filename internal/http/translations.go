package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
)

// TranslationStore defines the translation lifecycle operations the
// controller needs.
type TranslationStore interface {
	Available() []entities.TranslationInfo
	Downloaded() []entities.TranslationInfo
	Find(shortName string) (entities.TranslationInfo, bool)
	Reload(ctx context.Context, forceRefresh bool) error
	Download(ctx context.Context, progress chan<- int, info entities.TranslationInfo) error
	Remove(info entities.TranslationInfo) error
}

type TranslationsController struct {
	store TranslationStore
}

func NewTranslationsController(store TranslationStore) *TranslationsController {
	return &TranslationsController{store: store}
}

// List returns the available and downloaded translation partitions.
// GET /api/translations
func (tc *TranslationsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"available":  tc.store.Available(),
		"downloaded": tc.store.Downloaded(),
	})
}

// Reload refreshes the catalog, optionally bypassing the staleness window.
// POST /api/translations/reload
func (tc *TranslationsController) Reload(c *gin.Context) {
	var req struct {
		Force bool `json:"force"`
	}
	// Body is optional; a missing body means a staleness-gated reload.
	_ = c.ShouldBindJSON(&req)

	if err := tc.store.Reload(c.Request.Context(), req.Force); err != nil {
		respondInternalError(c, err, "reload translations")
		return
	}
	tc.List(c)
}

// Download installs a translation from the remote catalog. The response is
// sent once the install transaction has committed; progress is logged.
// POST /api/translations/:shortName/download
func (tc *TranslationsController) Download(c *gin.Context) {
	shortName := c.Param("shortName")
	info, ok := tc.store.Find(shortName)
	if !ok {
		respondNotFound(c, "translation "+shortName)
		return
	}
	if info.Downloaded {
		respondSuccess(c, "translation already downloaded")
		return
	}

	progress := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := -1
		for p := range progress {
			if p != last {
				log.Printf("Downloading %s: %d%%", shortName, p)
				last = p
			}
		}
	}()

	err := tc.store.Download(c.Request.Context(), progress, info)
	<-done
	if err != nil {
		respondInternalError(c, err, "download translation")
		return
	}
	respondSuccess(c, "translation downloaded")
}

// Remove uninstalls a downloaded translation.
// DELETE /api/translations/:shortName
func (tc *TranslationsController) Remove(c *gin.Context) {
	shortName := c.Param("shortName")
	info, ok := tc.store.Find(shortName)
	if !ok {
		respondNotFound(c, "translation "+shortName)
		return
	}
	if !info.Downloaded {
		respondBadRequest(c, "translation is not downloaded")
		return
	}

	if err := tc.store.Remove(info); err != nil {
		respondInternalError(c, err, "remove translation")
		return
	}
	respondSuccess(c, "translation removed")
}
