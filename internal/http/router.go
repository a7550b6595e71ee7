package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig receives all controller dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Health       *HealthController
	Translations *TranslationsController
	Verses       *VersesController
	Annotations  *AnnotationsController
	Progress     *ProgressController
	Strongs      *StrongsController
	Reading      *ReadingController
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", cfg.Health.Status)

	api := router.Group("/api")
	{
		api.GET("/translations", cfg.Translations.List)
		api.POST("/translations/reload", cfg.Translations.Reload)
		api.POST("/translations/:shortName/download", cfg.Translations.Download)
		api.DELETE("/translations/:shortName", cfg.Translations.Remove)

		api.GET("/verses/:translation/:book/:chapter", cfg.Verses.Chapter)
		api.GET("/search", cfg.Verses.Search)
		api.GET("/books/:translation", cfg.Verses.BookNames)

		api.GET("/bookmarks", cfg.Annotations.ListBookmarks)
		api.POST("/bookmarks", cfg.Annotations.SaveBookmark)
		api.DELETE("/bookmarks/:book/:chapter/:verse", cfg.Annotations.RemoveBookmark)

		api.GET("/highlights", cfg.Annotations.ListHighlights)
		api.POST("/highlights", cfg.Annotations.SaveHighlight)
		api.DELETE("/highlights/:book/:chapter/:verse", cfg.Annotations.RemoveHighlight)

		api.GET("/notes", cfg.Annotations.ListNotes)
		api.POST("/notes", cfg.Annotations.SaveNote)
		api.DELETE("/notes/:book/:chapter/:verse", cfg.Annotations.RemoveNote)

		api.POST("/progress/track", cfg.Progress.Track)
		api.GET("/progress", cfg.Progress.Read)

		api.GET("/strongs/verse/:book/:chapter/:verse", cfg.Strongs.ForVerse)
		api.GET("/strongs/:code", cfg.Strongs.ForCode)
		api.POST("/strongs/update", cfg.Strongs.Update)

		api.GET("/reading/current", cfg.Reading.Current)
		api.PUT("/reading/current", cfg.Reading.SaveCurrent)
		api.POST("/reading/parallel/:translation", cfg.Reading.AddParallel)
		api.DELETE("/reading/parallel/:translation", cfg.Reading.RemoveParallel)
	}

	return router
}
