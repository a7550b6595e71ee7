package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/scriptura/internal/database/annotations"
	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/entities"
)

func setupAnnotationsRouter(t *testing.T) (*gin.Engine, *metadata.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_annotations_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Metadata{}, &entities.Bookmark{}, &entities.Highlight{}, &entities.Note{})
	require.NoError(t, err)

	metadataRepo := metadata.NewRepository(db)
	controller := NewAnnotationsController(annotations.NewRepository(db), metadataRepo)

	router := gin.New()
	router.GET("/api/bookmarks", controller.ListBookmarks)
	router.POST("/api/bookmarks", controller.SaveBookmark)
	router.DELETE("/api/bookmarks/:book/:chapter/:verse", controller.RemoveBookmark)
	router.GET("/api/highlights", controller.ListHighlights)
	router.POST("/api/highlights", controller.SaveHighlight)
	router.GET("/api/notes", controller.ListNotes)
	router.POST("/api/notes", controller.SaveNote)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, metadataRepo, cleanup
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	encoded, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAnnotationsController_BookmarkLifecycle(t *testing.T) {
	router, _, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	w := postJSON(router, "/api/bookmarks", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 5, "timestamp": 1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/bookmarks", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Bookmarks []entities.Bookmark `json:"bookmarks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Bookmarks, 1)
	assert.Equal(t, int64(1000), listed.Bookmarks[0].Timestamp)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/bookmarks/0/0/5", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/bookmarks", nil)
	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Bookmarks)
}

func TestAnnotationsController_BookmarkValidatesVerseIndex(t *testing.T) {
	router, _, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	w := postJSON(router, "/api/bookmarks", gin.H{
		"book_index": 66, "chapter_index": 0, "verse_index": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnotationsController_BookmarkDefaultsTimestampToNow(t *testing.T) {
	router, _, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	w := postJSON(router, "/api/bookmarks", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var saved entities.Bookmark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Greater(t, saved.Timestamp, int64(0))
}

func TestAnnotationsController_HighlightParsesColor(t *testing.T) {
	router, _, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	// Hex colors come in as strings
	w := postJSON(router, "/api/highlights", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0,
		"color": "0xFFFFFF00", "timestamp": 1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var saved entities.Highlight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, int64(entities.HighlightColorYellow), saved.Color)

	w = postJSON(router, "/api/highlights", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0,
		"color": "not-a-color",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnotationsController_NoteRequiresText(t *testing.T) {
	router, _, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	w := postJSON(router, "/api/notes", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/api/notes", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0, "text": "remember this",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnnotationsController_SortPreferenceIsRemembered(t *testing.T) {
	router, metadataRepo, cleanup := setupAnnotationsRouter(t)
	defer cleanup()

	require.Equal(t, http.StatusOK, postJSON(router, "/api/bookmarks", gin.H{
		"book_index": 1, "chapter_index": 0, "verse_index": 0, "timestamp": 2000,
	}).Code)
	require.Equal(t, http.StatusOK, postJSON(router, "/api/bookmarks", gin.H{
		"book_index": 0, "chapter_index": 0, "verse_index": 0, "timestamp": 1000,
	}).Code)

	// Explicit ?sort=book is applied and persisted
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/bookmarks?sort=book", nil)
	router.ServeHTTP(w, req)

	var listed struct {
		Bookmarks []entities.Bookmark `json:"bookmarks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Bookmarks, 2)
	assert.Equal(t, 0, listed.Bookmarks[0].BookIndex)

	stored, err := metadataRepo.ReadInt(metadata.KeyBookmarkSortOrder, -1)
	require.NoError(t, err)
	assert.Equal(t, int(entities.SortByBook), stored)

	// A later request without ?sort= uses the stored preference
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/bookmarks", nil)
	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Bookmarks, 2)
	assert.Equal(t, 0, listed.Bookmarks[0].BookIndex)
}
