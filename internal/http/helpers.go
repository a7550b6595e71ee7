package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// parseIntParam extracts an integer from URL parameters.
func parseIntParam(c *gin.Context, paramName string) (int, bool) {
	value, err := strconv.Atoi(c.Param(paramName))
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return value, true
}

// parseVerseIndexParams extracts a (book, chapter, verse) triple from URL
// parameters and validates it against the canon.
func parseVerseIndexParams(c *gin.Context) (entities.VerseIndex, bool) {
	book, ok := parseIntParam(c, "book")
	if !ok {
		return entities.InvalidVerseIndex, false
	}
	chapter, ok := parseIntParam(c, "chapter")
	if !ok {
		return entities.InvalidVerseIndex, false
	}
	verse, ok := parseIntParam(c, "verse")
	if !ok {
		return entities.InvalidVerseIndex, false
	}
	index := entities.VerseIndex{BookIndex: book, ChapterIndex: chapter, VerseIndex: verse}
	if !index.Valid() {
		respondBadRequest(c, "verse index out of range")
		return entities.InvalidVerseIndex, false
	}
	return index, true
}

// parseSortOrder maps the ?sort= query value to a SortOrder, defaulting to
// sorting by date.
func parseSortOrder(c *gin.Context) entities.SortOrder {
	if c.Query("sort") == "book" {
		return entities.SortByBook
	}
	return entities.SortByDate
}
