package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/scriptura/internal/entities"
)

// StrongNumberStore defines the Strong's-number operations the controller
// needs.
type StrongNumberStore interface {
	Update(ctx context.Context, progress chan<- int) error
	ReadStrongNumber(code string) (entities.StrongNumber, error)
	ReadStrongNumbers(verseIndex entities.VerseIndex) ([]entities.StrongNumber, error)
	ReadVerses(translation, code string) ([]entities.Verse, error)
}

type StrongsController struct {
	store StrongNumberStore
}

func NewStrongsController(store StrongNumberStore) *StrongsController {
	return &StrongsController{store: store}
}

// ForVerse returns the Strong's numbers of one verse with glosses.
// GET /api/strongs/verse/:book/:chapter/:verse
func (sc *StrongsController) ForVerse(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	numbers, err := sc.store.ReadStrongNumbers(index)
	if err != nil {
		respondInternalError(c, err, "read strong numbers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"strong_numbers": numbers})
}

// ForCode returns one code's gloss and, when ?translation= is given, the
// verses containing it.
// GET /api/strongs/:code
func (sc *StrongsController) ForCode(c *gin.Context) {
	code := c.Param("code")
	number, err := sc.store.ReadStrongNumber(code)
	if err != nil {
		respondInternalError(c, err, "read strong number")
		return
	}
	if !number.Valid() {
		respondBadRequest(c, "invalid Strong's code")
		return
	}

	response := gin.H{"strong_number": number}
	if translation := c.Query("translation"); translation != "" {
		verses, err := sc.store.ReadVerses(translation, code)
		if err != nil {
			respondInternalError(c, err, "read strong number verses")
			return
		}
		response["verses"] = verses
	}
	c.JSON(http.StatusOK, response)
}

// Update refetches the index and word dictionary. The response is sent after
// the triple replace has committed; progress is logged.
// POST /api/strongs/update
func (sc *StrongsController) Update(c *gin.Context) {
	progress := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := -1
		for p := range progress {
			if p != last {
				log.Printf("Updating Strong's numbers: %d%%", p)
				last = p
			}
		}
	}()

	err := sc.store.Update(c.Request.Context(), progress)
	<-done
	if err != nil {
		respondInternalError(c, err, "update strong numbers")
		return
	}
	respondSuccess(c, "strong numbers updated")
}
