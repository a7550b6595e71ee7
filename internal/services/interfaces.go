package services

import (
	"context"

	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
)

// TranslationPayload is the full content of one translation as delivered by a
// remote fetch or a local side-load.
type TranslationPayload struct {
	BookNames      []string                     `json:"book_names"`
	BookShortNames []string                     `json:"book_short_names"`
	Verses         map[verses.ChapterKey][]string `json:"-"`
}

// StrongNumberIndexes holds the forward and reverse index of one fetch.
// Both always come from the same snapshot and are replaced together.
type StrongNumberIndexes struct {
	Forward map[entities.VerseIndex][]string
	Reverse map[string][]entities.VerseIndex
}

// RemoteTranslationService fetches the translation catalog and translation
// content. Any error from this boundary means "unavailable now", never fatal.
//
// Progress channels follow one convention across all remote operations: the
// producer sends values in [0, 100] and never closes the channel; the owning
// service closes it when the operation ends, success or failure, so consumers
// terminate deterministically. Sends must not block (slow consumers miss
// intermediate values).
type RemoteTranslationService interface {
	FetchTranslations(ctx context.Context) ([]entities.TranslationInfo, error)
	FetchTranslation(ctx context.Context, progress chan<- int, info entities.TranslationInfo) (*TranslationPayload, error)
	RemoveTranslationCache(info entities.TranslationInfo) error
}

// RemoteStrongNumberService fetches the Strong's-number indexes and word
// dictionary. Same availability and progress conventions as
// RemoteTranslationService.
type RemoteStrongNumberService interface {
	FetchIndexes(ctx context.Context, progress chan<- int) (*StrongNumberIndexes, error)
	FetchWords(ctx context.Context, progress chan<- int) (map[string]string, error)
}

// reportProgress delivers a progress value without blocking; a consumer that
// is not keeping up misses intermediate values, never the channel close.
func reportProgress(progress chan<- int, value int) {
	if progress == nil {
		return
	}
	select {
	case progress <- value:
	default:
	}
}
