package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/database/strongnumber"
	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
)

// StrongNumberService orchestrates the Strong's-number index: it fetches the
// forward/reverse indexes and the word dictionary from the remote service and
// replaces all three tables inside one transaction, so readers never see one
// index stale relative to another.
type StrongNumberService struct {
	db     *gorm.DB
	remote RemoteStrongNumberService
	repo   *strongnumber.Repository
	verses *verses.Repository
}

// NewStrongNumberService creates a new Strong's-number service.
func NewStrongNumberService(db *gorm.DB, remote RemoteStrongNumberService) *StrongNumberService {
	return &StrongNumberService{
		db:     db,
		remote: remote,
		repo:   strongnumber.NewRepository(db),
		verses: verses.NewRepository(db),
	}
}

// Update fetches fresh indexes and words and replaces the three tables
// together. The progress channel receives 0-100 (indexes map to 0-50, words
// to 50-100) and is closed when the operation ends, success or failure.
func (s *StrongNumberService) Update(ctx context.Context, progress chan<- int) error {
	var forwarders sync.WaitGroup
	if progress != nil {
		defer close(progress)
	}
	defer forwarders.Wait()

	forward := func(offset int) chan int {
		sub := make(chan int, 1)
		forwarders.Add(1)
		go func() {
			defer forwarders.Done()
			for value := range sub {
				reportProgress(progress, offset+value/2)
			}
		}()
		return sub
	}

	indexProgress := forward(0)
	indexes, err := s.remote.FetchIndexes(ctx, indexProgress)
	close(indexProgress)
	if err != nil {
		return fmt.Errorf("failed to fetch Strong's number indexes: %w", err)
	}

	wordProgress := forward(50)
	words, err := s.remote.FetchWords(ctx, wordProgress)
	close(wordProgress)
	if err != nil {
		return fmt.Errorf("failed to fetch Strong's number words: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := strongnumber.NewRepository(tx)
		if err := repo.ReplaceIndexes(indexes.Forward); err != nil {
			return err
		}
		if err := repo.ReplaceReverseIndexes(indexes.Reverse); err != nil {
			return err
		}
		return repo.ReplaceWords(words)
	})
	if err != nil {
		return fmt.Errorf("failed to replace Strong's number tables: %w", err)
	}

	reportProgress(progress, 100)
	return nil
}

// ReadStrongNumber resolves one code to its gloss.
func (s *StrongNumberService) ReadStrongNumber(code string) (entities.StrongNumber, error) {
	return s.repo.ReadStrongNumber(code)
}

// ReadStrongNumbers returns the Strong's numbers of one verse with resolved
// glosses. An unknown verse yields an empty slice.
func (s *StrongNumberService) ReadStrongNumbers(verseIndex entities.VerseIndex) ([]entities.StrongNumber, error) {
	return s.repo.ReadStrongNumbers(verseIndex)
}

// ReadVerseIndexes returns the verses containing a code in the fixed
// (book, chapter, verse) display order, independent of database return order.
func (s *StrongNumberService) ReadVerseIndexes(code string) ([]entities.VerseIndex, error) {
	indexes, err := s.repo.ReadVerseIndexes(code)
	if err != nil {
		return nil, err
	}
	verses.SortVerseIndexes(indexes)
	return indexes, nil
}

// ReadVerses resolves the verses containing a code against one translation,
// in display order. Verses absent from the translation carry empty text.
func (s *StrongNumberService) ReadVerses(translation, code string) ([]entities.Verse, error) {
	indexes, err := s.ReadVerseIndexes(code)
	if err != nil {
		return nil, err
	}
	result := make([]entities.Verse, 0, len(indexes))
	for _, index := range indexes {
		verse, err := s.verses.ReadVerse(translation, index)
		if err != nil {
			return nil, err
		}
		result = append(result, verse)
	}
	return result, nil
}
