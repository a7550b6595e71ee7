package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/database/booknames"
	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/database/verses"
	"github.com/mrlokans/scriptura/internal/entities"
)

// ReadingService is the read-through layer above the verse and book-name
// stores. Book names for a translation never change once downloaded, so they
// are cached in memory on first read and never invalidated; verse text always
// hits the store. It also holds the observable reading state: current verse,
// current translation, and the parallel-translation list.
type ReadingService struct {
	versesRepo    *verses.Repository
	bookNamesRepo *booknames.Repository
	metadataRepo  *metadata.Repository

	mu             sync.RWMutex
	bookNames      map[string][]string
	bookShortNames map[string][]string

	currentVerse         *Observable[entities.VerseIndex]
	currentTranslation   *Observable[string]
	parallelTranslations *Observable[[]string]
}

// NewReadingService creates the service and seeds the observable state from
// storage. Each seed read degrades independently to a safe default (invalid
// verse index, empty translation, empty parallel list) instead of failing.
func NewReadingService(db *gorm.DB) *ReadingService {
	s := &ReadingService{
		versesRepo:     verses.NewRepository(db),
		bookNamesRepo:  booknames.NewRepository(db),
		metadataRepo:   metadata.NewRepository(db),
		bookNames:      make(map[string][]string),
		bookShortNames: make(map[string][]string),
	}

	verseIndex := entities.InvalidVerseIndex
	book, err1 := s.metadataRepo.ReadInt(metadata.KeyCurrentBookIndex, entities.InvalidVerseIndex.BookIndex)
	chapter, err2 := s.metadataRepo.ReadInt(metadata.KeyCurrentChapterIndex, entities.InvalidVerseIndex.ChapterIndex)
	verse, err3 := s.metadataRepo.ReadInt(metadata.KeyCurrentVerseIndex, entities.InvalidVerseIndex.VerseIndex)
	if err1 == nil && err2 == nil && err3 == nil {
		verseIndex = entities.VerseIndex{BookIndex: book, ChapterIndex: chapter, VerseIndex: verse}
	} else {
		log.Printf("Reading service: failed to restore current verse, using invalid sentinel")
	}
	s.currentVerse = NewObservable(verseIndex)

	translation, err := s.metadataRepo.Read(metadata.KeyCurrentTranslation, "")
	if err != nil {
		log.Printf("Reading service: failed to restore current translation: %v", err)
		translation = ""
	}
	s.currentTranslation = NewObservable(translation)

	s.parallelTranslations = NewObservable(s.loadParallelTranslations())

	return s
}

func (s *ReadingService) loadParallelTranslations() []string {
	encoded, err := s.metadataRepo.Read(metadata.KeyParallelTranslations, "[]")
	if err != nil {
		log.Printf("Reading service: failed to restore parallel translations: %v", err)
		return []string{}
	}
	var parallel []string
	if err := json.Unmarshal([]byte(encoded), &parallel); err != nil {
		log.Printf("Reading service: corrupt parallel translation list, resetting: %v", err)
		return []string{}
	}
	return parallel
}

// BookNames returns the full book names of a translation, from cache when
// already loaded.
func (s *ReadingService) BookNames(translation string) ([]string, error) {
	s.mu.RLock()
	cached, ok := s.bookNames[translation]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	names, err := s.bookNamesRepo.Read(translation)
	if err != nil {
		return nil, fmt.Errorf("failed to read book names for %s: %w", translation, err)
	}
	if len(names) > 0 {
		s.mu.Lock()
		s.bookNames[translation] = names
		s.mu.Unlock()
	}
	return names, nil
}

// BookShortNames returns the short book names of a translation, from cache
// when already loaded.
func (s *ReadingService) BookShortNames(translation string) ([]string, error) {
	s.mu.RLock()
	cached, ok := s.bookShortNames[translation]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	names, err := s.bookNamesRepo.ReadShortNames(translation)
	if err != nil {
		return nil, fmt.Errorf("failed to read short book names for %s: %w", translation, err)
	}
	if len(names) > 0 {
		s.mu.Lock()
		s.bookShortNames[translation] = names
		s.mu.Unlock()
	}
	return names, nil
}

// CurrentVerseIndex returns the observable current verse index.
func (s *ReadingService) CurrentVerseIndex() *Observable[entities.VerseIndex] {
	return s.currentVerse
}

// CurrentTranslation returns the observable current translation short name.
func (s *ReadingService) CurrentTranslation() *Observable[string] {
	return s.currentTranslation
}

// ParallelTranslations returns the observable parallel-translation list.
func (s *ReadingService) ParallelTranslations() *Observable[[]string] {
	return s.parallelTranslations
}

// SaveCurrentVerseIndex persists the new current verse and publishes it.
func (s *ReadingService) SaveCurrentVerseIndex(verseIndex entities.VerseIndex) error {
	if err := s.metadataRepo.SaveInt(metadata.KeyCurrentBookIndex, verseIndex.BookIndex); err != nil {
		return err
	}
	if err := s.metadataRepo.SaveInt(metadata.KeyCurrentChapterIndex, verseIndex.ChapterIndex); err != nil {
		return err
	}
	if err := s.metadataRepo.SaveInt(metadata.KeyCurrentVerseIndex, verseIndex.VerseIndex); err != nil {
		return err
	}
	s.currentVerse.Set(verseIndex)
	return nil
}

// SaveCurrentTranslation persists the new current translation and publishes it.
func (s *ReadingService) SaveCurrentTranslation(translation string) error {
	if err := s.metadataRepo.Save(metadata.KeyCurrentTranslation, translation); err != nil {
		return err
	}
	s.currentTranslation.Set(translation)
	return nil
}

// RequestParallelTranslation adds a translation to the parallel set. The set
// is de-duplicated and keeps insertion order. The in-memory change is
// authoritative; persistence is best-effort and a failure does not roll it
// back.
func (s *ReadingService) RequestParallelTranslation(translation string) {
	current := s.parallelTranslations.Get()
	for _, existing := range current {
		if existing == translation {
			return
		}
	}
	updated := make([]string, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, translation)
	s.parallelTranslations.Set(updated)
	s.persistParallelTranslations(updated)
}

// RemoveParallelTranslation removes a translation from the parallel set,
// keeping the order of the remaining entries. Same optimistic persistence as
// RequestParallelTranslation.
func (s *ReadingService) RemoveParallelTranslation(translation string) {
	current := s.parallelTranslations.Get()
	updated := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != translation {
			updated = append(updated, existing)
		}
	}
	if len(updated) == len(current) {
		return
	}
	s.parallelTranslations.Set(updated)
	s.persistParallelTranslations(updated)
}

func (s *ReadingService) persistParallelTranslations(parallel []string) {
	encoded, err := json.Marshal(parallel)
	if err != nil {
		log.Printf("Reading service: failed to encode parallel translations: %v", err)
		return
	}
	if err := s.metadataRepo.Save(metadata.KeyParallelTranslations, string(encoded)); err != nil {
		log.Printf("Reading service: failed to persist parallel translations: %v", err)
	}
}

// ReadVerses returns one chapter of the primary translation decorated with
// its book name and, for each verse, the texts of the requested parallel
// translations. The parallel list of every verse has exactly one entry per
// requested translation; a missing text is an empty string.
func (s *ReadingService) ReadVerses(translation string, parallel []string, bookIndex, chapterIndex int) ([]entities.Verse, error) {
	primary, err := s.versesRepo.Read(translation, bookIndex, chapterIndex)
	if err != nil {
		return nil, err
	}

	bookName := s.bookNameFor(translation, bookIndex)

	var parallelTexts map[string][]string
	if len(parallel) > 0 {
		parallelTexts, err = s.versesRepo.ReadAcrossTranslations(parallel, bookIndex, chapterIndex)
		if err != nil {
			return nil, err
		}
	}

	result := make([]entities.Verse, 0, len(primary))
	for _, verse := range primary {
		verse.Text.BookName = bookName
		if len(parallel) > 0 {
			verse.Parallel = make([]entities.VerseText, 0, len(parallel))
			for _, parallelTranslation := range parallel {
				text := ""
				if texts := parallelTexts[parallelTranslation]; verse.Index.VerseIndex < len(texts) {
					text = texts[verse.Index.VerseIndex]
				}
				verse.Parallel = append(verse.Parallel, entities.VerseText{
					Translation: parallelTranslation,
					Text:        text,
				})
			}
		}
		result = append(result, verse)
	}
	return result, nil
}

// ReadVerse returns one verse decorated with its book name. An absent verse
// carries an empty text.
func (s *ReadingService) ReadVerse(translation string, verseIndex entities.VerseIndex) (entities.Verse, error) {
	verse, err := s.versesRepo.ReadVerse(translation, verseIndex)
	if err != nil {
		return verse, err
	}
	verse.Text.BookName = s.bookNameFor(translation, verseIndex.BookIndex)
	return verse, nil
}

// Search runs a keyword search over one translation and decorates each hit
// with its book name.
func (s *ReadingService) Search(translation, keywords string) ([]entities.Verse, error) {
	found, err := s.versesRepo.Search(translation, keywords)
	if err != nil {
		return nil, err
	}
	for i := range found {
		found[i].Text.BookName = s.bookNameFor(translation, found[i].Index.BookIndex)
	}
	return found, nil
}

func (s *ReadingService) bookNameFor(translation string, bookIndex int) string {
	names, err := s.BookNames(translation)
	if err != nil || bookIndex < 0 || bookIndex >= len(names) {
		return ""
	}
	return names[bookIndex]
}
