// Package verses stores verse text in one dynamically created table per
// installed translation. The translation short name is the table name, so
// every identifier passes through a sanitizer before reaching SQL.
package verses

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/scriptura/internal/entities"
)

// reservedTables are the fixed tables a translation short name must not shadow.
var reservedTables = map[string]bool{
	"metadata":                    true,
	"book_names":                  true,
	"translation_info":            true,
	"bookmarks":                   true,
	"highlights":                  true,
	"notes":                       true,
	"reading_progress":            true,
	"strong_number_index":         true,
	"strong_number_reverse_index": true,
	"strong_number_words":         true,
}

// ChapterKey identifies one chapter of one book.
type ChapterKey struct {
	BookIndex    int `json:"book_index"`
	ChapterIndex int `json:"chapter_index"`
}

// Repository handles verse storage for all installed translations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new verses repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// quoteIdent validates a translation short name and returns it quoted for use
// as a SQL identifier. Names that could escape the quoting or shadow a fixed
// table are rejected.
func quoteIdent(translation string) (string, error) {
	if translation == "" {
		return "", fmt.Errorf("empty translation name")
	}
	if strings.ContainsAny(translation, "\"`';\x00") {
		return "", fmt.Errorf("invalid translation name %q", translation)
	}
	if reservedTables[strings.ToLower(translation)] {
		return "", fmt.Errorf("translation name %q shadows a fixed table", translation)
	}
	return `"` + translation + `"`, nil
}

// CreateTable creates the verse table for a translation. Safe to call when
// the table already exists.
func (r *Repository) CreateTable(translation string) error {
	table, err := quoteIdent(translation)
	if err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		book_index INTEGER NOT NULL,
		chapter_index INTEGER NOT NULL,
		verse_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (book_index, chapter_index, verse_index)
	)`, table)
	if err := r.db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create verse table for %s: %w", translation, err)
	}
	return nil
}

// RemoveTable drops the verse table for a translation. No-op if absent.
func (r *Repository) RemoveTable(translation string) error {
	table, err := quoteIdent(translation)
	if err != nil {
		return err
	}
	if err := r.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)).Error; err != nil {
		return fmt.Errorf("failed to drop verse table for %s: %w", translation, err)
	}
	return nil
}

// HasTable reports whether the verse table for a translation exists.
func (r *Repository) HasTable(translation string) bool {
	if _, err := quoteIdent(translation); err != nil {
		return false
	}
	return r.db.Migrator().HasTable(translation)
}

// Save writes verses grouped by chapter. The verse index of each row is the
// position of its text in the chapter's list, stored explicitly so reads do
// not depend on row order. Existing rows for the same verse are overwritten;
// untouched chapters are left alone.
func (r *Repository) Save(translation string, versesByChapter map[ChapterKey][]string) error {
	table, err := quoteIdent(translation)
	if err != nil {
		return err
	}
	for key := range versesByChapter {
		if key.BookIndex < 0 || key.BookIndex >= entities.BookCount || key.ChapterIndex < 0 {
			return fmt.Errorf("invalid chapter key (%d, %d)", key.BookIndex, key.ChapterIndex)
		}
	}

	insert := fmt.Sprintf(`INSERT INTO %s (book_index, chapter_index, verse_index, text) VALUES (?, ?, ?, ?)
		ON CONFLICT (book_index, chapter_index, verse_index) DO UPDATE SET text = excluded.text`, table)

	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, texts := range versesByChapter {
			for verseIndex, text := range texts {
				if err := tx.Exec(insert, key.BookIndex, key.ChapterIndex, verseIndex, text).Error; err != nil {
					return fmt.Errorf("failed to save verse %d:%d:%d for %s: %w",
						key.BookIndex, key.ChapterIndex, verseIndex, translation, err)
				}
			}
		}
		return nil
	})
}

type verseRow struct {
	BookIndex    int
	ChapterIndex int
	VerseIndex   int
	Text         string
}

// Read returns all verses of one chapter in ascending verse order. An unknown
// translation or empty chapter yields an empty slice.
func (r *Repository) Read(translation string, bookIndex, chapterIndex int) ([]entities.Verse, error) {
	table, err := quoteIdent(translation)
	if err != nil {
		return nil, err
	}
	if !r.HasTable(translation) {
		return nil, nil
	}

	var rows []verseRow
	query := fmt.Sprintf(`SELECT book_index, chapter_index, verse_index, text FROM %s
		WHERE book_index = ? AND chapter_index = ? ORDER BY verse_index ASC`, table)
	if err := r.db.Raw(query, bookIndex, chapterIndex).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read chapter %d:%d for %s: %w", bookIndex, chapterIndex, translation, err)
	}

	verses := make([]entities.Verse, 0, len(rows))
	for _, row := range rows {
		verses = append(verses, entities.Verse{
			Index: entities.VerseIndex{BookIndex: row.BookIndex, ChapterIndex: row.ChapterIndex, VerseIndex: row.VerseIndex},
			Text:  entities.VerseText{Translation: translation, Text: row.Text},
		})
	}
	return verses, nil
}

// ReadVerse returns one verse. An absent verse yields the empty-text sentinel
// rather than an error.
func (r *Repository) ReadVerse(translation string, verseIndex entities.VerseIndex) (entities.Verse, error) {
	empty := entities.Verse{Index: verseIndex, Text: entities.VerseText{Translation: translation}}

	table, err := quoteIdent(translation)
	if err != nil {
		return empty, err
	}
	if !r.HasTable(translation) {
		return empty, nil
	}

	var rows []verseRow
	query := fmt.Sprintf(`SELECT book_index, chapter_index, verse_index, text FROM %s
		WHERE book_index = ? AND chapter_index = ? AND verse_index = ?`, table)
	err = r.db.Raw(query, verseIndex.BookIndex, verseIndex.ChapterIndex, verseIndex.VerseIndex).Scan(&rows).Error
	if err != nil {
		return empty, fmt.Errorf("failed to read verse for %s: %w", translation, err)
	}
	if len(rows) == 0 {
		return empty, nil
	}
	empty.Text.Text = rows[0].Text
	return empty, nil
}

// ReadAcrossTranslations returns the texts of one chapter for several
// translations, keyed by translation and indexed by verse. Used to build
// parallel-translation views; the caller treats the first translation in the
// list as primary. Unknown translations contribute an empty slice.
func (r *Repository) ReadAcrossTranslations(translations []string, bookIndex, chapterIndex int) (map[string][]string, error) {
	result := make(map[string][]string, len(translations))
	for _, translation := range translations {
		verses, err := r.Read(translation, bookIndex, chapterIndex)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(verses))
		for _, v := range verses {
			texts = append(texts, v.Text.Text)
		}
		result[translation] = texts
	}
	return result, nil
}

// escapeLike escapes LIKE metacharacters so tokens match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Search returns the verses whose text contains every keyword token as a
// case-insensitive substring. Tokens are obtained by collapsing whitespace
// runs; they match independently, not as a phrase. Results are ordered by
// (book, chapter, verse) ascending. An empty query or unknown translation
// yields an empty slice.
func (r *Repository) Search(translation, keywords string) ([]entities.Verse, error) {
	table, err := quoteIdent(translation)
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(keywords)
	if len(tokens) == 0 || !r.HasTable(translation) {
		return nil, nil
	}

	predicates := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		predicates = append(predicates, `LOWER(text) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(token))+"%")
	}

	var rows []verseRow
	query := fmt.Sprintf(`SELECT book_index, chapter_index, verse_index, text FROM %s
		WHERE %s ORDER BY book_index ASC, chapter_index ASC, verse_index ASC`,
		table, strings.Join(predicates, " AND "))
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", translation, err)
	}

	verses := make([]entities.Verse, 0, len(rows))
	for _, row := range rows {
		verses = append(verses, entities.Verse{
			Index: entities.VerseIndex{BookIndex: row.BookIndex, ChapterIndex: row.ChapterIndex, VerseIndex: row.VerseIndex},
			Text:  entities.VerseText{Translation: translation, Text: row.Text},
		})
	}
	return verses, nil
}

// SortVerseIndexes orders verse indexes by the fixed
// book*100000 + chapter*1000 + verse total order, independent of how the
// database returned them.
func SortVerseIndexes(indexes []entities.VerseIndex) {
	sort.Slice(indexes, func(i, j int) bool {
		return verseOrdinal(indexes[i]) < verseOrdinal(indexes[j])
	})
}

func verseOrdinal(v entities.VerseIndex) int {
	return v.BookIndex*100000 + v.ChapterIndex*1000 + v.VerseIndex
}
