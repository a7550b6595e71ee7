package entities

// BookCount is the number of books in the protestant canon.
const BookCount = 66

// ChapterCounts holds the number of chapters per book, in canonical order.
var ChapterCounts = [BookCount]int{
	50, 40, 27, 36, 34, 24, 21, 4, 31, 24, 22, 25, 29, 36, 10, 13, 10, 42,
	150, 31, 12, 8, 66, 52, 5, 48, 12, 14, 3, 9, 1, 4, 7, 3, 3, 3, 2, 14, 4,
	28, 16, 24, 21, 28, 16, 16, 13, 6, 6, 4, 4, 5, 3, 6, 4, 3, 1, 13, 5, 5,
	3, 5, 1, 1, 1, 22,
}

// VerseIndex identifies one verse by book, chapter, and verse position.
// All three components are zero-based.
type VerseIndex struct {
	BookIndex    int `json:"book_index"`
	ChapterIndex int `json:"chapter_index"`
	VerseIndex   int `json:"verse_index"`
}

// InvalidVerseIndex is the sentinel value meaning "no verse".
var InvalidVerseIndex = VerseIndex{BookIndex: -1, ChapterIndex: -1, VerseIndex: -1}

// Valid reports whether the index points inside the canon.
func (v VerseIndex) Valid() bool {
	return v.BookIndex >= 0 && v.BookIndex < BookCount &&
		v.ChapterIndex >= 0 && v.ChapterIndex < ChapterCounts[v.BookIndex] &&
		v.VerseIndex >= 0
}

// VerseText is the text of one verse in one translation.
type VerseText struct {
	Translation string `json:"translation"`
	Text        string `json:"text"`
	BookName    string `json:"book_name,omitempty"`
}

// Verse is one verse with its primary text and any parallel translations.
// Parallel always has the same length as the requested parallel-translation
// list; a translation with no text for the verse contributes an empty string.
type Verse struct {
	Index    VerseIndex  `json:"index"`
	Text     VerseText   `json:"text"`
	Parallel []VerseText `json:"parallel,omitempty"`
}
