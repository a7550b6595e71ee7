package entities

// SortOrder selects how annotation lists are ordered.
type SortOrder int

const (
	SortByDate SortOrder = 0
	SortByBook SortOrder = 1
)

// Highlight colors, matching the reader's palette.
const (
	HighlightColorNone   = 0
	HighlightColorYellow = 0xFFFFFF00
	HighlightColorPink   = 0xFFFFC0CB
	HighlightColorOrange = 0xFFFFA500
	HighlightColorPurple = 0xFFFF00FF
	HighlightColorRed    = 0xFFFF0000
	HighlightColorGreen  = 0xFF00FF00
	HighlightColorBlue   = 0xFF0000FF
)

// Bookmark marks one verse. At most one bookmark exists per verse; saving
// again overwrites the timestamp.
type Bookmark struct {
	BookIndex    int   `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex int   `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex   int   `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
	Timestamp    int64 `json:"timestamp"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// Verse returns the verse the bookmark is attached to.
func (b Bookmark) Verse() VerseIndex {
	return VerseIndex{BookIndex: b.BookIndex, ChapterIndex: b.ChapterIndex, VerseIndex: b.VerseIndex}
}

// Highlight colors one verse. One highlight per verse, saving overwrites.
type Highlight struct {
	BookIndex    int   `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex int   `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex   int   `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
	Color        int64 `json:"color"`
	Timestamp    int64 `json:"timestamp"`
}

func (Highlight) TableName() string {
	return "highlights"
}

func (h Highlight) Verse() VerseIndex {
	return VerseIndex{BookIndex: h.BookIndex, ChapterIndex: h.ChapterIndex, VerseIndex: h.VerseIndex}
}

// Note attaches free text to one verse. One note per verse, saving overwrites.
type Note struct {
	BookIndex    int    `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex int    `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex   int    `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
	Text         string `gorm:"type:text" json:"text"`
	Timestamp    int64  `json:"timestamp"`
}

func (Note) TableName() string {
	return "notes"
}

func (n Note) Verse() VerseIndex {
	return VerseIndex{BookIndex: n.BookIndex, ChapterIndex: n.ChapterIndex, VerseIndex: n.VerseIndex}
}
