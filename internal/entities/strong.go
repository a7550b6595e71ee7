package entities

import "regexp"

// strongNumberPattern matches valid Strong's codes: H1-H8674 for Hebrew,
// G1-G5624 for Greek.
var strongNumberPattern = regexp.MustCompile(`^[HG][1-9][0-9]{0,3}$`)

// StrongNumber pairs a Strong's code with its dictionary gloss.
type StrongNumber struct {
	Code  string `json:"code"`
	Gloss string `json:"gloss"`
}

// Valid reports whether the code has the H\d+/G\d+ shape.
func (s StrongNumber) Valid() bool {
	return strongNumberPattern.MatchString(s.Code)
}

// StrongNumberIndex maps one verse to its space-joined Strong's codes.
type StrongNumberIndex struct {
	BookIndex    int    `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex int    `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex   int    `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
	Codes        string `gorm:"type:text" json:"codes"`
}

func (StrongNumberIndex) TableName() string {
	return "strong_number_index"
}

// StrongNumberReverseIndex maps one Strong's code to the comma-joined verse
// triples containing it. Kept consistent with StrongNumberIndex by replacing
// both inside one transaction.
type StrongNumberReverseIndex struct {
	Code         string `gorm:"primaryKey;size:16" json:"code"`
	VerseIndexes string `gorm:"type:text" json:"verse_indexes"`
}

func (StrongNumberReverseIndex) TableName() string {
	return "strong_number_reverse_index"
}

// StrongNumberWord maps one Strong's code to its dictionary gloss.
type StrongNumberWord struct {
	Code  string `gorm:"primaryKey;size:16" json:"code"`
	Gloss string `gorm:"type:text" json:"gloss"`
}

func (StrongNumberWord) TableName() string {
	return "strong_number_words"
}
