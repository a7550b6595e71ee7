package entities

// ChapterReadingStatus tracks reading activity for one chapter. An absent row
// is equivalent to the zero value for that chapter.
type ChapterReadingStatus struct {
	BookIndex            int   `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex         int   `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	ReadCount            int   `json:"read_count"`
	TimeSpentMillis      int64 `json:"time_spent_millis"`
	LastReadingTimestamp int64 `json:"last_reading_timestamp"`
}

func (ChapterReadingStatus) TableName() string {
	return "reading_progress"
}

// ReadingProgress is the assembled view of all reading activity: the global
// streak scalars plus every chapter row. It is never stored as a single row.
type ReadingProgress struct {
	ContinuousReadingDays  int                    `json:"continuous_reading_days"`
	LastReadingTimestamp   int64                  `json:"last_reading_timestamp"`
	ChapterReadingStatuses []ChapterReadingStatus `json:"chapter_reading_statuses"`
}
