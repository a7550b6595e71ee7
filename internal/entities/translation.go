package entities

// TranslationInfo describes one translation known to the engine, either
// offered by the remote catalog or installed locally. ShortName is the unique
// key and doubles as the name of the dynamically created verse table.
type TranslationInfo struct {
	ShortName  string `gorm:"primaryKey;size:64" json:"short_name"`
	Name       string `gorm:"size:256" json:"name"`
	Language   string `gorm:"size:32" json:"language"`
	Size       int64  `json:"size"`
	Downloaded bool   `json:"downloaded"`
}

func (TranslationInfo) TableName() string {
	return "translation_info"
}

// BookName is one entry of a translation's ordered book-name list.
type BookName struct {
	Translation string `gorm:"primaryKey;size:64" json:"translation"`
	BookIndex   int    `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	Name        string `gorm:"size:128" json:"name"`
	ShortName   string `gorm:"size:64" json:"short_name"`
}

func (BookName) TableName() string {
	return "book_names"
}

// Metadata is a generic string-encoded scalar, read with an explicit default
// supplied by the caller.
type Metadata struct {
	Key   string `gorm:"primaryKey;size:128" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (Metadata) TableName() string {
	return "metadata"
}
