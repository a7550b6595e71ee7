// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go        # Connection setup, fixed-table migrations
//	├── verses/            # Per-translation verse tables, chapter reads, search
//	├── booknames/         # Per-translation ordered book-name lists
//	├── metadata/          # Generic key/value scalars with caller defaults
//	├── annotations/       # Bookmarks, highlights, and notes
//	├── readingprogress/   # Chapter read counters and the streak algorithm
//	├── strongnumber/      # Strong's forward/reverse index and word dictionary
//	└── translations/      # Persisted translation list
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./scriptura.db")
//
//	// Create domain-specific repositories
//	versesRepo := verses.NewRepository(db.DB)
//	metaRepo := metadata.NewRepository(db.DB)
//
//	// Use repositories
//	found, err := versesRepo.Search("KJV", "god created")
//	current, err := metaRepo.Read(metadata.KeyCurrentTranslation, "")
//
// # Transactions
//
// Multi-table operations (translation install/remove, reading-progress
// tracking, the Strong's triple replace) run inside a single gorm transaction.
// Repositories are cheap to construct, so transactional callers build fresh
// repositories over the *gorm.DB handle of the transaction:
//
//	db.Transaction(func(tx *gorm.DB) error {
//		if err := booknames.NewRepository(tx).Save(...); err != nil {
//			return err
//		}
//		return verses.NewRepository(tx).Save(...)
//	})
//
// # Dynamic verse tables
//
// Unlike the fixed tables above, verse text lives in one table per installed
// translation, named after the translation's short name. The verses package
// owns the identifier sanitizer that keeps this safe.
package database
