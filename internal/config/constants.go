package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the single database file.
	DefaultDatabasePath = "./scriptura.db"

	// DefaultDownloadCacheDir holds translation payloads between fetch and
	// install commit.
	DefaultDownloadCacheDir = "./cache"
)
