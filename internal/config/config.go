package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Content
		CatalogRefresh
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Content struct {
		BaseURL          string // static host serving list.json, <translation>.json, strongs/*
		DownloadCacheDir string
	}
	CatalogRefresh struct {
		Enabled  bool
		Schedule string        // Cron format: "0 4 * * *" = daily at 04:00
		Interval time.Duration // Staleness window for the cached catalog
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("content_base_url", "https://content.scriptura.app")
	v.SetDefault("download_cache_dir", DefaultDownloadCacheDir)
	v.SetDefault("catalog_refresh_enabled", true)
	v.SetDefault("catalog_refresh_schedule", "0 4 * * *") // Daily at 04:00
	v.SetDefault("translation_list_refresh_interval", "168h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Content: Content{
			BaseURL:          v.GetString("CONTENT_BASE_URL"),
			DownloadCacheDir: v.GetString("DOWNLOAD_CACHE_DIR"),
		},
		CatalogRefresh: CatalogRefresh{
			Enabled:  v.GetBool("CATALOG_REFRESH_ENABLED"),
			Schedule: v.GetString("CATALOG_REFRESH_SCHEDULE"),
			Interval: v.GetDuration("TRANSLATION_LIST_REFRESH_INTERVAL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
