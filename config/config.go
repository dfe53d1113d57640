// Package config holds the CLI configuration: compiled-in defaults,
// overridden by environment variables, with an optional .env file for
// local runs.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the places-export configuration.
type Config struct {
	Store  StoreConfig
	Export ExportConfig
	Log    LogConfig
}

// StoreConfig locates the collector's SQLite store.
type StoreConfig struct {
	Path string
}

// ExportConfig holds export output settings.
type ExportConfig struct {
	OutputDir     string
	DefaultFormat string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Defaults returns a Config with sensible defaults. The store path matches
// the filename the collection scripts write.
func Defaults() Config {
	return Config{
		Store: StoreConfig{
			Path: "data/restaurants_google_places.sqlite",
		},
		Export: ExportConfig{
			OutputDir:     ".",
			DefaultFormat: "csv",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overridden by environment variables. A .env
// file in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.Store.Path = getEnv("PLACES_DB", cfg.Store.Path)
	cfg.Export.OutputDir = getEnv("PLACES_OUTPUT_DIR", cfg.Export.OutputDir)
	cfg.Export.DefaultFormat = getEnv("PLACES_FORMAT", cfg.Export.DefaultFormat)
	cfg.Log.Level = getEnv("PLACES_LOG_LEVEL", cfg.Log.Level)
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
