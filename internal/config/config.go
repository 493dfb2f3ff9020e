// Package config loads the CLI configuration from a TOML file with
// defaults, environment variable overrides, and strict unknown-key
// rejection.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Page size bounds enforced by the APIs.
const (
	maxDrivePageSize  = 1000
	maxPhotosPageSize = 100
)

// Token file names, one per service. Renaming these invalidates saved
// logins, so treat them as part of the on-disk contract.
const (
	driveTokenFileName  = "token-drive.json"
	photosTokenFileName = "token-photos.json"
)

// Config is the full application configuration.
type Config struct {
	// ClientSecretFile is the path to the Google client_secret.json.
	ClientSecretFile string `toml:"client_secret_file"`

	// TokenDir is the directory holding cached OAuth token files.
	TokenDir string `toml:"token_dir"`

	// DrivePageSize is the files.list page size (1..1000).
	DrivePageSize int `toml:"drive_page_size"`

	// PhotosPageSize is the mediaItems:search page size (1..100).
	PhotosPageSize int `toml:"photos_page_size"`

	// RequestsPerSecond caps outgoing API calls. Zero means unlimited.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		ClientSecretFile:  filepath.Join(DefaultConfigDir(), "client_secret.json"),
		TokenDir:          DefaultDataDir(),
		DrivePageSize:     maxDrivePageSize,
		PhotosPageSize:    maxPhotosPageSize,
		RequestsPerSecond: 0,
		LogLevel:          "info",
	}
}

// DriveTokenPath returns the path of the cached Drive token file.
func (c *Config) DriveTokenPath() string {
	return filepath.Join(c.TokenDir, driveTokenFileName)
}

// PhotosTokenPath returns the path of the cached Photos token file.
func (c *Config) PhotosTokenPath() string {
	return filepath.Join(c.TokenDir, photosTokenFileName)
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for out-of-range values.
func Validate(cfg *Config) error {
	if cfg.DrivePageSize < 1 || cfg.DrivePageSize > maxDrivePageSize {
		return fmt.Errorf("drive_page_size %d out of range 1..%d", cfg.DrivePageSize, maxDrivePageSize)
	}

	if cfg.PhotosPageSize < 1 || cfg.PhotosPageSize > maxPhotosPageSize {
		return fmt.Errorf("photos_page_size %d out of range 1..%d", cfg.PhotosPageSize, maxPhotosPageSize)
	}

	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %g", cfg.RequestsPerSecond)
	}

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return fmt.Errorf("log_level %q must be one of %v", cfg.LogLevel, validLogLevels)
	}

	return nil
}
