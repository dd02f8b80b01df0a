package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is an optional JSON override layer on top of the environment
// configuration. Fields omitted from the JSON keep their environment or
// default values, so partial configs are safe.
type File struct {
	Addr      *string `json:"addr,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`
	Ephemeris *string `json:"ephemeris,omitempty"`
	Verbose   *bool   `json:"verbose,omitempty"`
}

// LoadFile reads and validates a JSON config file.
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Cap file size for safety (max 1MB).
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, nil
}

// Validate checks the override values that are present.
func (f *File) Validate() error {
	if f.Addr != nil && !strings.Contains(*f.Addr, ":") {
		return fmt.Errorf("addr must be a host:port listen address, got %q", *f.Addr)
	}
	if f.Ephemeris != nil && *f.Ephemeris != "meeus" {
		return fmt.Errorf("unknown ephemeris source %q (built-in sources: meeus)", *f.Ephemeris)
	}
	if f.DBPath != nil && *f.DBPath == "" {
		return fmt.Errorf("db_path must not be empty when set")
	}
	return nil
}

// Apply overlays the file's non-nil fields onto cfg and returns the
// result.
func (f *File) Apply(cfg Config) Config {
	if f == nil {
		return cfg
	}
	if f.Addr != nil {
		cfg.Addr = *f.Addr
	}
	if f.DBPath != nil {
		cfg.DBPath = *f.DBPath
	}
	if f.Ephemeris != nil {
		cfg.Ephemeris = *f.Ephemeris
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}
	return cfg
}

// GetAddr returns the override address or the fallback.
func (f *File) GetAddr(fallback string) string {
	if f == nil || f.Addr == nil {
		return fallback
	}
	return *f.Addr
}

// GetDBPath returns the override database path or the fallback.
func (f *File) GetDBPath(fallback string) string {
	if f == nil || f.DBPath == nil {
		return fallback
	}
	return *f.DBPath
}
