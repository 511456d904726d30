// Package config loads the server configuration: where the guideline
// documents live and how they are filtered.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultConfigPath is read when no -config flag is given.
	DefaultConfigPath = "./config.json"

	// DefaultDocumentBasePath is used when the config does not set documentBasePath.
	DefaultDocumentBasePath = "."

	// GuidelinesDirName is the top-level directory under the base path that holds all phase documents.
	GuidelinesDirName = "development-guidelines"

	DefaultMaxFileSizeBytes = 8 * 1024 * 1024
	DefaultWorkers          = 4

	// EnvPrefix marks environment variables that override file values.
	EnvPrefix = "GUIDELINES_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Config holds the document retrieval settings.
type Config struct {
	DocumentBasePath string   `koanf:"documentBasePath"`
	Exclude          []string `koanf:"exclude"`
	MaxFileSizeBytes int64    `koanf:"maxFileSize"`
	Workers          int      `koanf:"workers"`
}

// envKeys maps environment variable names (without EnvPrefix) to config keys.
var envKeys = map[string]string{
	"DOCUMENT_BASE_PATH": "documentBasePath",
	"MAX_FILE_SIZE":      "maxFileSize",
	"WORKERS":            "workers",
}

// Default returns the configuration used when no file can be loaded.
func Default() *Config {
	return &Config{
		DocumentBasePath: DefaultDocumentBasePath,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
		Workers:          DefaultWorkers,
	}
}

// FullDocumentPath returns the guidelines root: the base path joined with GuidelinesDirName.
func (c *Config) FullDocumentPath() string {
	return filepath.Join(c.DocumentBasePath, GuidelinesDirName)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxFileSizeBytes < 0 {
		return fmt.Errorf("maxFileSize must not be negative, got %d", c.MaxFileSizeBytes)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Load reads a JSON or YAML config file, then applies GUIDELINES_* environment
// overrides. Keys missing from both keep their Default() values.
//
// Precedence (highest to lowest):
//  1. Environment variables (GUIDELINES_DOCUMENT_BASE_PATH, GUIDELINES_MAX_FILE_SIZE, GUIDELINES_WORKERS)
//  2. Config file
//  3. Defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s too large: %d bytes (max %d)", path, info.Size(), maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv returns Default() with environment overrides applied.
func FromEnv() (*Config, error) {
	return parse(nil)
}

// parse layers content (if any) and the environment over the defaults.
// JSON is valid YAML, so one parser serves both file formats.
func parse(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if strings.TrimSpace(cfg.DocumentBasePath) == "" {
		cfg.DocumentBasePath = DefaultDocumentBasePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps GUIDELINES_DOCUMENT_BASE_PATH -> documentBasePath.
// Unknown variables map to "" and are skipped by the provider.
func envKey(name string) string {
	return envKeys[strings.TrimPrefix(name, EnvPrefix)]
}
