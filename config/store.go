package config

import (
	"io"
	"log/slog"
	"sync"
)

// Store loads the configuration once and hands out the cached value.
// It is owned by the caller (main) and passed where needed.
type Store struct {
	mu     sync.Mutex
	config *Config
	source string
	logger *slog.Logger
}

// NewStore creates an empty store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{logger: logger}
}

// Load reads the config at path on the first call and caches it. Any failure
// falls back to defaults (with environment overrides when those parse).
// Later calls return the cached value and ignore path.
func (s *Store) Load(path string) *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config != nil {
		return s.config
	}
	if path == "" {
		path = DefaultConfigPath
	}

	cfg, err := Load(path)
	if err == nil {
		s.logger.Info("configuration loaded", "path", path, "documentBasePath", cfg.DocumentBasePath)
		s.config = cfg
		s.source = path
		return s.config
	}

	s.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
	cfg, envErr := FromEnv()
	if envErr != nil {
		s.logger.Warn("ignoring invalid environment overrides", "error", envErr)
		cfg = Default()
	}
	s.config = cfg
	s.source = "defaults"
	return s.config
}

// Get returns the loaded configuration. Calling Get before Load is a
// programming error and panics.
func (s *Store) Get() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		panic("config: configuration not loaded, call Load first")
	}
	return s.config
}

// Source returns the file the configuration came from, or "defaults".
func (s *Store) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Store) DocumentBasePath() string {
	return s.Get().DocumentBasePath
}

func (s *Store) FullDocumentPath() string {
	return s.Get().FullDocumentPath()
}
