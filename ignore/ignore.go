package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher determines whether a document path should be excluded from retrieval.
// It combines default patterns, the .guidelinesignore file in the root
// directory, and custom exclude patterns.
// Thread-safe: Reload() acquires a write lock, ShouldIgnore() acquires a read lock.
type Matcher struct {
	mu             sync.RWMutex
	rootDir        string
	ignoreFile     gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	CustomPatterns []string // doublestar patterns, matched against root-relative paths and base names
}

// NewMatcher creates an ignore matcher. It fails if a custom pattern is not a
// valid doublestar pattern. A missing ignore file is not an error.
func NewMatcher(options MatcherOptions) (*Matcher, error) {
	patterns := make([]string, 0, len(options.CustomPatterns))
	for _, pattern := range options.CustomPatterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
		patterns = append(patterns, pattern)
	}

	return &Matcher{
		rootDir:        options.RootDir,
		ignoreFile:     loadIgnoreFile(filepath.Join(options.RootDir, IgnoreFileName), options.RootDir),
		customPatterns: patterns,
	}, nil
}

// ShouldIgnore returns true if the given file should be excluded.
// The path should be absolute or relative to the working directory.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	if matchesDefaultPatterns(filepath.Base(absolutePath)) {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, ok := m.relativeToRoot(absolutePath)
	if !ok {
		// Outside the root: only base-name patterns can apply
		relativePath = filepath.Base(absolutePath)
	}

	// Relative() doesn't require the file to exist on disk
	if m.ignoreFile != nil {
		match := m.ignoreFile.Relative(relativePath, false)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

// Reload re-reads the ignore file from disk.
func (m *Matcher) Reload() {
	m.mu.RLock()
	rootDir := m.rootDir
	m.mu.RUnlock()

	newIgnoreFile := loadIgnoreFile(filepath.Join(rootDir, IgnoreFileName), rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignoreFile = newIgnoreFile
}

// relativeToRoot returns the forward-slash path of absolutePath under the root.
func (m *Matcher) relativeToRoot(absolutePath string) (string, bool) {
	rootAbs, err := filepath.Abs(m.rootDir)
	if err != nil {
		return "", false
	}
	pathAbs, err := filepath.Abs(absolutePath)
	if err != nil {
		return "", false
	}
	relativePath, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(relativePath), true
}

// matchesDefaultPatterns checks the base name against DefaultIgnorePatterns.
func matchesDefaultPatterns(baseName string) bool {
	baseNameLower := strings.ToLower(baseName)
	for _, pattern := range DefaultIgnorePatterns {
		matched, err := filepath.Match(pattern, baseNameLower)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// matchesCustomPatterns checks if the path matches any custom exclude pattern.
func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, baseName); matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
