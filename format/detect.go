package format

import (
	"path/filepath"
	"strings"
)

// ExtensionToFormat maps document file extensions (without dot) to format names.
// Only files with one of these extensions are treated as documents.
var ExtensionToFormat = map[string]string{
	"md":   "Markdown",
	"txt":  "Plain text",
	"rst":  "reStructuredText",
	"adoc": "AsciiDoc",
	"tex":  "LaTeX",
}

// Detect returns the document format for a file name based on its extension.
// Returns "" if the file is not a recognized document.
func Detect(fileName string) string {
	// A leading dot marks a hidden file, not an extension (".md" has none).
	base := strings.TrimLeft(filepath.Base(fileName), ".")
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "" {
		return ""
	}
	return ExtensionToFormat[ext]
}

// IsDocument reports whether fileName has a document extension. Case-insensitive.
func IsDocument(fileName string) bool {
	return Detect(fileName) != ""
}
