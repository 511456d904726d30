package ignore

// IgnoreFileName is the gitignore-style file read from the guidelines root.
const IgnoreFileName = ".guidelinesignore"

// DefaultIgnorePatterns are always excluded from retrieval. Matched
// case-insensitively against the file's base name.
var DefaultIgnorePatterns = []string{
	// Emacs lock and autosave files
	".#*",
	"#*#",

	// Office / LibreOffice lock files
	"~$*",
	".~lock.*",

	// Editor backups
	"*~",
	"*.swp",
	"*.swo",
}
