package document

import (
	"fmt"

	"github.com/lexandro/guidelines-mcp/phase"
)

// Record is one retrieved document. Built fresh on every retrieval.
type Record struct {
	FileName  string // Bare file name (e.g. "rulus.md")
	FilePath  string // Absolute file path
	Content   string // Full file content, decoded as UTF-8
	Directory string // Logical directory name from the phase descriptor
}

// FailureKind classifies a recovered file system irregularity.
type FailureKind int

const (
	DirectoryUnavailable FailureKind = iota
	FileReadFailure
)

func (k FailureKind) String() string {
	switch k {
	case DirectoryUnavailable:
		return "directory_unavailable"
	case FileReadFailure:
		return "file_read_failure"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure records a directory or file that was skipped during retrieval.
type Failure struct {
	Kind      FailureKind
	Directory string // Logical directory name
	Path      string // Absolute path of the directory or file
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Path, f.Err)
}

// Result is the outcome of retrieving one phase's documents.
// Documents keep descriptor order, then directory listing order.
type Result struct {
	Phase     phase.Phase
	Documents []Record
	Failures  []Failure
}

// TotalCount returns the number of retrieved documents.
func (r *Result) TotalCount() int {
	return len(r.Documents)
}

// Find returns the first document named fileName. When directory is not
// empty, the document's logical directory must match as well.
func (r *Result) Find(fileName string, directory string) (Record, bool) {
	for _, doc := range r.Documents {
		if doc.FileName != fileName {
			continue
		}
		if directory != "" && doc.Directory != directory {
			continue
		}
		return doc, true
	}
	return Record{}, false
}
