package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lexandro/guidelines-mcp/config"
	"github.com/lexandro/guidelines-mcp/format"
	"github.com/lexandro/guidelines-mcp/phase"
)

// BasePathSource supplies the guidelines root when no explicit base path is given.
// Satisfied by *config.Config and *config.Store.
type BasePathSource interface {
	FullDocumentPath() string
}

// IgnoreChecker is used by the retriever to exclude matching document paths.
type IgnoreChecker interface {
	ShouldIgnore(absolutePath string) bool
}

// Reloader is implemented by checkers whose rules live on disk.
// The retriever reloads them before every retrieval.
type Reloader interface {
	Reload()
}

// Options configures a Retriever.
type Options struct {
	BasePath         string         // Guidelines root; takes precedence over Config
	Config           BasePathSource // Consulted once, at construction, when BasePath is empty
	Matcher          IgnoreChecker  // Optional exclusion rules
	MaxFileSizeBytes int64          // 0 means unlimited
	Workers          int            // Directories read in parallel; <= 0 means config.DefaultWorkers
	Logger           *slog.Logger
}

// Retriever reads the documents of a phase from the file system.
// It holds no state besides its options; every call re-reads the disk.
type Retriever struct {
	basePath         string
	matcher          IgnoreChecker
	maxFileSizeBytes int64
	workers          int
	logger           *slog.Logger
}

// NewRetriever creates a retriever. The base path is not validated; a bad
// path shows up as DirectoryUnavailable failures on retrieval.
func NewRetriever(options Options) *Retriever {
	basePath := options.BasePath
	if basePath == "" {
		if options.Config != nil {
			basePath = options.Config.FullDocumentPath()
		} else {
			basePath = config.Default().FullDocumentPath()
		}
	}

	workers := options.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Retriever{
		basePath:         basePath,
		matcher:          options.Matcher,
		maxFileSizeBytes: options.MaxFileSizeBytes,
		workers:          workers,
		logger:           logger,
	}
}

// BasePath returns the guidelines root the retriever resolves directories against.
func (r *Retriever) BasePath() string {
	return r.basePath
}

// AllPhases returns every known phase in workflow order.
func (r *Retriever) AllPhases() []phase.Phase {
	return phase.Known()
}

// ValidatePhase reports whether candidate is a known phase. Case-sensitive.
func (r *Retriever) ValidatePhase(candidate string) bool {
	return phase.IsValid(candidate)
}

// directoryResult is the output of reading one phase directory.
type directoryResult struct {
	documents []Record
	failures  []Failure
}

// DocumentsByPhase reads every directory of the phase and returns the documents
// found. The only error is *phase.InvalidPhaseError; unreadable directories and
// files are logged and listed in Result.Failures instead.
func (r *Retriever) DocumentsByPhase(p phase.Phase) (*Result, error) {
	directories, err := phase.DirectoriesFor(p)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	if reloader, ok := r.matcher.(Reloader); ok {
		reloader.Reload()
	}

	// Each directory writes into its own slot so concatenation keeps descriptor order.
	results := make([]directoryResult, len(directories))

	workerCount := r.workers
	if workerCount > len(directories) {
		workerCount = len(directories)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.readDirectory(directories[idx])
			}
		}()
	}
	for idx := range directories {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	result := &Result{Phase: p, Documents: make([]Record, 0)}
	for _, dirResult := range results {
		result.Documents = append(result.Documents, dirResult.documents...)
		result.Failures = append(result.Failures, dirResult.failures...)
	}

	r.logger.Debug("retrieved phase documents",
		"phase", p,
		"documents", result.TotalCount(),
		"failures", len(result.Failures),
		"elapsed", time.Since(start),
	)
	return result, nil
}

// resolveDirectory joins the base path with a descriptor path. An empty
// descriptor path means the base path itself.
func (r *Retriever) resolveDirectory(dir phase.Directory) string {
	dirPath := r.basePath
	if dir.Path != "" {
		dirPath = filepath.Join(r.basePath, dir.Path)
	}
	if absPath, err := filepath.Abs(dirPath); err == nil {
		dirPath = absPath
	}
	return dirPath
}

// readDirectory lists one directory and reads its documents in listing order.
// Sub-directories are not descended into.
func (r *Retriever) readDirectory(dir phase.Directory) directoryResult {
	var out directoryResult
	dirPath := r.resolveDirectory(dir)

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		r.logger.Warn("failed to read directory", "directory", dir.Name, "path", dirPath, "error", err)
		out.failures = append(out.failures, Failure{
			Kind:      DirectoryUnavailable,
			Directory: dir.Name,
			Path:      dirPath,
			Err:       fmt.Errorf("directory not found or not accessible: %w", err),
		})
		return out
	}

	for _, entry := range entries {
		if !format.IsDocument(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dirPath, entry.Name())
		if r.matcher != nil && r.matcher.ShouldIgnore(filePath) {
			continue
		}

		record, ok, err := r.readDocument(filePath, entry.Name(), dir.Name)
		if err != nil {
			r.logger.Warn("failed to read file", "directory", dir.Name, "path", filePath, "error", err)
			out.failures = append(out.failures, Failure{
				Kind:      FileReadFailure,
				Directory: dir.Name,
				Path:      filePath,
				Err:       err,
			})
			continue
		}
		if ok {
			out.documents = append(out.documents, record)
		}
	}
	return out
}

// readDocument reads one directory entry. It returns ok=false without an error
// for entries that are not regular files (symlinks are followed).
func (r *Retriever) readDocument(filePath string, fileName string, directoryName string) (Record, bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return Record{}, false, fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return Record{}, false, nil
	}
	if r.maxFileSizeBytes > 0 && info.Size() > r.maxFileSizeBytes {
		return Record{}, false, fmt.Errorf("file size %d exceeds limit of %d bytes", info.Size(), r.maxFileSizeBytes)
	}

	data, err := readFileWithRetry(filePath)
	if err != nil {
		return Record{}, false, fmt.Errorf("reading file: %w", err)
	}
	content, err := format.DecodeText(data)
	if err != nil {
		return Record{}, false, fmt.Errorf("decoding file: %w", err)
	}

	return Record{
		FileName:  fileName,
		FilePath:  filePath,
		Content:   content,
		Directory: directoryName,
	}, true, nil
}

// readFileWithRetry attempts to read a file, retrying once after a short delay
// if the file is locked (common on Windows when editors are saving).
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
