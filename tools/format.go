package tools

import (
	"encoding/json"
	"fmt"

	"github.com/lexandro/guidelines-mcp/document"
	"github.com/lexandro/guidelines-mcp/phase"
)

type documentJSON struct {
	FileName  string `json:"fileName"`
	Directory string `json:"directory"`
	FilePath  string `json:"filePath"`
	Content   string `json:"content"`
}

type warningJSON struct {
	Kind      string `json:"kind"`
	Directory string `json:"directory"`
	Path      string `json:"path"`
	Error     string `json:"error"`
}

type phaseDocumentsJSON struct {
	Phase          string         `json:"phase"`
	TotalDocuments int            `json:"totalDocuments"`
	Documents      []documentJSON `json:"documents"`
	Warnings       []warningJSON  `json:"warnings,omitempty"`
}

type phaseListJSON struct {
	AvailablePhases []string          `json:"availablePhases"`
	Description     map[string]string `json:"description"`
}

func toDocumentJSON(doc document.Record) documentJSON {
	return documentJSON{
		FileName:  doc.FileName,
		Directory: doc.Directory,
		FilePath:  doc.FilePath,
		Content:   doc.Content,
	}
}

// FormatPhaseDocuments renders a retrieval result as indented JSON.
// Skipped directories and files are listed under "warnings".
func FormatPhaseDocuments(result *document.Result) (string, error) {
	out := phaseDocumentsJSON{
		Phase:          string(result.Phase),
		TotalDocuments: result.TotalCount(),
		Documents:      make([]documentJSON, 0, len(result.Documents)),
	}
	for _, doc := range result.Documents {
		out.Documents = append(out.Documents, toDocumentJSON(doc))
	}
	for _, failure := range result.Failures {
		out.Warnings = append(out.Warnings, warningJSON{
			Kind:      failure.Kind.String(),
			Directory: failure.Directory,
			Path:      failure.Path,
			Error:     failure.Err.Error(),
		})
	}
	return marshalIndent(out)
}

// FormatDocument renders a single document as indented JSON.
func FormatDocument(doc document.Record) (string, error) {
	return marshalIndent(toDocumentJSON(doc))
}

// FormatPhaseList renders the phase identifiers and their descriptions as indented JSON.
func FormatPhaseList(phases []phase.Phase) (string, error) {
	out := phaseListJSON{
		AvailablePhases: make([]string, 0, len(phases)),
		Description:     make(map[string]string, len(phases)),
	}
	for _, p := range phases {
		out.AvailablePhases = append(out.AvailablePhases, string(p))
		out.Description[string(p)] = phase.Describe(p)
	}
	return marshalIndent(out)
}

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data), nil
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
