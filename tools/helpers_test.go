package tools

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexandro/guidelines-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRetriever builds a guidelines root with rulus.md at the top and a
// sample document in every phase directory.
func newTestRetriever(t *testing.T) *document.Retriever {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"rulus.md":                               "# general rules for development\n",
		"design-rules/architecture.md":           "# Architecture\n",
		"design-rules/sample.md":                 "# design sample\n",
		"development-rules/sample.md":            "# development sample\n",
		"development-rules/coding-standards.txt": "use gofmt\n",
		"test-rules/test-rules-sample.md":        "# test sample\n",
		"test-rules/image.png":                   "\x89PNG\x00",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
	return document.NewRetriever(document.Options{BasePath: root, Logger: discardLogger()})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}
