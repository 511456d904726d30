package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/guidelines-mcp/document"
	"github.com/lexandro/guidelines-mcp/phase"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DocumentContentArgs defines the input parameters for the get_document_content tool.
type DocumentContentArgs struct {
	Phase     string `json:"phase" jsonschema:"Process phase to search in (design, development, test)"`
	FileName  string `json:"fileName" jsonschema:"Name of the file to retrieve (e.g. rulus.md)"`
	Directory string `json:"directory,omitempty" jsonschema:"Logical directory name to search in (optional, e.g. design-rules)"`
}

// DocumentContentHandler holds the dependencies for the document content tool.
type DocumentContentHandler struct {
	Retriever *document.Retriever
	Logger    *slog.Logger
}

// Handle processes a get_document_content request.
func (h *DocumentContentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args DocumentContentArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FileName == "" {
		h.Logger.Warn("get_document_content called with empty fileName")
		return errorResult("Error: fileName parameter is required"), nil, nil
	}

	p, err := phase.Parse(args.Phase)
	if err != nil {
		h.Logger.Warn("get_document_content rejected phase", "phase", args.Phase)
		return errorResult(fmt.Sprintf("Error retrieving document: %v", err)), nil, nil
	}

	result, err := h.Retriever.DocumentsByPhase(p)
	if err != nil {
		h.Logger.Warn("get_document_content failed", "phase", args.Phase, "error", err)
		return errorResult(fmt.Sprintf("Error retrieving document: %v", err)), nil, nil
	}

	doc, ok := result.Find(args.FileName, args.Directory)
	if !ok {
		h.Logger.Info("get_document_content not found",
			"phase", args.Phase,
			"fileName", args.FileName,
			"directory", args.Directory,
		)
		message := fmt.Sprintf("Document not found: %s", args.FileName)
		if args.Directory != "" {
			message += fmt.Sprintf(" in %s", args.Directory)
		}
		return errorResult(message), nil, nil
	}

	output, err := FormatDocument(doc)
	if err != nil {
		h.Logger.Error("get_document_content encoding failed", "fileName", args.FileName, "error", err)
		return errorResult(fmt.Sprintf("Error retrieving document: %v", err)), nil, nil
	}

	h.Logger.Info("get_document_content",
		"phase", args.Phase,
		"fileName", doc.FileName,
		"directory", doc.Directory,
		"elapsed", time.Since(start),
	)

	return textResult(output), nil, nil
}
