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

// PhaseDocumentsArgs defines the input parameters for the get_phase_documents tool.
type PhaseDocumentsArgs struct {
	Phase string `json:"phase" jsonschema:"Process phase to get documents for (design, development, test)"`
}

// PhaseDocumentsHandler holds the dependencies for the phase documents tool.
type PhaseDocumentsHandler struct {
	Retriever *document.Retriever
	Logger    *slog.Logger
}

// Handle processes a get_phase_documents request.
func (h *PhaseDocumentsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args PhaseDocumentsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	p, err := phase.Parse(args.Phase)
	if err != nil {
		h.Logger.Warn("get_phase_documents rejected phase", "phase", args.Phase)
		return errorResult(fmt.Sprintf("Error retrieving documents: %v", err)), nil, nil
	}

	result, err := h.Retriever.DocumentsByPhase(p)
	if err != nil {
		h.Logger.Warn("get_phase_documents failed", "phase", args.Phase, "error", err)
		return errorResult(fmt.Sprintf("Error retrieving documents: %v", err)), nil, nil
	}

	output, err := FormatPhaseDocuments(result)
	if err != nil {
		h.Logger.Error("get_phase_documents encoding failed", "phase", args.Phase, "error", err)
		return errorResult(fmt.Sprintf("Error retrieving documents: %v", err)), nil, nil
	}

	h.Logger.Info("get_phase_documents",
		"phase", args.Phase,
		"documents", result.TotalCount(),
		"failures", len(result.Failures),
		"elapsed", time.Since(start),
	)

	return textResult(output), nil, nil
}
