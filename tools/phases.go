package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexandro/guidelines-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PhasesArgs defines the input parameters for the list_available_phases tool (none required).
type PhasesArgs struct{}

// PhasesHandler holds the dependencies for the phase listing tool.
type PhasesHandler struct {
	Retriever *document.Retriever
	Logger    *slog.Logger
}

// Handle processes a list_available_phases request.
func (h *PhasesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args PhasesArgs) (*mcp.CallToolResult, any, error) {
	phases := h.Retriever.AllPhases()

	output, err := FormatPhaseList(phases)
	if err != nil {
		h.Logger.Error("list_available_phases encoding failed", "error", err)
		return errorResult(fmt.Sprintf("Error listing phases: %v", err)), nil, nil
	}

	h.Logger.Info("list_available_phases", "phases", len(phases))
	return textResult(output), nil, nil
}
