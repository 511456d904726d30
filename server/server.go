package server

import (
	"github.com/lexandro/guidelines-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "guidelines-mcp"
	Version = "1.0.0"
)

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	PhaseDocuments  *tools.PhaseDocumentsHandler
	DocumentContent *tools.DocumentContentHandler
	Phases          *tools.PhasesHandler
	Status          *tools.StatusHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server provides the team's development guidelines, grouped by process phase (design, development, test).

Before starting work in a phase, call get_phase_documents for that phase and follow the rules it returns.
- rulus.md in general-rules is the most important document and applies to every phase
- Use the documents for your own reasoning; deliver the work product, not the guideline text
- Use get_document_content to re-read a single document by file name
- Use list_available_phases to see which phases exist`,
		},
	)

	// Register get_phase_documents tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_phase_documents",
		Description: "Get documents for a specific process phase (design, development, test). Returns every document of the phase with its full content, in phase directory order.",
		InputSchema: tools.MustInputSchema[tools.PhaseDocumentsArgs](),
	}, handlers.PhaseDocuments.Handle)

	// Register get_document_content tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_document_content",
		Description: `Get full content of a specific document by filename and directory.

Parameters:
  - phase: process phase to search in
  - fileName: exact file name (e.g. "rulus.md")
  - directory: optional logical directory (general-rules, design-rules, development-rules, test-rules)`,
		InputSchema: tools.MustInputSchema[tools.DocumentContentArgs](),
	}, handlers.DocumentContent.Handle)

	// Register list_available_phases tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "list_available_phases",
		Description: "List all available process phases",
	}, handlers.Phases.Handle)

	// Register guidelines_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "guidelines_status",
		Description: "Show server status: guidelines root, config source, uptime, document count per phase, and skipped directories or files.",
	}, handlers.Status.Handle)

	return mcpServer
}
