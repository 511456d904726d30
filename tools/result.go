package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult wraps output in a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult reports a domain failure to the client. Tool handlers never
// return Go errors for these; the protocol call itself succeeded.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
