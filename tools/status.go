package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/guidelines-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the guidelines_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Retriever    *document.Retriever
	ConfigSource string
	StartTime    time.Time
	Logger       *slog.Logger
}

// Handle processes a guidelines_status request. It performs a full retrieval
// of every phase, so the report reflects the disk at call time.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder
	uptime := time.Since(h.StartTime)

	builder.WriteString("=== guidelines-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Guidelines root: %s\n", h.Retriever.BasePath()))
	if h.ConfigSource != "" {
		builder.WriteString(fmt.Sprintf("Config source: %s\n", h.ConfigSource))
	}
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))

	builder.WriteString("\nPhases:\n")

	// Failures repeat across phases because directories are shared; report each path once.
	seen := make(map[string]bool)
	var failures []document.Failure

	for _, p := range h.Retriever.AllPhases() {
		result, err := h.Retriever.DocumentsByPhase(p)
		if err != nil {
			builder.WriteString(fmt.Sprintf("  %-14s error: %v\n", p, err))
			continue
		}

		var totalSize int64
		for _, doc := range result.Documents {
			totalSize += int64(len(doc.Content))
		}
		builder.WriteString(fmt.Sprintf("  %-14s %d documents (%s)\n", p, result.TotalCount(), formatFileSize(totalSize)))

		for _, failure := range result.Failures {
			if seen[failure.Path] {
				continue
			}
			seen[failure.Path] = true
			failures = append(failures, failure)
		}
	}

	if len(failures) > 0 {
		builder.WriteString("\nSkipped:\n")
		for _, failure := range failures {
			builder.WriteString(fmt.Sprintf("  %-18s %s (%s)\n", failure.Directory, failure.Path, failure.Kind))
		}
	}

	h.Logger.Info("guidelines_status",
		"root", h.Retriever.BasePath(),
		"skipped", len(failures),
		"uptime", uptime,
	)

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
