package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	// HTTPPath is where the streamable HTTP endpoint is mounted.
	HTTPPath = "/mcp"

	shutdownTimeout = 5 * time.Second
)

// Serve runs the MCP server on the given transport until ctx is cancelled or
// the transport fails. addr is only used by the http transport.
func Serve(ctx context.Context, mcpServer *mcp.Server, transport string, addr string, logger *slog.Logger) error {
	switch transport {
	case TransportStdio, "":
		logger.Info("MCP server starting on stdio")
		if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil
	case TransportHTTP:
		return serveHTTP(ctx, mcpServer, addr, logger)
	default:
		return fmt.Errorf("unknown transport %q (must be %q or %q)", transport, TransportStdio, TransportHTTP)
	}
}

// NewHTTPHandler returns the HTTP mux serving the streamable MCP endpoint at HTTPPath.
func NewHTTPHandler(mcpServer *mcp.Server) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(HTTPPath, streamable)
	return mux
}

func serveHTTP(ctx context.Context, mcpServer *mcp.Server, addr string, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(mcpServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server starting on HTTP", "addr", addr, "path", HTTPPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
