package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/guidelines-mcp/config"
	"github.com/lexandro/guidelines-mcp/document"
	"github.com/lexandro/guidelines-mcp/ignore"
	"github.com/lexandro/guidelines-mcp/register"
	"github.com/lexandro/guidelines-mcp/server"
	"github.com/lexandro/guidelines-mcp/tools"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		runRegister()
		return
	}

	// Parse CLI flags
	var configPath string
	var basePath string
	var transport string
	var addr string
	var logLevel string
	var logFile string
	var maxFileSizeBytes int64
	var workers int
	var excludes excludePatterns

	flag.StringVar(&configPath, "config", config.DefaultConfigPath, "Config file path (JSON or YAML)")
	flag.StringVar(&basePath, "base", "", "Guidelines root directory (overrides documentBasePath from config)")
	flag.StringVar(&transport, "transport", server.TransportStdio, "Transport: stdio|http")
	flag.StringVar(&addr, "addr", ":8080", "Listen address for the http transport")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Var(&excludes, "exclude", "Extra exclude pattern (repeatable)")
	flag.Int64Var(&maxFileSizeBytes, "max-file-size", config.DefaultMaxFileSizeBytes, "Maximum document size in bytes (0: unlimited)")
	flag.IntVar(&workers, "workers", config.DefaultWorkers, "Directories read in parallel")
	flag.Parse()

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(logLevel, logFile)

	store := config.NewStore(logger)
	cfg := store.Load(configPath)

	// Flags only override config values when given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-file-size":
			cfg.MaxFileSizeBytes = maxFileSizeBytes
		case "workers":
			cfg.Workers = workers
		}
	})
	exclude := append(append([]string{}, cfg.Exclude...), excludes...)

	basePath, err := resolveBasePath(basePath, store)
	if err != nil {
		logger.Error("resolving guidelines root", "error", err)
		os.Exit(1)
	}

	startTime := time.Now()

	ignoreMatcher, err := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        basePath,
		CustomPatterns: exclude,
	})
	if err != nil {
		logger.Error("invalid exclude configuration", "error", err)
		os.Exit(1)
	}

	retriever := document.NewRetriever(document.Options{
		BasePath:         basePath,
		Config:           store,
		Matcher:          ignoreMatcher,
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
		Workers:          cfg.Workers,
		Logger:           logger,
	})

	logger.Info("starting guidelines-mcp",
		"root", retriever.BasePath(),
		"configSource", store.Source(),
		"transport", transport,
		"maxFileSize", cfg.MaxFileSizeBytes,
		"workers", cfg.Workers,
	)

	handlers := server.Handlers{
		PhaseDocuments:  &tools.PhaseDocumentsHandler{Retriever: retriever, Logger: logger},
		DocumentContent: &tools.DocumentContentHandler{Retriever: retriever, Logger: logger},
		Phases:          &tools.PhasesHandler{Retriever: retriever, Logger: logger},
		Status: &tools.StatusHandler{
			Retriever:    retriever,
			ConfigSource: store.Source(),
			StartTime:    startTime,
			Logger:       logger,
		},
	}
	mcpServer := server.Setup(handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, mcpServer, transport, addr, logger); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// resolveBasePath returns the absolute guidelines root. An explicit -base
// value wins over the configured document base path.
func resolveBasePath(explicit string, source document.BasePathSource) (string, error) {
	basePath := explicit
	if basePath == "" {
		basePath = source.FullDocumentPath()
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", basePath, err)
	}
	return absPath, nil
}

// runRegister handles "guidelines-mcp register ..." and exits on failure.
func runRegister() {
	serverName := register.DeriveServerName(os.Args[0])
	if serverName == "" {
		serverName = "guidelines"
	}

	configPath, err := register.Run(serverName, os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, register.ErrUsage) {
			register.Usage(os.Stderr)
		}
		os.Exit(1)
	}
	fmt.Printf("Registered %q in %s\n", serverName, configPath)
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	writer := os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
