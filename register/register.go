package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUsage is returned for malformed register arguments. Callers print Usage.
var ErrUsage = errors.New("invalid register arguments")

// Options describes one registration request.
type Options struct {
	Scope      string   // "project" or "user"
	Directory  string   // project directory holding .mcp.json (project scope only)
	URL        string   // streamable HTTP endpoint; empty registers a stdio command
	ServerArgs []string // forwarded to the server binary (stdio only)
}

// mcpServerEntry is one entry under "mcpServers" in an MCP client config.
type mcpServerEntry struct {
	Type    string   `json:"type,omitempty"`
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// Run executes the register subcommand.
// serverName is the MCP server name (e.g. "guidelines").
// args is os.Args[2:] (everything after "register").
// It returns the config file that was written.
func Run(serverName string, args []string) (string, error) {
	options, err := ParseArgs(args)
	if err != nil {
		return "", err
	}

	var entry mcpServerEntry
	if options.URL != "" {
		entry = mcpServerEntry{Type: "http", URL: options.URL}
	} else {
		binaryPath, err := detectBinaryPath()
		if err != nil {
			return "", fmt.Errorf("detecting binary path: %w", err)
		}
		entry = buildEntry(binaryPath, options.ServerArgs)
	}

	configPath, err := resolveConfigPath(options.Scope, options.Directory)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}

	if err := writeConfig(configPath, serverName, entry); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return configPath, nil
}

// ParseArgs parses: <project|user> [directory] [--url URL] [-- server args...].
// A directory is only accepted for project scope.
func ParseArgs(args []string) (Options, error) {
	if len(args) == 0 {
		return Options{}, fmt.Errorf("%w: missing scope", ErrUsage)
	}

	options := Options{Scope: args[0]}
	if options.Scope != "project" && options.Scope != "user" {
		return Options{}, fmt.Errorf("%w: unknown scope %q (must be \"project\" or \"user\")", ErrUsage, options.Scope)
	}
	if options.Scope == "project" {
		options.Directory = "."
	}

	directorySet := false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			options.ServerArgs = rest[i+1:]
			i = len(rest)
		case arg == "--url":
			if i+1 >= len(rest) {
				return Options{}, fmt.Errorf("%w: --url requires a value", ErrUsage)
			}
			i++
			options.URL = rest[i]
		case strings.HasPrefix(arg, "--url="):
			options.URL = strings.TrimPrefix(arg, "--url=")
		case strings.HasPrefix(arg, "-"):
			return Options{}, fmt.Errorf("%w: unknown flag %s", ErrUsage, arg)
		case options.Scope == "project" && !directorySet:
			options.Directory = arg
			directorySet = true
		default:
			return Options{}, fmt.Errorf("%w: unexpected argument %q", ErrUsage, arg)
		}
	}

	if options.URL != "" {
		parsed, err := url.Parse(options.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return Options{}, fmt.Errorf("%w: --url must be an http(s) URL, got %q", ErrUsage, options.URL)
		}
		if len(options.ServerArgs) > 0 {
			return Options{}, fmt.Errorf("%w: server args cannot be combined with --url", ErrUsage)
		}
	}
	return options, nil
}

// Usage writes the register subcommand help.
func Usage(w io.Writer) {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register project [directory]            # → <directory>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(w, "  %s register user                           # → ~/.claude.json\n", binaryName)
	fmt.Fprintf(w, "  %s register project . -- -config cfg.json  # forward args to server\n", binaryName)
	fmt.Fprintf(w, "  %s register user --url http://host:8080/mcp # register a running HTTP server\n", binaryName)
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

// buildEntry returns a stdio launch entry. On Windows the binary is started through cmd /C.
func buildEntry(binaryPath string, serverArgs []string) mcpServerEntry {
	if runtime.GOOS == "windows" {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		return mcpServerEntry{Command: "cmd", Args: args}
	}
	return mcpServerEntry{Command: binaryPath, Args: serverArgs}
}

// writeConfig merges the entry into configPath, keeping all other keys and
// servers. The file is replaced atomically.
func writeConfig(configPath string, serverName string, entry mcpServerEntry) error {
	config := map[string]any{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading existing config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok || servers == nil {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	return writeFileAtomic(configPath, output)
}

// writeFileAtomic writes to a temp file in the same directory, then renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
