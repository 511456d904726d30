package register

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func Test_DeriveServerName(t *testing.T) {
	tests := []struct {
		name       string
		binaryPath string
		want       string
	}{
		{"strip -mcp suffix", "guidelines-mcp", "guidelines"},
		{"strip .exe and -mcp", "guidelines-mcp.exe", "guidelines"},
		{"no -mcp suffix passthrough", "myserver", "myserver"},
		{"only .exe suffix", "myserver.exe", "myserver"},
		{"full path stripped to base", "/usr/local/bin/guidelines-mcp", "guidelines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveServerName(tt.binaryPath)
			if got != tt.want {
				t.Errorf("DeriveServerName(%q) = %q, want %q", tt.binaryPath, got, tt.want)
			}
		})
	}
}

func Test_ParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{"project defaults", []string{"project"}, Options{Scope: "project", Directory: "."}},
		{"project directory", []string{"project", "mydir"}, Options{Scope: "project", Directory: "mydir"}},
		{"project explicit dot", []string{"project", "."}, Options{Scope: "project", Directory: "."}},
		{"project directory and server args", []string{"project", "mydir", "--", "-config", "/etc/g.json"},
			Options{Scope: "project", Directory: "mydir", ServerArgs: []string{"-config", "/etc/g.json"}}},
		{"user server args", []string{"user", "--", "-log-level", "debug"},
			Options{Scope: "user", ServerArgs: []string{"-log-level", "debug"}}},
		{"user url", []string{"user", "--url", "http://localhost:8080/mcp"},
			Options{Scope: "user", URL: "http://localhost:8080/mcp"}},
		{"project url equals form", []string{"project", "repo", "--url=https://docs.example.com/mcp"},
			Options{Scope: "project", Directory: "repo", URL: "https://docs.example.com/mcp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs() error: %v", err)
			}
			if got.Scope != tt.want.Scope || got.Directory != tt.want.Directory || got.URL != tt.want.URL {
				t.Errorf("ParseArgs() = %+v, want %+v", got, tt.want)
			}
			if !sliceEqual(got.ServerArgs, tt.want.ServerArgs) {
				t.Errorf("ParseArgs() server args = %v, want %v", got.ServerArgs, tt.want.ServerArgs)
			}
		})
	}
}

func Test_ParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"unknown scope", []string{"global"}},
		{"user with directory", []string{"user", "somedir"}},
		{"project with two directories", []string{"project", "a", "b"}},
		{"missing url value", []string{"user", "--url"}},
		{"non-http url", []string{"user", "--url", "ftp://host/mcp"}},
		{"url with server args", []string{"user", "--url", "http://host/mcp", "--", "-x"}},
		{"unknown flag", []string{"project", "--force"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("ParseArgs(%v) error = %v, want ErrUsage", tt.args, err)
			}
		})
	}
}

func Test_writeConfig_CreatesNewFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mcp.json")

	entry := mcpServerEntry{Command: "/usr/bin/guidelines-mcp", Args: []string{"-config", "/etc/g.json"}}
	if err := writeConfig(configPath, "guidelines", entry); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	serverEntry := readServerEntry(t, configPath, "guidelines")
	if serverEntry["command"] != "/usr/bin/guidelines-mcp" {
		t.Errorf("command = %v, want /usr/bin/guidelines-mcp", serverEntry["command"])
	}
	if _, ok := serverEntry["url"]; ok {
		t.Errorf("stdio entry should not have a url: %v", serverEntry)
	}
}

func Test_writeConfig_HTTPEntry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")

	entry := mcpServerEntry{Type: "http", URL: "http://localhost:8080/mcp"}
	if err := writeConfig(configPath, "guidelines", entry); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	serverEntry := readServerEntry(t, configPath, "guidelines")
	if serverEntry["type"] != "http" || serverEntry["url"] != "http://localhost:8080/mcp" {
		t.Errorf("unexpected http entry: %v", serverEntry)
	}
	if _, ok := serverEntry["command"]; ok {
		t.Errorf("http entry should not have a command: %v", serverEntry)
	}
}

func Test_writeConfig_UpdatesExistingEntry(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mcp.json")

	initial := map[string]any{
		"theme": "dark",
		"mcpServers": map[string]any{
			"other-server": map[string]any{"command": "/usr/bin/other"},
			"guidelines":   map[string]any{"command": "/old/path"},
		},
	}
	initialData, _ := json.MarshalIndent(initial, "", "  ")
	os.WriteFile(configPath, initialData, 0644)

	entry := mcpServerEntry{Command: "/new/path"}
	if err := writeConfig(configPath, "guidelines", entry); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	if other := readServerEntry(t, configPath, "other-server"); other["command"] != "/usr/bin/other" {
		t.Errorf("other-server command changed unexpectedly: %v", other["command"])
	}
	if mine := readServerEntry(t, configPath, "guidelines"); mine["command"] != "/new/path" {
		t.Errorf("guidelines command = %v, want /new/path", mine["command"])
	}

	data, _ := os.ReadFile(configPath)
	var config map[string]any
	json.Unmarshal(data, &config)
	if config["theme"] != "dark" {
		t.Errorf("unrelated top-level key lost: %v", config)
	}
}

func Test_writeConfig_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	os.WriteFile(configPath, []byte("not valid json{{{"), 0644)

	err := writeConfig(configPath, "guidelines", mcpServerEntry{Command: "/usr/bin/guidelines-mcp"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func Test_writeConfig_ServersNotObject(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	os.WriteFile(configPath, []byte(`{"mcpServers": []}`), 0644)

	err := writeConfig(configPath, "guidelines", mcpServerEntry{Command: "/usr/bin/guidelines-mcp"})
	if err == nil {
		t.Fatal("expected error when mcpServers is not an object")
	}
}

func Test_Run_ProjectURL(t *testing.T) {
	dir := t.TempDir()

	configPath, err := Run("guidelines", []string{"project", dir, "--url", "http://localhost:8080/mcp"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if configPath != filepath.Join(dir, ".mcp.json") {
		t.Errorf("config path = %s, want %s", configPath, filepath.Join(dir, ".mcp.json"))
	}
	if entry := readServerEntry(t, configPath, "guidelines"); entry["url"] != "http://localhost:8080/mcp" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func Test_buildEntry(t *testing.T) {
	binaryPath := "/usr/local/bin/guidelines-mcp"
	serverArgs := []string{"-config", "/etc/g.json"}

	entry := buildEntry(binaryPath, serverArgs)

	if runtime.GOOS == "windows" {
		if entry.Command != "cmd" {
			t.Errorf("command = %q, want \"cmd\"", entry.Command)
		}
		if len(entry.Args) < 2 || entry.Args[0] != "/C" || entry.Args[1] != binaryPath {
			t.Errorf("args = %v, want [/C %s -config /etc/g.json]", entry.Args, binaryPath)
		}
	} else {
		if entry.Command != binaryPath {
			t.Errorf("command = %q, want %q", entry.Command, binaryPath)
		}
		if !sliceEqual(entry.Args, serverArgs) {
			t.Errorf("args = %v, want %v", entry.Args, serverArgs)
		}
	}
}

func Test_resolveConfigPath_Project(t *testing.T) {
	got, err := resolveConfigPath("project", ".")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}

	absDir, _ := filepath.Abs(".")
	want := filepath.Join(absDir, ".mcp.json")
	if got != want {
		t.Errorf("resolveConfigPath(project, .) = %q, want %q", got, want)
	}
}

func Test_resolveConfigPath_User(t *testing.T) {
	got, err := resolveConfigPath("user", "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}

	homeDir, _ := os.UserHomeDir()
	want := filepath.Join(homeDir, ".claude.json")
	if got != want {
		t.Errorf("resolveConfigPath(user, ) = %q, want %q", got, want)
	}
}

func readServerEntry(t *testing.T, configPath string, name string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	servers, ok := config["mcpServers"].(map[string]any)
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}
	entry, ok := servers[name].(map[string]any)
	if !ok {
		t.Fatalf("%s entry not found or not an object", name)
	}
	return entry
}

func sliceEqual(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
