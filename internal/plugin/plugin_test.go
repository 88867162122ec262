package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writePlugin creates a plugin directory with a manifest and a shell script body.
func writePlugin(t *testing.T, root, name, script string, actions ...string) *Plugin {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
		Actions:    actions,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	exe := filepath.Join(dir, manifest.Executable)
	if err := os.WriteFile(exe, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{Manifest: manifest, Path: dir, Executable: exe}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
}

func TestExecutor_Execute(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "ok-plugin", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"hello"}}
EOF
`, "keystroke")

	resp, err := NewExecutor(5 * time.Second).Execute(p, &Request{Action: "keystroke"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
	if data["message"] != "hello" {
		t.Errorf("message = %q, want hello", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "echo-plugin", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":$INPUT}"
`, "keystroke")

	req := &Request{
		Action: "keystroke",
		Label:  "Fast Forward",
		Params: json.RawMessage(`{"key":"right"}`),
	}
	resp, err := NewExecutor(5 * time.Second).Execute(p, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var got Request
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("failed to unmarshal echoed request: %v", err)
	}
	if got.Action != "keystroke" || got.Label != "Fast Forward" {
		t.Errorf("echoed request = %+v", got)
	}
	if string(got.Params) != `{"key":"right"}` {
		t.Errorf("params = %s", got.Params)
	}
}

func TestExecutor_Failures(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		wantErr string
	}{
		{
			name:    "timeout",
			script:  "#!/bin/sh\nsleep 10\necho '{\"success\":true}'\n",
			timeout: 100 * time.Millisecond,
			wantErr: "timeout",
		},
		{
			name:    "invalid json",
			script:  "#!/bin/sh\necho 'not valid json'\n",
			timeout: 5 * time.Second,
			wantErr: "parse plugin response",
		},
		{
			name:    "non-zero exit",
			script:  "#!/bin/sh\necho 'Error: something failed' >&2\nexit 1\n",
			timeout: 5 * time.Second,
			wantErr: "something failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writePlugin(t, t.TempDir(), "bad-plugin", tt.script, "keystroke")

			_, err := NewExecutor(tt.timeout).Execute(p, &Request{Action: "keystroke"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExecutor_ErrorResponse(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"key not allowed"}'
`, "keystroke")

	resp, err := NewExecutor(0).Execute(p, &Request{Action: "keystroke"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != "key not allowed" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestNewExecutor_DefaultTimeout(t *testing.T) {
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", got)
	}
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "keyboard", "#!/bin/sh\n", "keystroke", "shortcut")
	writePlugin(t, root, "lights", "#!/bin/sh\n", "on")

	// Directory without a manifest and one with a broken manifest are skipped.
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(root, "broken")
	if err := os.MkdirAll(broken, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, "plugin.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := m.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "keyboard" || plugins[1].Manifest.Name != "lights" {
		t.Errorf("unexpected order: %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}

	kb, err := m.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if kb.Executable != filepath.Join(root, "keyboard", "keyboard.sh") {
		t.Errorf("Executable = %q", kb.Executable)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir should succeed, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManager_Require(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "keyboard", "#!/bin/sh\n", "keystroke")

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Require("keyboard", "keystroke"); err != nil {
		t.Errorf("Require() failed: %v", err)
	}
	if _, err := m.Require("keyboard", "volume-up"); err == nil {
		t.Error("expected error for unsupported action")
	}
	if _, err := m.Require("mouse", "keystroke"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}
