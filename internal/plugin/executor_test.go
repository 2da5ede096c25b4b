package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin into a temp dir and returns it.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    actions,
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, "test-plugin", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"hello world"}}
EOF
`, "test-action")

	executor := NewExecutor(5000)
	response, err := executor.Execute(context.Background(), plugin, &Request{
		Action: "test-action",
		Config: json.RawMessage(`{"key":"value"}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, "echo-plugin", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`, "echo")

	executor := NewExecutor(5000)
	response, err := executor.Execute(context.Background(), plugin, &Request{
		Action: "echo",
		Params: json.RawMessage(`{"count":42}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data.Received.Action != "echo" {
		t.Errorf("expected action 'echo', got %q", data.Received.Action)
	}
	if string(data.Received.Params) != `{"count":42}` {
		t.Errorf("expected params to round trip, got %s", data.Received.Params)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 5
echo '{"success":true}'
`)

	executor := NewExecutor(100)
	start := time.Now()
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "test"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got: %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("timeout took too long: %v", time.Since(start))
	}
}

func TestExecutor_Cancelled(t *testing.T) {
	plugin := scriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 5
echo '{"success":true}'
`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := NewExecutor(5000).Execute(ctx, plugin, &Request{Action: "test"})
	if err == nil || !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("expected cancellation error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"something went wrong"}'
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, &Request{Action: "test"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error != "something went wrong" {
		t.Errorf("expected error 'something went wrong', got %q", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := scriptPlugin(t, "invalid-plugin", `#!/bin/sh
echo 'not valid json'
`)

	_, err := NewExecutor(5000).Execute(context.Background(), plugin, &Request{Action: "test"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse plugin response") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := scriptPlugin(t, "failing-plugin", `#!/bin/sh
echo "error message" >&2
exit 1
`)

	_, err := NewExecutor(5000).Execute(context.Background(), plugin, &Request{Action: "test"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "error message") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3000).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeoutMs*time.Millisecond {
		t.Errorf("Timeout() = %v, want default", got)
	}
}
