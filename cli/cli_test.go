package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/petal-labs/petalskill/audit"
	_ "github.com/petal-labs/petalskill/demo"
)

// newTestRoot creates a fresh cobra root command wired to all subcommands.
// Each test gets an isolated command tree to avoid shared state.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "petalskill",
		SilenceUsage: true,
	}
	root.AddCommand(NewToolsCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewDescribeCmd())
	root.AddCommand(NewInvokeCmd())
	root.AddCommand(NewRunCmd())
	return root
}

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func TestToolsList(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "tools", "list")
	if err != nil {
		t.Fatalf("tools list error = %v", err)
	}
	if !strings.Contains(stdout, "TOOL") {
		t.Fatalf("missing header: %q", stdout)
	}
	for _, tool := range []string{"greet", "echo", "calculate", "process_list", "status"} {
		if !strings.Contains(stdout, tool) {
			t.Fatalf("list output missing tool %q: %q", tool, stdout)
		}
	}
	if !strings.Contains(stdout, "message:string") {
		t.Fatalf("list output missing parameter summary: %q", stdout)
	}
}

func TestToolsListUnknownSkill(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "tools", "list", "--skill", "absent")
	if code := exitCode(t, err); code != exitValidation {
		t.Fatalf("exit code = %d, want %d", code, exitValidation)
	}
}

func TestConfigShow(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "config", "show", "--set", "greeting_prefix=Howdy")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(stdout, "greeting_prefix") || !strings.Contains(stdout, "Howdy") {
		t.Fatalf("override not reflected: %q", stdout)
	}
	if !strings.Contains(stdout, "max_items") || !strings.Contains(stdout, "100") {
		t.Fatalf("default not reflected: %q", stdout)
	}
}

func TestConfigShowValuesFile(t *testing.T) {
	values := writeTestFile(t, "values.yaml", "greeting_prefix: Ahoy\n")
	stdout, _, err := executeCommand(newTestRoot(), "config", "show", "--values", values)
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(stdout, "Ahoy") {
		t.Fatalf("values file not applied: %q", stdout)
	}
}

func TestConfigShowBadValuesFile(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "config", "show", "--values", filepath.Join(t.TempDir(), "absent.yaml"))
	if code := exitCode(t, err); code != exitInputParse {
		t.Fatalf("exit code = %d, want %d", code, exitInputParse)
	}
}

func TestDescribeJSON(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "describe")
	if err != nil {
		t.Fatalf("describe error = %v", err)
	}

	var manifest map[string]any
	if err := json.Unmarshal([]byte(stdout), &manifest); err != nil {
		t.Fatalf("describe output is not JSON: %v\n%s", err, stdout)
	}
	if manifest["name"] != "demo" {
		t.Fatalf("unexpected manifest name: %v", manifest["name"])
	}
	tools, ok := manifest["tools"].([]any)
	if !ok || len(tools) != 5 {
		t.Fatalf("expected 5 tools in manifest, got %v", manifest["tools"])
	}
}

func TestDescribeYAML(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "describe", "--format", "yaml")
	if err != nil {
		t.Fatalf("describe error = %v", err)
	}
	if !strings.Contains(stdout, "name: demo") {
		t.Fatalf("unexpected yaml output: %q", stdout)
	}
}

func TestDescribeUnknownFormat(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "describe", "--format", "toml")
	if code := exitCode(t, err); code != exitInputParse {
		t.Fatalf("exit code = %d, want %d", code, exitInputParse)
	}
}

func TestInvokeSuccess(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "invoke", "greet", "--arg", "name=Alice")
	if err != nil {
		t.Fatalf("invoke error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invoke output is not JSON: %v\n%s", err, stdout)
	}
	if result["success"] != true {
		t.Fatalf("expected success: %v", result)
	}
	if result["message"] != "Hello, Alice!" {
		t.Fatalf("unexpected message: %v", result["message"])
	}
	if result["invocation_id"] == "" || result["invocation_id"] == nil {
		t.Fatal("expected an invocation id")
	}
}

func TestInvokeArgsJSON(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "invoke", "calculate",
		"--args-json", `{"a": 6, "b": 7, "operation": "multiply"}`)
	if err != nil {
		t.Fatalf("invoke error = %v", err)
	}
	if !strings.Contains(stdout, "6 multiply 7 = 42") {
		t.Fatalf("unexpected output: %q", stdout)
	}
}

func TestInvokeToolFailure(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "invoke", "calculate",
		"--arg", "a=1", "--arg", "b=0", "--arg", "operation=divide")
	if code := exitCode(t, err); code != exitRuntime {
		t.Fatalf("exit code = %d, want %d", code, exitRuntime)
	}
	// The result envelope is still printed before the exit error.
	if !strings.Contains(stdout, "Division by zero") {
		t.Fatalf("expected failure envelope on stdout: %q", stdout)
	}
}

func TestInvokeBadArgsJSON(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "invoke", "greet", "--args-json", "{broken")
	if code := exitCode(t, err); code != exitInputParse {
		t.Fatalf("exit code = %d, want %d", code, exitInputParse)
	}
}

func TestInvokeAuditDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	_, _, err := executeCommand(newTestRoot(), "invoke", "greet",
		"--arg", "name=Alice", "--audit-db", dbPath)
	if err != nil {
		t.Fatalf("invoke error = %v", err)
	}

	store, err := audit.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open audit store: %v", err)
	}
	defer store.Close()

	records, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(records))
	}
	if records[0].Tool != "greet" || !records[0].Success {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestRunSession(t *testing.T) {
	root := newTestRoot()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetIn(strings.NewReader("greet name=Alice\n\nnope\nexit\nignored\n"))
	root.SetArgs([]string{"run"})

	if err := root.Execute(); err != nil {
		t.Fatalf("run error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(outBuf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 result lines, got %d: %q", len(lines), outBuf.String())
	}
	if !strings.Contains(lines[0], "Hello, Alice!") {
		t.Fatalf("unexpected first result: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Unknown tool: nope") {
		t.Fatalf("unexpected second result: %q", lines[1])
	}
}
