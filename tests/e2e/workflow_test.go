package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("HABITOWN_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "habitown")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with: go build -o bin/habitown ./cmd/habitown", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "HABITOWN_") {
			continue
		}
		env = append(env, e)
	}
	dbPath := filepath.Join(tempDir, "habitown", "habitown.db")
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("HABITOWN_CONFIG=%s", dbPath),
		"HABITOWN_DB_CONNECTION=",
	)

	// 2. Initialize storage
	t.Log("Initializing storage...")
	out := runCmd(t, cliPath, env, "init")
	expectContains(t, out, "Initialized sqlite storage at:")

	// 3. Add habits and complete one
	t.Log("Adding habits...")
	expectContains(t, runCmd(t, cliPath, env, "habit", "add", "Read", "--icon", "📚"), "Added habit: 📚 Read")
	expectContains(t, runCmd(t, cliPath, env, "habit", "add", "Run", "--frequency", "weekly", "--target", "3"), "Added habit:")

	t.Log("Completing a habit...")
	out = runCmd(t, cliPath, env, "habit", "done", "Read", "--note", "chapter one")
	expectContains(t, out, "+12 XP")
	expectContains(t, runCmd(t, cliPath, env, "habit", "done", "Read"), "already done")
	expectContains(t, runCmd(t, cliPath, env, "habit", "today"), "1/2 done")

	// 4. The completion reached the town
	t.Log("Checking the town...")
	out = runCmd(t, cliPath, env, "town")
	expectContains(t, out, "Level 1")
	expectContains(t, out, "Experience:  12")

	// 5. Export, reset, import
	t.Log("Exporting data...")
	exportPath := filepath.Join(tempDir, "export.json")
	runCmd(t, cliPath, env, "data", "export", "-o", exportPath)
	raw, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	for _, key := range []string{"habits", "completions", "dailyProgress", "version"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Export is missing %q", key)
		}
	}

	t.Log("Resetting data...")
	expectContains(t, runCmd(t, cliPath, env, "data", "reset", "-y"), "All data has been reset")
	expectContains(t, runCmd(t, cliPath, env, "habit", "list"), "No habits")

	t.Log("Importing data...")
	expectContains(t, runCmd(t, cliPath, env, "data", "import", exportPath, "-y"), "Imported 2 habits")
	expectContains(t, runCmd(t, cliPath, env, "habit", "log", "Read"), "chapter one")

	// 6. Backups and health
	t.Log("Creating a backup...")
	expectContains(t, runCmd(t, cliPath, env, "backup", "create"), "Backup created:")
	expectContains(t, runCmd(t, cliPath, env, "backup", "list"), "Available backups")

	t.Log("Running doctor...")
	out = runCmd(t, cliPath, env, "doctor")
	expectContains(t, out, "Database reachable: OK")
	expectContains(t, out, "Habit integrity: OK")
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func expectContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("Expected output to contain %q, got:\n%s", want, out)
	}
}
