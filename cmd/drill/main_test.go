package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/drill/pkg/config"
	"github.com/vanderheijden86/drill/pkg/nav"
)

const catalogJSON = `[
	{"id": 1, "title": "Fruit"},
	{"id": 2, "parent": 1, "title": "Apple"},
	{"id": 3, "parent": 1, "title": "Pear"},
	{"id": 4, "parent": 2, "title": "Gala"},
	{"id": 6, "title": "Bread"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "-version")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, "drill ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRunHelp(t *testing.T) {
	code, out, _ := runCLI(t, "", "-help")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	for _, flagName := range []string{"-source", "-use-button", "-robot-state", "-export"} {
		if !strings.Contains(out, flagName) {
			t.Errorf("help missing %s", flagName)
		}
	}
}

func TestRunBadFlag(t *testing.T) {
	if code, _, _ := runCLI(t, "", "-no-such-flag"); code != exitUsage {
		t.Errorf("exit %d, want %d", code, exitUsage)
	}
}

func TestRunRobotState(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "options.json", catalogJSON)

	code, out, errOut := runCLI(t, "", "-source", src, "-selected", "2", "-robot-state")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	var state nav.State
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("decode state: %v\n%s", err, out)
	}
	if state.Title != "Apple / Fruit" || !state.ShowBack {
		t.Errorf("state = %+v", state)
	}
	visible := 0
	for _, row := range state.Rows {
		if row.Visible {
			visible++
			if row.ID != 2 && row.ID != 3 {
				t.Errorf("row %d should be hidden", row.ID)
			}
		}
	}
	if visible != 2 {
		t.Errorf("expected 2 visible rows, got %d", visible)
	}
}

func TestRunRobotStateFromStdin(t *testing.T) {
	code, out, errOut := runCLI(t, catalogJSON, "-source", "-", "-robot-state")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `"title": ""`) {
		t.Errorf("root selection should have an empty title:\n%s", out)
	}
}

func TestRunUnknownSelection(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "options.json", catalogJSON)

	code, _, errOut := runCLI(t, "", "-source", src, "-selected", "42", "-robot-state")
	if code != exitUsage {
		t.Errorf("exit %d, want %d", code, exitUsage)
	}
	if !strings.Contains(errOut, "42") {
		t.Errorf("stderr should name the id: %q", errOut)
	}
}

func TestRunMalformedInput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "cycle.json", `[
		{"id": 1, "parent": 2, "title": "A"},
		{"id": 2, "parent": 1, "title": "B"}
	]`)

	code, out, errOut := runCLI(t, "", "-source", src, "-robot-state")
	if code != exitError {
		t.Errorf("exit %d, want %d", code, exitError)
	}
	if out != "" {
		t.Errorf("nothing should reach stdout, got %q", out)
	}
	if !strings.Contains(errOut, "malformed tree input") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunMissingSource(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-source", filepath.Join(t.TempDir(), "missing.json"), "-robot-state")
	if code != exitError {
		t.Errorf("exit %d, want %d", code, exitError)
	}
	if !strings.Contains(errOut, "missing.json") {
		t.Errorf("stderr should name the source: %q", errOut)
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "options.yaml", "- id: 1\n  title: Fruit\n- id: 2\n  parent: 1\n  title: Apple\n")
	outPath := filepath.Join(dir, "tree.txt")

	code, _, errOut := runCLI(t, "", "-source", src, "-export", outPath)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Fruit (1)\n└── Apple (2)\n" {
		t.Errorf("export = %q", data)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "options.json", catalogJSON)
	cfgPath := writeFile(t, dir, config.FileName, "sources: [options.json]\nuse_button_label: Use\n")

	code, out, errOut := runCLI(t, "", "-config", cfgPath, "-selected", "4", "-robot-state")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Gala / Apple / Fruit") {
		t.Errorf("config sources should be resolved next to the config:\n%s", out)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	cfg.UseButtonLabel = "Use"
	cfg.Sources = []string{"a.json"}
	cfg.Watch = true

	flags, _, err := parseFlags([]string{"-source", "b.json", "-source", "c.yaml", "-use-button", "", "-watch=false"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	applyFlags(&cfg, flags)

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "b.json" || cfg.Sources[1] != "c.yaml" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.UseButtonLabel != "" {
		t.Error("an explicit empty -use-button should disable the button")
	}
	if cfg.Watch {
		t.Error("-watch=false should override the config")
	}
}

func TestApplyFlagsKeepsConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.UseButtonLabel = "Use"
	cfg.SQLiteQuery = "SELECT 1"

	flags, _, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	applyFlags(&cfg, flags)

	if cfg.UseButtonLabel != "Use" || cfg.SQLiteQuery != "SELECT 1" {
		t.Errorf("unset flags must not override config: %+v", cfg)
	}
}
