package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cycleScenario = "testdata/cycle.json"

// TestParseRunArgs_Defaults tests that a bare scenario gets the defaults.
func TestParseRunArgs_Defaults(t *testing.T) {
	cfg, err := parseRunArgs([]string{"s.json"})
	if err != nil {
		t.Fatalf("parseRunArgs() error: %v", err)
	}
	if cfg.scenario != "s.json" || cfg.ticks != 300 || cfg.churn != 20 || cfg.frame != 16 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.pause != -1 || cfg.stepMul != -1 {
		t.Errorf("overrides set by default: pause=%d stepmul=%d", cfg.pause, cfg.stepMul)
	}
}

// TestParseRunArgs_Errors tests rejected argument lists.
func TestParseRunArgs_Errors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"a.json", "b.json"},
		{"-ticks", "x", "a.json"},
		{"-churn", "-1", "a.json"},
		{"-bogus", "a.json"},
	} {
		if _, err := parseRunArgs(args); err == nil {
			t.Errorf("parseRunArgs(%q) succeeded, want error", args)
		}
	}
}

// TestSimulate runs a short host loop with invariant checks enabled.
func TestSimulate(t *testing.T) {
	t.Setenv(envOptions, "verify=1,threshold=4096")

	cfg, err := parseRunArgs([]string{"-ticks", "200", "-churn", "10", "-sectors", "40", "-sides", "300", "-actors", "8", "-v", cycleScenario})
	if err != nil {
		t.Fatal(err)
	}
	var out, logs bytes.Buffer
	if err := simulate(cfg, &out, &logs); err != nil {
		t.Fatalf("simulate() error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "200 ticks") {
		t.Errorf("missing summary:\n%s", text)
	}
	if strings.Contains(text, " 0 cycles") {
		t.Errorf("no cycle completed:\n%s", text)
	}
	// Scenario objects 1-4, 7 and 8 survive; 5, 6 and 9 do not.
	if !strings.Contains(text, "actors:8") || !strings.Contains(text, "scenario live 6") {
		t.Errorf("unexpected final state:\n%s", text)
	}
	if !strings.Contains(logs.String(), "gc cycle start") {
		t.Error("debug log missing cycle start")
	}
}

func TestSimulateBadEnv(t *testing.T) {
	t.Setenv(envOptions, "pause=zero")
	cfg := &runConfig{scenario: cycleScenario, pause: -1, stepMul: -1}
	if err := simulate(cfg, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("simulate() accepted a bad OBJGC value")
	}
}

func TestSimulateMissingScenario(t *testing.T) {
	cfg := &runConfig{scenario: filepath.Join(t.TempDir(), "none.json"), pause: -1, stepMul: -1}
	if err := simulate(cfg, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("simulate() succeeded without a scenario")
	}
}

func newTestSession(t *testing.T) *session {
	t.Helper()
	opts, err := loadOptions(false, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	opts.Verify = true
	s, err := newSession(cycleScenario, opts, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestREPL drives the console through a full cycle by hand.
func TestREPL(t *testing.T) {
	s := newTestSession(t)
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "heap.png")
	jsonPath := filepath.Join(dir, "live.json")

	input := strings.Join([]string{
		"single",
		"gray",
		"verify",
		"render " + pngPath,
		"gc full",
		"gc count",
		"save " + jsonPath,
		"step 2",
		"bogus",
		"step zero",
		"quit",
		"stat",
	}, "\n")

	var out bytes.Buffer
	if err := repl(s, strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("repl() error: %v", err)
	}
	text := out.String()

	for _, want := range []string{
		"[Propagate]",
		"1:level",
		"ok\n",
		"wrote " + pngPath,
		"active objects counted",
		"wrote " + jsonPath,
		`unknown command "bogus"`,
		"step: bad count",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.DecodeConfig(f); err != nil {
		t.Errorf("render wrote an invalid PNG: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": "v1.0.0"`) {
		t.Errorf("saved scenario lacks a version:\n%s", data)
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "r.png")
	cfg, err := parseRenderArgs([]string{"-steps", "3", "-o", out, "-width", "400", "-height", "300", cycleScenario})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := renderScenario(cfg, &buf); err != nil {
		t.Fatalf("renderScenario() error: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	c, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 400 || c.Height != 300 {
		t.Errorf("size = %dx%d, want 400x300", c.Width, c.Height)
	}
}

func TestParseRenderArgs_Errors(t *testing.T) {
	for _, args := range [][]string{{}, {"-steps", "-2", "a.json"}} {
		if _, err := parseRenderArgs(args); err == nil {
			t.Errorf("parseRenderArgs(%q) succeeded, want error", args)
		}
	}
}
