package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/engine/state/statetest"
	"github.com/nathoo/ascension/narrative"
	"github.com/nathoo/ascension/types"
)

func newTestCLI(t *testing.T, input string, opts ...engine.Option) (*CLI, *bytes.Buffer) {
	t.Helper()
	base := []engine.Option{engine.WithClass("senior-engineer"), engine.WithSeed(3), engine.WithRunID("test-run")}
	eng, err := engine.New(statetest.Defs(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

// battleMap replaces the act map with one battle node followed by a rest.
func battleMap(e *engine.Engine) {
	e.Run.Map = &types.Map{Act: 1, Layers: []types.MapLayer{
		{Nodes: []types.MapNode{{ID: "L0-N0", Type: types.NodeBattle, Status: types.NodeAvailable, Next: []string{"L1-N0"}, X: 50}}},
		{Nodes: []types.MapNode{{ID: "L1-N0", Layer: 1, Type: types.NodeRest, Status: types.NodeLocked, Parents: []string{"L0-N0"}, X: 50}}},
	}}
}

func TestCLI_BootLogAndMap(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "System boot: Senior Engineer online.") {
		t.Error("expected boot line in output")
	}
	if !strings.Contains(output, "Act 1 map") {
		t.Error("expected the act map after boot")
	}
}

func TestCLI_EnterCombatNarratesOnce(t *testing.T) {
	c, out := newTestCLI(t, "go 1\nlook\nstatus\n/quit\n",
		engine.WithNarrator(narrative.NewStatic(), time.Second))
	battleMap(c.Engine)
	c.Run(context.Background())

	output := out.String()
	if c.Engine.Run.Mode != types.ModeCombat {
		t.Fatalf("expected combat, got %s", c.Engine.Run.Mode)
	}
	if n := strings.Count(output, "~ The fans spin up."); n != 1 {
		t.Errorf("expected one narration line, got %d", n)
	}
	if !strings.Contains(output, "Intent:") {
		t.Error("expected look to show the enemy intent")
	}
}

func TestCLI_RunOverStopsLoop(t *testing.T) {
	c, out := newTestCLI(t, "end\nstatus\n")
	statetest.Combat(c.Engine.Run, c.Engine.Defs, "dummy")
	c.Engine.Run.Player.HP = 1
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Run over: RUN_LOST.") {
		t.Errorf("expected run over message, got:\n%s", output)
	}
	if strings.Contains(output, "HP 0/") {
		t.Error("status should not run after the run ended")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{"/quit", "/export", "/auto", "play <n|name>"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_ExportMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.pdf")
	c, out := newTestCLI(t, "/export "+path+"\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Map written to") {
		t.Fatalf("expected export confirmation, got:\n%s", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("export is not a PDF")
	}
}

func TestCLI_AutoToggle(t *testing.T) {
	c, out := newTestCLI(t, "/auto\n/quit\n")
	c.Run(context.Background())

	if c.Engine.AutoCommit {
		t.Error("expected auto-commit to be off after toggling")
	}
	if !strings.Contains(out.String(), "Auto-commit disabled") {
		t.Error("expected toggle message")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\n/trace\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Run: test-run (seed 3)") {
		t.Error("expected run id and seed in state output")
	}
	if !strings.Contains(output, "Mode: MAP") {
		t.Error("expected mode in state output")
	}
}

func TestCLI_EmptyInput(t *testing.T) {
	c, out := newTestCLI(t, "\n\n/quit\n")
	c.Run(context.Background())

	if strings.Contains(out.String(), "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "relics\nagain\ng\n/quit\n")
	c.Run(context.Background())

	if n := strings.Count(out.String(), "Hotfix Script:"); n != 3 {
		t.Errorf("expected relic line 3 times, got %d", n)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		entry types.LogEntry
		trace bool
		want  string
	}{
		{types.LogEntry{Source: types.SourcePlayer, Message: "Deployed Ping."}, false, "Deployed Ping."},
		{types.LogEntry{Source: types.SourceEnemy, Message: "Dummy attacks."}, false, "<< Dummy attacks."},
		{types.LogEntry{Source: types.SourceModernizer, Message: "Refactored."}, false, "** Refactored."},
		{types.LogEntry{Source: types.SourceNarrator, Message: "Fans hum."}, false, "~ Fans hum."},
		{types.LogEntry{Seq: 4, Turn: 2, Severity: types.SeverityWarning, Source: types.SourceSystem, Message: "Hi."}, true,
			"#4 T2 WARNING  Hi."},
	}
	for _, tt := range tests {
		if got := FormatEntry(tt.entry, tt.trace); got != tt.want {
			t.Errorf("FormatEntry(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}
