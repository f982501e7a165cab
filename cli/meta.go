package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/mapexport"
	"github.com/nathoo/ascension/types"
)

// The meta commands are shared by both front ends. Each returns plain
// lines; the caller decides how to style them.

// HelpLines lists the meta commands followed by the engine's own help.
func HelpLines(eng *engine.Engine) []string {
	help := []string{
		"System:",
		"  /quit          Exit game",
		"  /help          Show this help",
		"  /state         Debug: dump run state",
		"  /auto          Toggle auto-commit of enemy turns and modernization",
		"  /export [file] Write the act map as a PDF",
		"  /trace         Toggle log sequence and severity",
		"",
		"Game commands:",
	}
	help = append(help, eng.Step("help").Output...)
	return append(help, "  again (g)      Repeat your last command")
}

// StateLines dumps the run's bookkeeping for debugging.
func StateLines(eng *engine.Engine) []string {
	s := eng.Snapshot()
	out := []string{
		fmt.Sprintf("Run: %s (seed %d)", s.ID, s.Seed),
		fmt.Sprintf("Act %d: %s  Mode: %s  Node: %s", s.Act, s.Theme, s.Mode, s.CurrentNode),
		fmt.Sprintf("Meter: %d  Auto-commit: %v", s.Meter, eng.AutoCommit),
	}
	if s.Combat != nil {
		out = append(out, fmt.Sprintf("Turn %d  Phase %s  Cards played %d", s.Combat.Turn, s.Combat.Phase, s.Combat.CardsPlayed))
	}
	if len(s.Counters) > 0 {
		keys := make([]string, 0, len(s.Counters))
		for k := range s.Counters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%d", k, s.Counters[k])
		}
		out = append(out, "Counters: "+strings.Join(pairs, " "))
	}
	return out
}

// ExportMap writes the current act map to path as a PDF and reports the
// outcome. An empty path defaults to act<N>-map.pdf.
func ExportMap(eng *engine.Engine, path string) string {
	if path == "" {
		path = fmt.Sprintf("act%d-map.pdf", eng.Run.Act)
	}
	snap := eng.Snapshot()
	data, err := mapexport.PDF(snap.Map, snap.CurrentNode, fmt.Sprintf("Act %d: %s", snap.Act, snap.Theme))
	if err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	return fmt.Sprintf("Map written to %s.", path)
}

// ToggleAuto flips auto-commit. Turning it on commits whatever is
// pending, and that result is returned for display.
func ToggleAuto(eng *engine.Engine) (string, *types.Result) {
	eng.AutoCommit = !eng.AutoCommit
	if !eng.AutoCommit {
		return "Auto-commit disabled. Type commit to advance.", nil
	}
	if !eng.Pending() {
		return "Auto-commit enabled.", nil
	}
	res := eng.Step("commit")
	return "Auto-commit enabled.", &res
}
