// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Ascension engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat

	// combat is the fight last narrated, so each new one is narrated once.
	combat *types.Combat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It prints the boot log and the map, then
// loops: prompt → input → dispatch → output, until the run ends, the input
// runs dry or the player quits.
func (c *CLI) Run(ctx context.Context) {
	c.printEntries(c.Engine.Log())
	c.printResult(c.Engine.Step("look"))

	scanner := bufio.NewScanner(c.In)
	for !c.Engine.Over() {
		c.print(c.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		c.narrate(ctx)
	}

	if c.Engine.Over() {
		c.printSystem(fmt.Sprintf("Run over: %s.", c.Engine.Run.Mode))
	}
}

// prompt shows the phase the player is acting in.
func (c *CLI) prompt() string {
	run := c.Engine.Run
	if run.Combat != nil {
		if c.Engine.Pending() {
			return "commit> "
		}
		return fmt.Sprintf("[%d/%d hp %d en] > ", run.Player.HP, run.Player.MaxHP, run.Player.Energy)
	}
	return strings.ToLower(string(run.Mode)) + "> "
}

// narrate fetches flavor text once per fight. The CLI has no event loop,
// so the call blocks; the engine bounds it with its narrator timeout.
func (c *CLI) narrate(ctx context.Context) {
	run := c.Engine.Run
	if run.Combat == nil || run.Combat == c.combat {
		return
	}
	c.combat = run.Combat
	job := c.Engine.Narration()
	if job == nil {
		return
	}
	before := len(run.Log)
	c.Engine.RecordFlavor(job(ctx))
	c.printEntries(c.Engine.Log()[before:])
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		for _, line := range HelpLines(c.Engine) {
			c.printLine(line)
		}

	case "/state":
		for _, line := range StateLines(c.Engine) {
			c.printSystem(line)
		}

	case "/auto":
		msg, res := ToggleAuto(c.Engine)
		c.printSystem(msg)
		if res != nil {
			c.printResult(*res)
		}

	case "/export":
		c.printSystem(ExportMap(c.Engine, arg))

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
	c.printEntries(result.Log)
}

func (c *CLI) printEntries(entries []types.LogEntry) {
	for _, e := range entries {
		c.printLine(FormatEntry(e, c.Trace))
	}
}

// FormatEntry renders one game log entry. With trace on, the sequence
// number, turn and severity are prefixed.
func FormatEntry(e types.LogEntry, trace bool) string {
	line := e.Message
	switch e.Source {
	case types.SourceEnemy:
		line = "<< " + line
	case types.SourceModernizer:
		line = "** " + line
	case types.SourceNarrator:
		line = "~ " + line
	}
	if trace {
		line = fmt.Sprintf("#%d T%d %-8s %s", e.Seq, e.Turn, e.Severity, line)
	}
	return line
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
