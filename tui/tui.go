package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/ascension/cli"
	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the Ascension TUI.
type Model struct {
	engine *engine.Engine
	ctx    context.Context

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width     int
	height    int
	ready     bool
	trace     bool
	quitting  bool
	lastCmd   string
	narrating bool

	// narrated is the fight whose flavor text was last requested.
	narrated *types.Combat
}

// outputMsg carries text into the Update loop.
type outputMsg struct {
	input   string
	lines   []string
	entries []types.LogEntry
	kind    lineKind // for lines; entries are styled by source
}

// flavorMsg returns narration for the fight it was requested for.
type flavorMsg struct {
	combat *types.Combat
	text   string
}

// New creates a TUI model wired to the given engine. ctx bounds narration
// requests.
func New(ctx context.Context, eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		engine:  eng,
		ctx:     ctx,
		input:   ti,
		spinner: sp,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, eng *engine.Engine) error {
	m := New(ctx, eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the boot log and map.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	entries := m.engine.Log()
	look := m.engine.Step("look").Output
	return func() tea.Msg {
		return outputMsg{entries: entries, lines: look}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // 1 status bar + 1 input line

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)

	case flavorMsg:
		m.narrating = false
		// A fight that already ended keeps its log as it was.
		if msg.combat == m.engine.Run.Combat {
			before := len(m.engine.Run.Log)
			m.engine.RecordFlavor(msg.text)
			m = m.appendOutput(outputMsg{entries: m.engine.Log()[before:]})
		}
		return m, nil

	case spinner.TickMsg:
		if !m.narrating {
			return m, nil
		}
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{input: input, lines: []string{"Nothing to repeat."}, kind: kindMeta})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, kind: kindMeta})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(input)
	kind := kindPlain
	if result.Err != nil {
		kind = kindError
	}
	m = m.appendOutput(outputMsg{input: input, lines: result.Output, entries: result.Log, kind: kind})
	if m.engine.Over() {
		m = m.appendOutput(outputMsg{lines: []string{
			fmt.Sprintf("Run over: %s. Type /quit to exit.", m.engine.Run.Mode),
		}, kind: kindMeta})
	}
	cmd := m.narrate()
	return m, cmd
}

// narrate returns a command fetching flavor text for a fight that started
// since the last request, or nil.
func (m *Model) narrate() tea.Cmd {
	combat := m.engine.Run.Combat
	if combat == nil || combat == m.narrated {
		return nil
	}
	m.narrated = combat
	job := m.engine.Narration()
	if job == nil {
		return nil
	}
	m.narrating = true
	ctx := m.ctx
	fetch := func() tea.Msg {
		return flavorMsg{combat: combat, text: job(ctx)}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

// appendOutput adds lines to the log view and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, kind: kindInput})
	}
	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: msg.kind})
	}
	for _, e := range msg.entries {
		m.rawLines = append(m.rawLines, rawLine{text: cli.FormatEntry(e, m.trace), kind: entryKind(e)})
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, rl.kind.style().Width(width).Render(rl.text))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Booting..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return append(cli.HelpLines(m.engine), "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/state":
		return cli.StateLines(m.engine), false

	case "/export":
		return []string{cli.ExportMap(m.engine, arg)}, false

	case "/auto":
		msg, res := cli.ToggleAuto(m.engine)
		out := []string{msg}
		if res != nil {
			out = append(out, res.Output...)
			for _, e := range res.Log {
				out = append(out, cli.FormatEntry(e, m.trace))
			}
		}
		return out, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
