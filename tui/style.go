package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/ascension/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusDanger = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("203")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain      = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	stylePlayer     = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	styleEnemy      = lipgloss.NewStyle().Foreground(lipgloss.Color("209"))
	styleModernizer = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	styleNarrator   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Italic(true)
	styleSystem     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleCritical   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleError      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	stylePlayerEcho = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindPlayer
	kindEnemy
	kindModernizer
	kindNarrator
	kindCritical
	kindError
	kindMeta
	kindInput
)

// entryKind picks the style for a game log entry. Critical entries win
// over their source.
func entryKind(e types.LogEntry) lineKind {
	if e.Severity == types.SeverityCritical {
		return kindCritical
	}
	switch e.Source {
	case types.SourcePlayer:
		return kindPlayer
	case types.SourceEnemy:
		return kindEnemy
	case types.SourceModernizer:
		return kindModernizer
	case types.SourceNarrator:
		return kindNarrator
	}
	return kindPlain
}

func (k lineKind) style() lipgloss.Style {
	switch k {
	case kindPlayer:
		return stylePlayer
	case kindEnemy:
		return styleEnemy
	case kindModernizer:
		return styleModernizer
	case kindNarrator:
		return styleNarrator
	case kindCritical:
		return styleCritical
	case kindError:
		return styleError
	case kindMeta:
		return styleSystem
	case kindInput:
		return stylePlayerEcho
	}
	return stylePlain
}
