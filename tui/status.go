package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// statusParts returns the left and right halves of the status line. In
// combat the left side shows both combatants; elsewhere it shows where the
// run is.
func (m Model) statusParts() (string, string) {
	run := m.engine.Run
	p := run.Player

	right := fmt.Sprintf("%dG | A%d ", p.Gold, run.Act)
	if c := run.Combat; c != nil {
		right = fmt.Sprintf("%dG | T:%d ", p.Gold, c.Turn)
	}

	if run.Enemy == nil || run.Combat == nil {
		left := fmt.Sprintf(" HP %d/%d | %s | %s", p.HP, p.MaxHP, state.Theme(run.Act), run.Mode)
		return left, right
	}

	en := run.Enemy
	left := fmt.Sprintf(" HP %d/%d Blk %d En %d/%d Mtr %d/%d | %s %d/%d: %s",
		p.HP, p.MaxHP, p.Block, p.Energy, p.MaxEnergy, run.Meter, m.engine.Defs.Rules.MeterMax,
		en.Name, en.HP, en.MaxHP, engine.DescribeIntent(en.Intent))
	if m.engine.Pending() {
		left += " | commit"
	}
	if m.narrating {
		right = m.spinner.View() + " " + right
	}
	return left, right
}

// renderStatusBar produces a full-width inverted status line. It turns red
// when the telegraphed attack would be lethal through current block.
func (m Model) renderStatusBar() string {
	left, right := m.statusParts()

	// Drop the enemy half when the line does not fit.
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width {
		if i := strings.LastIndex(left, " | "); i > 0 {
			left = left[:i]
		}
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right

	style := styleStatusBar
	if lethal(m.engine.Run) {
		style = styleStatusDanger
	}
	return style.Width(m.width).Render(bar)
}

// lethal reports whether the enemy's shown attack would finish the player.
func lethal(run *types.Run) bool {
	if run.Enemy == nil || run.Combat == nil || run.Enemy.Intent.Type != types.IntentAttack {
		return false
	}
	return run.Enemy.Intent.Value-run.Player.Block >= run.Player.HP
}
