// Package tui provides a Bubble Tea terminal UI for the Ascension engine.
package tui

import "strings"

// History is a bounded command history. Recall walks older entries that
// start with the text typed before the first Prev, so "pl" then Up cycles
// through recent plays only.
type History struct {
	entries []string
	max     int
	cursor  int    // -1 when not navigating
	prefix  string // filter captured when navigation began
}

// NewHistory creates a history buffer holding at most max commands.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Push records a command. A repeat of the newest entry is dropped.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Prev returns the next older entry matching the prefix typed when
// navigation began. It stays on the oldest match at the boundary.
func (h *History) Prev(typed string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = typed
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor < len(h.entries) {
		return h.entries[h.cursor], true
	}
	h.cursor = -1
	return "", false
}

// Next returns the next newer matching entry. Past the newest it stops
// navigating and hands back the original typed prefix.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	prefix := h.prefix
	h.ResetCursor()
	return prefix, false
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix = ""
}
