// Package resolve maps references typed by a player (a position, a name,
// or an id) to card instance ids, map node ids, and option indexes.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/ascension/types"
)

// AmbiguityError indicates multiple distinct things matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Name  string
	Where string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %q in %s", e.Name, e.Where)
}

// Card resolves a reference to a card instance id within pile. A number is
// a 1-based position; otherwise the instance id, the template id, or the
// card name is matched case-insensitively. Copies of the same card are
// interchangeable, so only differently named matches are ambiguous.
func Card(pile []types.Card, ref, where string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &NotFoundError{Name: ref, Where: where}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(pile) {
			return "", &NotFoundError{Name: ref, Where: where}
		}
		return pile[n-1].ID, nil
	}

	refLower := strings.ToLower(ref)

	// 1. Exact instance id.
	for _, c := range pile {
		if strings.ToLower(c.ID) == refLower {
			return c.ID, nil
		}
	}

	// 2. Exact name or template id.
	for _, c := range pile {
		if strings.ToLower(c.Name) == refLower || matchesID(c.CardDef.ID, refLower) {
			return c.ID, nil
		}
	}

	// 3. Word-based partial match: "tape" matches "Duct Tape".
	var matches []types.Card
	var names []string
	seen := map[string]bool{}
	for _, c := range pile {
		if !matchesWord(c.Name, refLower) {
			continue
		}
		matches = append(matches, c)
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}

	switch {
	case len(matches) == 0:
		return "", &NotFoundError{Name: ref, Where: where}
	case len(names) == 1:
		return matches[0].ID, nil
	default:
		return "", &AmbiguityError{Name: ref, Candidates: names}
	}
}

// Node resolves a reference to a map node id among the selectable nodes.
// A number is a 1-based position in avail; otherwise the node id or a node
// type ("shop", "elite") is matched case-insensitively.
func Node(avail []types.MapNode, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(avail) {
			return "", &NotFoundError{Name: ref, Where: "available nodes"}
		}
		return avail[n-1].ID, nil
	}

	refLower := strings.ToLower(ref)
	for _, n := range avail {
		if strings.ToLower(n.ID) == refLower {
			return n.ID, nil
		}
	}

	var matches []string
	for _, n := range avail {
		if strings.ToLower(string(n.Type)) == refLower {
			matches = append(matches, n.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: ref, Where: "available nodes"}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: ref, Candidates: matches}
	}
}

// Index converts a 1-based option number into a 0-based index below n.
func Index(ref string, n int, where string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || i < 1 || i > n {
		return 0, &NotFoundError{Name: ref, Where: where}
	}
	return i - 1, nil
}

// matchesID checks a template id, accepting spaces for dashes:
// "duct tape" matches "duct-tape".
func matchesID(id, refLower string) bool {
	idLower := strings.ToLower(id)
	return idLower == refLower || strings.ReplaceAll(refLower, " ", "-") == idLower
}

// matchesWord reports whether every query word appears in the name.
func matchesWord(name, refLower string) bool {
	words := strings.Fields(strings.ToLower(name))
	for _, q := range strings.Fields(refLower) {
		found := false
		for _, w := range words {
			if w == q || strings.TrimSuffix(w, "+") == q {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
