// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/ascension/types"
)

var verbAliases = map[string]string{
	// Combat
	"p":        "play",
	"use":      "play",
	"cast":     "play",
	"run":      "play",
	"deploy":   "play",
	"e":        "end",
	"pass":     "end",
	"wait":     "end",
	"c":        "commit",
	"continue": "commit",
	"ok":       "commit",
	"next":     "commit",

	// Map
	"visit":  "go",
	"travel": "go",
	"move":   "go",
	"node":   "go",
	"route":  "go",

	// Events
	"option": "choose",
	"opt":    "choose",
	"select": "choose",

	// Shop
	"purchase": "buy",
	"purge":    "remove",
	"delete":   "remove",
	"exit":     "leave",
	"done":     "leave",

	// Reward
	"take": "pick",
	"grab": "pick",

	// Info
	"s":         "status",
	"stats":     "status",
	"h":         "hand",
	"d":         "deck",
	"library":   "deck",
	"m":         "map",
	"l":         "look",
	"intent":    "look",
	"inspect":   "examine",
	"x":         "examine",
	"check":     "examine",
	"describe":  "examine",
	"?":         "help",
	"commands":  "help",
	"inventory": "relics",
	"i":         "relics",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "against": true, "for": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare number: shorthand for "play <n>".
	if len(words) == 1 && isNumber(words[0]) {
		return types.Intent{Verb: "play", Object: words[0]}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := words[1:]

	// Strip articles ("the", "a", "an").
	rest = stripArticles(rest)

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "end turn", "play card", "buy card" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "end", "finish":
		if words[1] == "turn" {
			return append([]string{"end"}, words[2:]...)
		}
	case "play", "p", "use":
		if words[1] == "card" {
			return append([]string{"play"}, words[2:]...)
		}
	case "buy", "purchase":
		if words[1] == "card" {
			return append([]string{"buy"}, words[2:]...)
		}
	case "remove", "purge":
		if words[1] == "card" {
			return append([]string{"remove"}, words[2:]...)
		}
	case "go", "travel":
		if words[1] == "to" {
			return append([]string{"go"}, words[2:]...)
		}
	case "look", "show":
		if words[1] == "at" {
			return append([]string{"examine"}, words[2:]...)
		}
		if words[1] == "hand" || words[1] == "deck" || words[1] == "map" || words[1] == "relics" {
			return append([]string{words[1]}, words[2:]...)
		}
	case "leave", "exit":
		if words[1] == "shop" {
			return []string{"leave"}
		}
	case "skip":
		if words[1] == "reward" {
			return []string{"skip"}
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
