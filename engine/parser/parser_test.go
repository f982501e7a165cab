package parser

import (
	"testing"

	"github.com/nathoo/ascension/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Basic verbs (no object)
		{
			name:  "end",
			input: "end",
			want:  types.Intent{Verb: "end"},
		},
		{
			name:  "status",
			input: "status",
			want:  types.Intent{Verb: "status"},
		},

		// Verb aliases
		{
			name:  "e → end",
			input: "e",
			want:  types.Intent{Verb: "end"},
		},
		{
			name:  "c → commit",
			input: "c",
			want:  types.Intent{Verb: "commit"},
		},
		{
			name:  "p ping → play ping",
			input: "p ping",
			want:  types.Intent{Verb: "play", Object: "ping"},
		},
		{
			name:  "use duct tape → play duct tape",
			input: "use duct tape",
			want:  types.Intent{Verb: "play", Object: "duct tape"},
		},
		{
			name:  "take 2 → pick 2",
			input: "take 2",
			want:  types.Intent{Verb: "pick", Object: "2"},
		},
		{
			name:  "purchase relic → buy relic",
			input: "purchase relic",
			want:  types.Intent{Verb: "buy", Object: "relic"},
		},
		{
			name:  "option 1 → choose 1",
			input: "option 1",
			want:  types.Intent{Verb: "choose", Object: "1"},
		},
		{
			name:  "s → status",
			input: "s",
			want:  types.Intent{Verb: "status"},
		},

		// Bare number
		{
			name:  "3 → play 3",
			input: "3",
			want:  types.Intent{Verb: "play", Object: "3"},
		},

		// Multi-word verbs
		{
			name:  "end turn",
			input: "end turn",
			want:  types.Intent{Verb: "end"},
		},
		{
			name:  "play card 2",
			input: "play card 2",
			want:  types.Intent{Verb: "play", Object: "2"},
		},
		{
			name:  "go to L3-N1",
			input: "go to L3-N1",
			want:  types.Intent{Verb: "go", Object: "l3-n1"},
		},
		{
			name:  "look at ping → examine",
			input: "look at ping",
			want:  types.Intent{Verb: "examine", Object: "ping"},
		},
		{
			name:  "show hand",
			input: "show hand",
			want:  types.Intent{Verb: "hand"},
		},
		{
			name:  "leave shop",
			input: "leave shop",
			want:  types.Intent{Verb: "leave"},
		},
		{
			name:  "skip reward",
			input: "skip reward",
			want:  types.Intent{Verb: "skip"},
		},
		{
			name:  "remove card legacy code",
			input: "remove card legacy code",
			want:  types.Intent{Verb: "remove", Object: "legacy code"},
		},

		// Preposition as delimiter
		{
			name:  "play ping on monolith",
			input: "play ping on monolith",
			want:  types.Intent{Verb: "play", Object: "ping", Target: "monolith"},
		},

		// Article stripping
		{
			name:  "play the prompt → article stripped",
			input: "play the prompt",
			want:  types.Intent{Verb: "play", Object: "prompt"},
		},

		// Case insensitivity
		{
			name:  "PLAY Compute Engine",
			input: "PLAY Compute Engine",
			want:  types.Intent{Verb: "play", Object: "compute engine"},
		},

		// Extra whitespace
		{
			name:  "extra spaces",
			input: "  go   L1-N0  ",
			want:  types.Intent{Verb: "go", Object: "l1-n0"},
		},

		// Unknown verb passes through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Object: "wildly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
