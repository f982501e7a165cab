package state_test

import (
	"testing"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/state/statetest"
	"github.com/nathoo/ascension/types"
)

func TestNewRun(t *testing.T) {
	defs := statetest.Defs()
	run := state.NewRun(defs, "data-scientist", 42, "run-1")

	if run.ID != "run-1" || run.Seed != 42 {
		t.Errorf("unexpected identity %q/%d", run.ID, run.Seed)
	}
	if run.Act != 1 || run.Mode != types.ModeMap {
		t.Errorf("expected act 1 MAP, got %d %s", run.Act, run.Mode)
	}
	p := run.Player
	if p.HP != 50 || p.MaxHP != 50 || p.Gold != 99 || p.MaxEnergy != 3 {
		t.Errorf("unexpected starting stats: %+v", p)
	}
	if len(p.Relics) != 1 || p.Relics[0] != "the-algorithm" {
		t.Errorf("expected the class relic, got %v", p.Relics)
	}
	if len(p.Deck) != 12 {
		t.Fatalf("expected 12 starter cards, got %d", len(p.Deck))
	}
	if p.Deck[0].CardDef.ID != "percussive-maintenance" {
		t.Errorf("expected authoring order, first card %s", p.Deck[0].CardDef.ID)
	}
	seen := map[string]bool{}
	for _, c := range p.Deck {
		if seen[c.ID] {
			t.Errorf("duplicate instance id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestNewRun_UnknownClassFallsBack(t *testing.T) {
	run := state.NewRun(statetest.Defs(), "bard", 1, "run-1")

	if run.Player.Class != "data-scientist" {
		t.Errorf("expected the alphabetically first class, got %s", run.Player.Class)
	}
	if len(run.Log) != 1 || run.Log[0].Severity != types.SeverityWarning {
		t.Errorf("expected one warning, got %+v", run.Log)
	}
}

func TestLookups_FallBack(t *testing.T) {
	defs := statetest.Defs()

	if def, ok := state.LookupCard(defs, "ping"); !ok || def.Name != "Ping" {
		t.Errorf("LookupCard(ping) = %s, %v", def.Name, ok)
	}
	if def, ok := state.LookupCard(defs, "nope"); ok || def.ID != "ping" {
		t.Errorf("expected fallback to the first card, got %s, %v", def.ID, ok)
	}
	if def, ok := state.LookupEnemy(defs, "nope", 2); ok || def.Act != 2 {
		t.Errorf("expected an act 2 fallback, got %s act %d", def.ID, def.Act)
	}
	empty := &state.Defs{}
	if def, ok := state.LookupEnemy(empty, "ghost", 1); ok || def.MaxHP != 1 {
		t.Errorf("expected a placeholder enemy, got %+v", def)
	}
}

func TestNewCardByID_UnknownLogs(t *testing.T) {
	defs := statetest.Defs()
	run := statetest.NewRun(defs, "senior-engineer")
	before := len(run.Log)

	c := state.NewCardByID(run, defs, "nope")
	if c.CardDef.ID != "ping" {
		t.Errorf("expected substitute ping, got %s", c.CardDef.ID)
	}
	if len(run.Log) != before+1 {
		t.Error("expected a content-gap log entry")
	}
}

func TestCardPool(t *testing.T) {
	defs := statetest.Defs()

	for _, def := range state.CardPool(defs, types.CategoryCloud, types.CategoryVertex) {
		if def.Category == types.CategoryLegacy {
			t.Errorf("legacy card %s pooled", def.ID)
		}
		if def.Type == types.CardStatus || def.Type == types.CardCurse {
			t.Errorf("%s card %s pooled", def.Type, def.ID)
		}
	}
	vertex := state.CardPool(defs, types.CategoryVertex)
	if len(vertex) != 4 || vertex[0].ID != "the-prompt" {
		t.Errorf("expected 4 vertex cards in authoring order, got %d", len(vertex))
	}
}

func TestLog(t *testing.T) {
	run := statetest.NewRun(statetest.Defs(), "senior-engineer")
	run.Combat = &types.Combat{Turn: 3}

	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Dealt %d damage.", 7)
	state.Log(run, types.SeverityInfo, types.SourceSystem, "again")

	n := len(run.Log)
	last, prev := run.Log[n-1], run.Log[n-2]
	if prev.Message != "Dealt 7 damage." || prev.Turn != 3 || prev.Source != types.SourcePlayer {
		t.Errorf("unexpected entry %+v", prev)
	}
	if last.Seq != prev.Seq+1 {
		t.Errorf("expected monotonic seq, got %d then %d", prev.Seq, last.Seq)
	}
}

func TestHurtAndHeal(t *testing.T) {
	run := statetest.NewRun(statetest.Defs(), "senior-engineer")

	if n := state.HurtPlayer(run, 60); n != 50 || run.Player.HP != 0 {
		t.Errorf("HurtPlayer floored: lost %d, hp %d", n, run.Player.HP)
	}
	if n := state.HealPlayer(run, 70); n != 50 || run.Player.HP != 50 {
		t.Errorf("HealPlayer capped: healed %d, hp %d", n, run.Player.HP)
	}
	if state.HurtPlayer(run, -3) != 0 || state.HealPlayer(run, 0) != 0 {
		t.Error("non-positive amounts must be no-ops")
	}
}

func TestPowers(t *testing.T) {
	run := statetest.NewRun(statetest.Defs(), "senior-engineer")
	run.Player.Powers = []types.Power{{ID: "reflect"}, {ID: "dataflow"}, {ID: "reflect"}}

	if got := state.PowerStacks(run, "reflect"); got != 2 {
		t.Errorf("expected 2 reflect stacks, got %d", got)
	}
	state.RemovePowers(run, "reflect")
	if len(run.Player.Powers) != 1 || run.Player.Powers[0].ID != "dataflow" {
		t.Errorf("unexpected powers after removal: %+v", run.Player.Powers)
	}
}

func TestPileHelpers(t *testing.T) {
	defs := statetest.Defs()
	run := statetest.NewRun(defs, "senior-engineer")
	pile := statetest.Cards(run, defs, "ping", 3)
	mid := pile[1].ID

	if state.IndexOf(pile, mid) != 1 || state.IndexOf(pile, "nope") != -1 {
		t.Error("IndexOf mismatch")
	}
	pile, c, ok := state.Take(pile, mid)
	if !ok || c.ID != mid || len(pile) != 2 {
		t.Errorf("Take: ok=%v id=%s len=%d", ok, c.ID, len(pile))
	}
	if _, _, ok := state.Take(pile, mid); ok {
		t.Error("Take of a missing card must report false")
	}
	pile, c = state.TakeAt(pile, 0)
	if len(pile) != 1 || c.CardDef.ID != "ping" {
		t.Errorf("TakeAt: len=%d card=%s", len(pile), c.CardDef.ID)
	}
}

func TestTheme(t *testing.T) {
	for act, want := range map[int]string{
		1: "The Dusty Server Closet",
		2: "Lift & Shift Limbo",
		3: "The Vertex Vanguard",
	} {
		if got := state.Theme(act); got != want {
			t.Errorf("Theme(%d) = %q, want %q", act, got, want)
		}
	}
}
