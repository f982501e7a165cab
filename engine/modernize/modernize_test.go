package modernize

import (
	"testing"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/state/statetest"
	"github.com/nathoo/ascension/types"
)

func setup(t *testing.T) (*types.Run, *state.Defs) {
	t.Helper()
	defs := statetest.Defs()
	run := statetest.NewRun(defs, "senior-engineer")
	statetest.Combat(run, defs, "dummy")
	run.Meter = defs.Rules.MeterMax
	return run, defs
}

func TestBegin_PrefersHand(t *testing.T) {
	run, defs := setup(t)
	run.Player.Hand = []types.Card{statetest.Card(run, defs, "compute-engine"), statetest.Card(run, defs, "ping")}
	run.Player.Deck = statetest.Cards(run, defs, "duct-tape", 2)

	m := Begin(run, statetest.NewRand(1))

	if m.Location != types.PileHand || m.CardID != run.Player.Hand[1].ID {
		t.Errorf("announcement = %+v", m)
	}
}

func TestBegin_FallsBackToDeckThenDiscard(t *testing.T) {
	run, defs := setup(t)
	run.Player.Hand = statetest.Cards(run, defs, "compute-engine", 1)
	run.Player.Discard = statetest.Cards(run, defs, "ping", 1)

	if m := Begin(run, statetest.NewRand(1)); m.Location != types.PileDiscard {
		t.Errorf("location = %s, want DISCARD", m.Location)
	}

	run.Player.Deck = statetest.Cards(run, defs, "duct-tape", 1)
	if m := Begin(run, statetest.NewRand(1)); m.Location != types.PileDeck {
		t.Errorf("location = %s, want DECK", m.Location)
	}
}

func TestCommit_ReplacesHandCardInPlace(t *testing.T) {
	run, defs := setup(t)
	run.Player.Hand = []types.Card{statetest.Card(run, defs, "compute-engine"), statetest.Card(run, defs, "ping")}
	rng := statetest.NewRand(1)
	rng.Ints = []int{0, 50, 0}

	m := Begin(run, rng)
	fresh := Commit(run, defs, rng, m)

	if fresh == nil {
		t.Fatal("expected a replacement")
	}
	if len(run.Player.Hand) != 2 {
		t.Fatalf("hand = %v", run.Player.Hand)
	}
	if run.Player.Hand[0].CardDef.ID != "compute-engine" {
		t.Error("non-target card should stay put")
	}
	if run.Player.Hand[1].ID != fresh.ID || fresh.Category != types.CategoryCloud {
		t.Errorf("slot 1 = %+v", run.Player.Hand[1])
	}
	if fresh.TempCost == nil || *fresh.TempCost != 0 {
		t.Error("modernized card should be free this turn")
	}
	if run.Meter != 0 {
		t.Errorf("meter = %d, want 0", run.Meter)
	}
}

func TestCommit_DeckTargetGoesToHand(t *testing.T) {
	run, defs := setup(t)
	run.Player.Deck = statetest.Cards(run, defs, "duct-tape", 2)
	rng := statetest.NewRand(1)

	m := Begin(run, rng)
	Commit(run, defs, rng, m)

	if len(run.Player.Deck) != 1 || len(run.Player.Hand) != 1 {
		t.Errorf("deck=%d hand=%d, want 1/1", len(run.Player.Deck), len(run.Player.Hand))
	}
	if run.Player.Hand[0].Category == types.CategoryLegacy {
		t.Error("new card should be modern")
	}
}

func TestCommit_RareRollUsesVertex(t *testing.T) {
	run, defs := setup(t)
	run.Player.Hand = statetest.Cards(run, defs, "ping", 1)
	rng := statetest.NewRand(1)
	rng.Ints = []int{0, 5}

	fresh := Commit(run, defs, rng, Begin(run, rng))

	if fresh == nil || fresh.Category != types.CategoryVertex {
		t.Errorf("fresh = %+v, want vertex", fresh)
	}
}

func TestCommit_StaleTargetReplacedBySubstitute(t *testing.T) {
	run, defs := setup(t)
	run.Player.Hand = statetest.Cards(run, defs, "ping", 1)
	rng := statetest.NewRand(1)
	m := Begin(run, rng)

	// The target left play before the commit.
	run.Player.Hand = nil
	run.Player.Discard = statetest.Cards(run, defs, "duct-tape", 1)

	if fresh := Commit(run, defs, rng, m); fresh == nil {
		t.Fatal("a substitute legacy card should be modernized")
	}
	if len(run.Player.Discard) != 0 || len(run.Player.Hand) != 1 {
		t.Errorf("discard=%d hand=%d", len(run.Player.Discard), len(run.Player.Hand))
	}
}

func TestCommit_FallbackHeal(t *testing.T) {
	run, defs := setup(t)
	run.Player.HP = 20
	run.Player.Hand = statetest.Cards(run, defs, "compute-engine", 2)
	rng := statetest.NewRand(1)

	m := Begin(run, rng)
	if m.Location != types.PileNone {
		t.Fatalf("location = %s, want NONE", m.Location)
	}
	if fresh := Commit(run, defs, rng, m); fresh != nil {
		t.Error("no card should be created")
	}
	if run.Player.HP != 25 || run.Meter != 0 {
		t.Errorf("hp=%d meter=%d, want 25/0", run.Player.HP, run.Meter)
	}
}
