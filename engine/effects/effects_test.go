package effects

import (
	"testing"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/state/statetest"
	"github.com/nathoo/ascension/types"
)

func testSetup(t *testing.T, class, enemyID string) (*types.Run, *state.Defs, *statetest.Rand) {
	t.Helper()
	defs := statetest.Defs()
	run := statetest.NewRun(defs, class)
	statetest.Combat(run, defs, enemyID)
	return run, defs, statetest.NewRand(1)
}

func play(run *types.Run, defs *state.Defs, rng state.Random, card types.Card) Outcome {
	return Resolve(Context{Run: run, Defs: defs, Rand: rng, Card: card})
}

func TestResolve_DamagePaysAndDiscards(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	card := statetest.Card(run, defs, "ping")

	out := play(run, defs, rng, card)

	if out.Dealt != 5 || run.Enemy.HP != 35 {
		t.Errorf("dealt=%d hp=%d, want 5/35", out.Dealt, run.Enemy.HP)
	}
	if run.Player.Energy != 2 {
		t.Errorf("energy = %d, want 2", run.Player.Energy)
	}
	if len(run.Player.Discard) != 1 || run.Player.Discard[0].ID != card.ID {
		t.Error("played card should be in discard")
	}
	if run.Combat.CardsPlayed != 1 || run.Combat.TypesPlayed[types.CardAttack] != 1 {
		t.Errorf("counters: played=%d types=%v", run.Combat.CardsPlayed, run.Combat.TypesPlayed)
	}
	if run.Counters["last_player_damage"] != 5 {
		t.Errorf("last damage = %d", run.Counters["last_player_damage"])
	}
}

func TestResolve_AlgorithmTripleAttack(t *testing.T) {
	run, defs, rng := testSetup(t, "data-scientist", "dummy")
	run.Player.Energy = 3

	var dealt []int
	for i := 0; i < 3; i++ {
		out := play(run, defs, rng, statetest.Card(run, defs, "ping"))
		dealt = append(dealt, out.Dealt)
	}

	want := []int{5, 5, 10}
	for i := range want {
		if dealt[i] != want[i] {
			t.Errorf("attack %d dealt %d, want %d", i+1, dealt[i], want[i])
		}
	}
	if run.Enemy.HP != 20 {
		t.Errorf("enemy hp = %d, want 20", run.Enemy.HP)
	}
}

func TestResolve_SkillsDoNotAdvanceAlgorithm(t *testing.T) {
	run, defs, rng := testSetup(t, "data-scientist", "dummy")
	run.Player.Energy = 10
	play(run, defs, rng, statetest.Card(run, defs, "ping"))
	play(run, defs, rng, statetest.Card(run, defs, "duct-tape"))
	out := play(run, defs, rng, statetest.Card(run, defs, "ping"))
	if out.Dealt != 5 {
		t.Errorf("second attack dealt %d, want 5", out.Dealt)
	}
}

func TestResolve_XCost(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Energy = 3
	run.Player.Deck = statetest.Cards(run, defs, "ping", 3)

	out := play(run, defs, rng, statetest.Card(run, defs, "multimodal"))

	if out.Cost != 3 || run.Player.Energy != 0 {
		t.Errorf("cost=%d energy=%d, want 3/0", out.Cost, run.Player.Energy)
	}
	if out.Damage != 30 || run.Player.Block != 15 || len(run.Player.Hand) != 1 {
		t.Errorf("damage=%d block=%d hand=%d, want 30/15/1", out.Damage, run.Player.Block, len(run.Player.Hand))
	}
}

func TestResolve_VariableDamage(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	rng.Ints = []int{4}
	out := play(run, defs, rng, statetest.Card(run, defs, "spaghetti-code"))
	if out.Damage != 8 {
		t.Errorf("damage = %d, want 8", out.Damage)
	}
}

func TestResolve_PerDiscard(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Enemy.HP = 100
	run.Player.Discard = statetest.Cards(run, defs, "ping", 3)
	out := play(run, defs, rng, statetest.Card(run, defs, "bigquery-blast"))
	if out.Damage != 30 {
		t.Errorf("damage = %d, want 30", out.Damage)
	}
}

func TestResolve_FakeHealHurts(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.HP = 30
	play(run, defs, rng, statetest.Card(run, defs, "cloud-healing"))
	if run.Player.HP != 20 {
		t.Errorf("hp = %d, want 20", run.Player.HP)
	}
}

func TestResolve_HealCapsAtMax(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.HP = 49
	play(run, defs, rng, statetest.Card(run, defs, "reboot"))
	if run.Player.HP != 50 {
		t.Errorf("hp = %d, want 50", run.Player.HP)
	}
}

func TestResolve_Cleanse(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Hand = append(statetest.Cards(run, defs, "jitters", 2), statetest.Card(run, defs, "ping"))

	play(run, defs, rng, statetest.Card(run, defs, "iam-policy"))

	if len(run.Player.Hand) != 1 || run.Player.Hand[0].CardDef.ID != "ping" {
		t.Errorf("hand = %v", run.Player.Hand)
	}
	if len(run.Player.Exhaust) != 2 {
		t.Errorf("exhaust = %d, want 2", len(run.Player.Exhaust))
	}
}

func TestResolve_UpgradeHandThenBonusSynthesized(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Energy = 10
	run.Player.Hand = []types.Card{statetest.Card(run, defs, "looker-dashboard")}

	play(run, defs, rng, statetest.Card(run, defs, "model-fine-tuning"))

	upgraded := run.Player.Hand[0]
	if upgraded.BonusDamage != 3 || upgraded.BonusBlock != 3 || upgraded.Name != "Looker Dashboard+" {
		t.Fatalf("upgraded = %+v", upgraded)
	}

	// Looker has no damage or block effect; the bonuses still apply.
	run.Player.Hand = nil
	out := play(run, defs, rng, upgraded)
	if out.Damage != 3 || run.Player.Block != 3 {
		t.Errorf("damage=%d block=%d, want 3/3", out.Damage, run.Player.Block)
	}
}

func TestEffective_SynthesizedAtCanonicalPosition(t *testing.T) {
	defs := statetest.Defs()
	card := types.Card{ID: "x", CardDef: defs.Cards["coffee-break"], BonusDamage: 3}
	effs := Effective(card)
	if len(effs) != 3 || effs[0].Kind != types.EffectDamage || effs[0].Amount != 0 {
		t.Errorf("effects = %+v", effs)
	}
}

func TestCanonical_StableOrder(t *testing.T) {
	in := []types.Effect{
		{Kind: types.EffectDiscardHand},
		{Kind: types.EffectDraw, Amount: 4},
		{Kind: types.EffectDamage, Amount: 1},
		{Kind: types.EffectDamage, Amount: 2},
	}
	got := Canonical(in)
	want := []types.EffectKind{types.EffectDamage, types.EffectDamage, types.EffectDraw, types.EffectDiscardHand}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Fatalf("order = %+v", got)
		}
	}
	if got[0].Amount != 1 || got[1].Amount != 2 {
		t.Error("equal kinds must keep their relative order")
	}
	if in[0].Kind != types.EffectDiscardHand {
		t.Error("input must not be mutated")
	}
}

func TestResolve_LoadBalancerDrawsThenDiscards(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Deck = statetest.Cards(run, defs, "ping", 6)
	run.Player.Hand = statetest.Cards(run, defs, "duct-tape", 2)

	play(run, defs, rng, statetest.Card(run, defs, "load-balancer"))

	if len(run.Player.Hand) != 0 {
		t.Errorf("hand = %d, want 0", len(run.Player.Hand))
	}
	if len(run.Player.Discard) != 7 {
		t.Errorf("discard = %d, want 7 (2 held + 4 drawn + played)", len(run.Player.Discard))
	}
}

func TestResolve_Scry(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Deck = statetest.Cards(run, defs, "ping", 5)

	play(run, defs, rng, statetest.Card(run, defs, "looker-dashboard"))

	if len(run.Player.Hand) != 1 || len(run.Player.Discard) != 3 {
		t.Errorf("hand=%d discard=%d, want 1/3", len(run.Player.Hand), len(run.Player.Discard))
	}
}

func TestResolve_PlayFromDiscardIsFree(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	old := statetest.Card(run, defs, "compute-engine")
	run.Player.Discard = []types.Card{old}

	play(run, defs, rng, statetest.Card(run, defs, "anthos-hybrid"))

	if len(run.Player.Hand) != 1 || run.Player.Hand[0].ID != old.ID {
		t.Fatalf("hand = %v", run.Player.Hand)
	}
	if tc := run.Player.Hand[0].TempCost; tc == nil || *tc != 0 {
		t.Error("restored card should cost 0 this turn")
	}
	if EffectiveCost(run, run.Player.Hand[0]) != 0 {
		t.Error("effective cost should honor the temp cost")
	}
}

func TestResolve_PowerAndOpsSuite(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.HP = 40
	run.Player.Energy = 10

	play(run, defs, rng, statetest.Card(run, defs, "operations-suite"))
	if run.Player.HP != 42 {
		t.Errorf("hp after ops suite = %d, want 42", run.Player.HP)
	}
	play(run, defs, rng, statetest.Card(run, defs, "dataflow"))
	if run.Player.HP != 44 {
		t.Errorf("hp after second power = %d, want 44", run.Player.HP)
	}
	if len(run.Player.Powers) != 2 {
		t.Errorf("powers = %d, want 2", len(run.Player.Powers))
	}
}

func TestResolve_GenerateCard(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")

	play(run, defs, rng, statetest.Card(run, defs, "the-prompt"))

	if len(run.Player.Hand) != 1 {
		t.Fatalf("hand = %d, want 1", len(run.Player.Hand))
	}
	c := run.Player.Hand[0]
	if c.Category != types.CategoryCloud || c.Cost != 0 || c.TempCost == nil || *c.TempCost != 0 {
		t.Errorf("generated = %+v", c)
	}
}

func TestResolve_CancelIntent(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Energy = 3

	play(run, defs, rng, statetest.Card(run, defs, "apigee"))

	if run.Enemy.Intent.Type != types.IntentDebuff || run.Enemy.Intent.Value != 0 {
		t.Errorf("intent = %+v", run.Enemy.Intent)
	}
	if len(run.Player.Exhaust) != 1 {
		t.Error("apigee should exhaust")
	}
}

func TestResolve_ThornsOnlyWhenDamageLands(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dust-bunny")
	run.Enemy.Block = 10

	play(run, defs, rng, statetest.Card(run, defs, "ping"))
	if run.Player.HP != 50 {
		t.Fatalf("fully blocked hit should not trigger thorns, hp=%d", run.Player.HP)
	}
	play(run, defs, rng, statetest.Card(run, defs, "percussive-maintenance"))
	if run.Player.HP != 47 {
		t.Errorf("hp = %d, want 47", run.Player.HP)
	}
}

func TestResolve_ExactKillCapturedAtHit(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "zombie-process")
	run.Enemy.HP = 5

	play(run, defs, rng, statetest.Card(run, defs, "ping"))

	if run.Enemy.HP != 0 || !run.Enemy.ExactKill {
		t.Errorf("hp=%d exact=%v", run.Enemy.HP, run.Enemy.ExactKill)
	}
}

func TestResolve_MeterCapsAndReportsFull(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Energy = 100
	run.Enemy.HP = 1000

	for i := 1; i <= 7; i++ {
		out := play(run, defs, rng, statetest.Card(run, defs, "ping"))
		if out.MeterFull != (i >= 6) {
			t.Errorf("play %d: full=%v", i, out.MeterFull)
		}
	}
	if run.Meter != 6 {
		t.Errorf("meter = %d, want 6", run.Meter)
	}
}

func TestResolve_EnergyFloor(t *testing.T) {
	run, defs, rng := testSetup(t, "senior-engineer", "dummy")
	run.Player.Energy = 1
	play(run, defs, rng, statetest.Card(run, defs, "bigquery-blast"))
	if run.Player.Energy != 0 {
		t.Errorf("energy = %d, want 0", run.Player.Energy)
	}
}

func TestPlayability(t *testing.T) {
	run, defs, _ := testSetup(t, "senior-engineer", "bottleneck")
	held := statetest.Card(run, defs, "hard-drive-spin")
	held.TurnsHeld = 1
	locked := statetest.Card(run, defs, "ping")
	locked.Locked = true

	tests := []struct {
		name      string
		card      types.Card
		energy    int
		played    int
		phase     types.Phase
		playable  bool
		canAfford bool
	}{
		{"plain", statetest.Card(run, defs, "ping"), 3, 0, types.PhasePlayerTurn, true, true},
		{"enemy turn", statetest.Card(run, defs, "ping"), 3, 0, types.PhaseEnemyTurn, false, true},
		{"unplayable", statetest.Card(run, defs, "latency"), 3, 0, types.PhasePlayerTurn, false, true},
		{"locked", locked, 3, 0, types.PhasePlayerTurn, false, true},
		{"too expensive", statetest.Card(run, defs, "bigquery-blast"), 1, 0, types.PhasePlayerTurn, false, false},
		{"x cost with no energy", statetest.Card(run, defs, "multimodal"), 0, 0, types.PhasePlayerTurn, true, true},
		{"not yet retained", statetest.Card(run, defs, "hard-drive-spin"), 3, 0, types.PhasePlayerTurn, false, true},
		{"retained", held, 3, 0, types.PhasePlayerTurn, true, true},
		{"bandwidth cap", statetest.Card(run, defs, "ping"), 3, 3, types.PhasePlayerTurn, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run.Player.Energy = tt.energy
			run.Combat.CardsPlayed = tt.played
			run.Combat.Phase = tt.phase
			got := Playability(run, tt.card)
			if got.Playable != tt.playable || got.CanAfford != tt.canAfford {
				t.Errorf("got %+v, want playable=%v canAfford=%v", got, tt.playable, tt.canAfford)
			}
			if !got.Playable && got.Reason == "" {
				t.Error("a refusal must carry a reason")
			}
		})
	}
}
