package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/ascension/engine/state/statetest"
	"github.com/nathoo/ascension/types"
)

func TestPickEvent_ActFilter(t *testing.T) {
	defs := statetest.Defs()
	for seed := int64(1); seed <= 30; seed++ {
		ev, ok := PickEvent(defs, 2, statetest.NewRand(seed))
		require.True(t, ok)
		assert.Contains(t, []int{0, 2}, ev.Act)
	}
}

func TestPickEvent_EmptyCatalog(t *testing.T) {
	defs := statetest.Defs()
	defs.Events = map[string]types.EventDef{}
	defs.EventOrder = nil
	_, ok := PickEvent(defs, 1, statetest.NewRand(1))
	assert.False(t, ok)
}

func withEvent(t *testing.T, opts ...types.EventOption) *types.Run {
	t.Helper()
	run, _ := setup(t)
	run.Event = &types.EventDef{ID: "test", Title: "Test", Options: opts}
	return run
}

func TestApplyEventOption_RiskFailure(t *testing.T) {
	run := withEvent(t, types.EventOption{Label: "Plug it in", EffectID: "gamble_usb", Risk: 0.5})
	defs := statetest.Defs()
	run.Player.HP = 10
	rng := statetest.NewRand(1)
	rng.Floats = []float64{0.1}
	deck := len(run.Player.Deck)

	res, err := ApplyEventOption(run, defs, rng, 0)

	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, 1, run.Player.HP, "risk damage never kills")
	assert.Len(t, run.Player.Deck, deck)
}

func TestApplyEventOption_RiskSuccess(t *testing.T) {
	run := withEvent(t, types.EventOption{Label: "Plug it in", EffectID: "gamble_usb", Risk: 0.5})
	defs := statetest.Defs()
	rng := statetest.NewRand(1)
	rng.Floats = []float64{0.9}
	deck := len(run.Player.Deck)

	res, err := ApplyEventOption(run, defs, rng, 0)

	require.NoError(t, err)
	assert.False(t, res.Failed)
	require.Len(t, run.Player.Deck, deck+1)
	assert.Equal(t, types.CategoryVertex, run.Player.Deck[deck].Category)
}

func TestApplyEventOption_Effects(t *testing.T) {
	tests := []struct {
		name  string
		opt   types.EventOption
		check func(t *testing.T, before, after types.Player)
	}{
		{"add curse gain gold", types.EventOption{EffectID: "add_curse_gain_gold", Value: 50, Card: "latency"},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.Gold+50, a.Gold)
				assert.Equal(t, "latency", a.Deck[len(a.Deck)-1].CardDef.ID)
			}},
		{"lose hp remove card", types.EventOption{EffectID: "lose_hp_remove_card", Value: 7},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP-7, a.HP)
				assert.Len(t, a.Deck, len(b.Deck)-1)
			}},
		{"leave", types.EventOption{EffectID: "leave"},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP, a.HP)
				assert.Len(t, a.Deck, len(b.Deck))
			}},
		{"damage upgrade", types.EventOption{EffectID: "damage_upgrade", Value: 5},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP-5, a.HP)
				bonus := 0
				for _, c := range a.Deck {
					bonus += c.BonusDamage
				}
				assert.Equal(t, 3, bonus)
			}},
		{"lose max hp gain gold", types.EventOption{EffectID: "lose_max_hp_gain_gold", Value: 100},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.MaxHP-10, a.MaxHP)
				assert.LessOrEqual(t, a.HP, a.MaxHP)
				assert.Equal(t, b.Gold+100, a.Gold)
			}},
		{"caffeine iv", types.EventOption{EffectID: "caffeine_iv", Value: 6},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP-6, a.HP)
				assert.Equal(t, b.MaxEnergy+1, a.MaxEnergy)
				assert.Len(t, a.Deck, len(b.Deck)+2)
			}},
		{"full heal add curse", types.EventOption{EffectID: "full_heal_add_curse", Card: "latency"},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, a.MaxHP, a.HP)
				assert.Len(t, a.Deck, len(b.Deck)+1)
			}},
		{"sacrifice hp cards", types.EventOption{EffectID: "sacrifice_hp_cards", Value: 0.25},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP-10, a.HP)
				assert.Len(t, a.Deck, len(b.Deck)+2)
			}},
		{"sacrifice gold duplicate", types.EventOption{EffectID: "sacrifice_gold_duplicate"},
			func(t *testing.T, b, a types.Player) {
				assert.Zero(t, a.Gold)
				require.Len(t, a.Deck, len(b.Deck)+1)
				dup := a.Deck[len(a.Deck)-1]
				for _, c := range b.Deck {
					assert.NotEqual(t, c.ID, dup.ID, "duplicate needs a fresh instance id")
				}
			}},
		{"heal lose gold", types.EventOption{EffectID: "heal_lose_gold", Value: 10},
			func(t *testing.T, b, a types.Player) {
				assert.Equal(t, b.HP+10, a.HP)
				assert.Equal(t, b.Gold-15, a.Gold)
			}},
		{"upgrade add jitters", types.EventOption{EffectID: "upgrade_add_jitters"},
			func(t *testing.T, b, a types.Player) {
				assert.Len(t, a.Deck, len(b.Deck)+1)
				assert.Equal(t, "jitters", a.Deck[len(a.Deck)-1].CardDef.ID)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := withEvent(t, tt.opt)
			defs := statetest.Defs()
			run.Player.HP = 40
			before := run.Player
			before.Deck = append([]types.Card(nil), run.Player.Deck...)

			res, err := ApplyEventOption(run, defs, statetest.NewRand(1), 0)

			require.NoError(t, err)
			assert.False(t, res.StartCombat)
			tt.check(t, before, run.Player)
		})
	}
}

func TestApplyEventOption_RemoveCurse(t *testing.T) {
	run := withEvent(t, types.EventOption{EffectID: "remove_curse"})
	defs := statetest.Defs()
	run.Player.Deck = append(run.Player.Deck,
		statetest.Card(run, defs, "latency"), statetest.Card(run, defs, "jitters"))

	_, err := ApplyEventOption(run, defs, statetest.NewRand(1), 0)

	require.NoError(t, err)
	assert.Len(t, run.Player.Deck, 12)
	for _, c := range run.Player.Deck {
		assert.NotEqual(t, types.CardCurse, c.Type)
		assert.NotEqual(t, types.CardStatus, c.Type)
	}
}

func TestApplyEventOption_StartCombat(t *testing.T) {
	run := withEvent(t, types.EventOption{EffectID: "start_elite_combat"})
	res, err := ApplyEventOption(run, statetest.Defs(), statetest.NewRand(1), 0)
	require.NoError(t, err)
	assert.True(t, res.StartCombat)
}

func TestApplyEventOption_BadIndex(t *testing.T) {
	run := withEvent(t, types.EventOption{EffectID: "leave"})
	_, err := ApplyEventOption(run, statetest.Defs(), statetest.NewRand(1), 3)
	assert.ErrorIs(t, err, ErrNoSuchOption)
}

func TestApplyEventOption_UnknownEffectDegrades(t *testing.T) {
	run := withEvent(t, types.EventOption{EffectID: "teleport"})
	_, err := ApplyEventOption(run, statetest.Defs(), statetest.NewRand(1), 0)
	require.NoError(t, err)
	last := run.Log[len(run.Log)-1]
	assert.Equal(t, types.SeverityWarning, last.Severity)
}
