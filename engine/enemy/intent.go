package enemy

import (
	"slices"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Decision is the output of intent selection: the intent to show and the
// invulnerability the enemy should carry while it is shown. Selection is
// pure; the caller applies the decision.
type Decision struct {
	Intent       types.EnemyIntent
	Invulnerable bool
}

// Script computes an enemy's next intent for the given turn.
type Script func(e *types.Enemy, turn int, rng state.Random) Decision

var scripts = map[string]Script{
	"generic":  genericIntent,
	"periodic": periodicIntent,
	"summoner": summonerIntent,
	"deadline": genericIntent,
	"mystery":  mysteryIntent,
}

// Scripts lists the registered script names.
func Scripts() []string {
	names := make([]string, 0, len(scripts))
	for k := range scripts {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// NextIntent selects the intent the enemy will execute on the given turn.
// Unknown scripts fall back to the generic roll.
func NextIntent(e *types.Enemy, turn int, rng state.Random) Decision {
	s, ok := scripts[e.Script]
	if !ok {
		s = genericIntent
	}
	return s(e, turn, rng)
}

// genericIntent rolls ATTACK 60%, DEFEND 20%, BUFF 20%, scaled by act.
func genericIntent(e *types.Enemy, _ int, rng state.Random) Decision {
	d := Decision{Invulnerable: e.Invulnerable}
	roll := rng.Float64()
	switch {
	case roll < 0.6:
		d.Intent = types.EnemyIntent{Type: types.IntentAttack, Value: 5 + e.Act*3}
	case roll < 0.8:
		d.Intent = types.EnemyIntent{Type: types.IntentDefend, Value: 8 + e.Act*2}
	default:
		d.Intent = types.EnemyIntent{Type: types.IntentBuff, Desc: "Optimizing..."}
	}
	return d
}

// periodicIntent debuffs every DebuffEvery turns and attacks otherwise.
func periodicIntent(e *types.Enemy, turn int, _ state.Random) Decision {
	d := Decision{Invulnerable: e.Invulnerable}
	if e.DebuffEvery > 0 && turn%e.DebuffEvery == 0 {
		d.Intent = types.EnemyIntent{Type: types.IntentDebuff, Desc: e.DebuffDesc}
		return d
	}
	d.Intent = types.EnemyIntent{Type: types.IntentAttack, Value: e.Attack}
	return d
}

// summonerIntent keeps the enemy invulnerable and summoning while it has
// minions, and attacks once they are gone.
func summonerIntent(e *types.Enemy, _ int, _ state.Random) Decision {
	if e.Minions > 0 {
		return Decision{
			Intent:       types.EnemyIntent{Type: types.IntentSummon, Desc: "Compile Dependencies"},
			Invulnerable: true,
		}
	}
	return Decision{Intent: types.EnemyIntent{Type: types.IntentAttack, Value: e.Attack}}
}

func mysteryIntent(e *types.Enemy, _ int, _ state.Random) Decision {
	return Decision{
		Intent:       types.EnemyIntent{Type: types.IntentUnknown, Desc: "???"},
		Invulnerable: e.Invulnerable,
	}
}
