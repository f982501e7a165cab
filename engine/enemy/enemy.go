// Package enemy implements the enemy behavior engine: per-identity intent
// scripts, hit resolution against enemy passives, scripted debuffs, and
// the before/after-act hooks driven by an enemy's behavior descriptor.
package enemy

import (
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Spawn instantiates a catalog enemy with combat-only fields reset.
func Spawn(def types.EnemyDef) *types.Enemy {
	return &types.Enemy{
		EnemyDef:     def,
		HP:           def.MaxHP,
		Intent:       def.Opening,
		Invulnerable: def.StartsInvulnerable,
	}
}

// Hit describes how one hit of player damage landed.
type Hit struct {
	Dealt     int  // hp actually removed
	Blocked   int  // absorbed by enemy block
	Negated   bool // invulnerable
	Absorbed  bool // a minion took the hit
	Dodged    bool
	ExactKill bool
}

// TakeHit applies one hit of player damage, honoring invulnerability,
// minion absorption, dodge, and block in that order.
func TakeHit(run *types.Run, rng state.Random, dmg int, unblockable bool) Hit {
	e := run.Enemy
	var h Hit
	if dmg <= 0 {
		return h
	}

	if e.Invulnerable {
		h.Negated = true
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s is invulnerable.", e.Name)
		if e.Minions > 0 {
			e.Minions--
			state.Log(run, types.SeverityNotice, types.SourceSystem, "A dependency was removed (%d left).", e.Minions)
		}
		return h
	}
	if e.Minions > 0 {
		h.Absorbed = true
		e.Minions--
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "A dependency absorbed the hit (%d left).", e.Minions)
		return h
	}
	if e.Dodge > 0 && !unblockable && rng.Float64() < e.Dodge {
		h.Dodged = true
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "Miss! %s dodged.", e.Name)
		return h
	}

	dealt := dmg
	if !unblockable {
		h.Blocked = min(dmg, e.Block)
		e.Block -= h.Blocked
		dealt = dmg - h.Blocked
	}
	pre := e.HP
	e.HP = max(0, pre-dealt)
	h.Dealt = pre - e.HP
	h.ExactKill = e.HP == 0 && pre == dealt
	e.ExactKill = h.ExactKill
	state.Log(run, types.SeverityNotice, types.SourceSystem, "Dealt %d damage to %s.", dmg, e.Name)
	return h
}

// DirectDamage removes hp ignoring block, for passive sources such as
// turrets, relics and reflect. It never counts as an exact kill, and a
// downed enemy is left alone so a pending revive stands.
func DirectDamage(run *types.Run, n int) int {
	e := run.Enemy
	if e == nil || n <= 0 || e.HP <= 0 {
		return 0
	}
	pre := e.HP
	e.HP = max(0, pre-n)
	e.ExactKill = false
	return pre - e.HP
}

// RevivePending reports whether a dead enemy will get back up at the
// start of its turn.
func RevivePending(e *types.Enemy) bool {
	return e != nil && e.HP <= 0 && e.ReviveHP > 0 && e.ExactKill
}

// Revive restores a qualifying enemy to its revive threshold.
func Revive(run *types.Run) bool {
	e := run.Enemy
	if !RevivePending(e) {
		return false
	}
	e.HP = min(e.ReviveHP, e.MaxHP)
	e.ExactKill = false
	state.Log(run, types.SeverityCritical, types.SourceEnemy, "%s revived with %d HP!", e.Name, e.HP)
	return true
}

// AttackDamage is the raw damage of the current ATTACK intent before the
// player's block: magnitude plus strength, replaced by the last player hit
// for mimics, plus the fast-play penalty.
func AttackDamage(run *types.Run) int {
	e := run.Enemy
	dmg := e.Intent.Value + e.Strength
	if e.Mimic {
		if last := run.Counters["last_player_damage"]; last > 0 {
			dmg = last
			state.Log(run, types.SeverityError, types.SourceEnemy, "%s mimics your last hit: %d.", e.Name, dmg)
		}
	}
	if e.FastPlayAt > 0 && run.Combat.CardsPlayed >= e.FastPlayAt {
		dmg += e.FastPlayPenalty
		state.Log(run, types.SeverityError, types.SourceEnemy, "%s punishes the rush (+%d).", e.Name, e.FastPlayPenalty)
	}
	return max(0, dmg)
}
