package enemy

import (
	"slices"

	"github.com/nathoo/ascension/engine/deck"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Debuff is a scripted DEBUFF mechanic keyed by the enemy's Debuff field.
type Debuff func(run *types.Run, defs *state.Defs, rng state.Random)

var debuffs = map[string]Debuff{
	"inject_junk":   injectJunk,
	"force_discard": forceDiscard,
	"lock_cards":    lockCards,
	"loop_hand":     loopHand,
}

// Debuffs lists the registered debuff names.
func Debuffs() []string {
	names := make([]string, 0, len(debuffs))
	for k := range debuffs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Stunned is the description of a cancelled intent.
const Stunned = "Stunned (Rate Limited)"

// Stun replaces the enemy's declared intent with a harmless one.
func Stun(run *types.Run) {
	run.Enemy.Intent = types.EnemyIntent{Type: types.IntentDebuff, Desc: Stunned}
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "%s's intent was cancelled.", run.Enemy.Name)
}

// Execute resolves the enemy's current non-attack intent. ATTACK is
// resolved by the combat engine because it runs player-side triggers.
func Execute(run *types.Run, defs *state.Defs, rng state.Random) {
	e := run.Enemy
	rules := defs.Rules
	switch e.Intent.Type {
	case types.IntentDefend:
		e.Block += e.Intent.Value
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s gains %d block.", e.Name, e.Intent.Value)
	case types.IntentSummon:
		e.Minions += rules.SummonCount
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s summons dependencies (%d).", e.Name, e.Minions)
	case types.IntentBuff:
		e.Strength += rules.BuffStrength
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s optimizes (+%d strength).", e.Name, rules.BuffStrength)
	case types.IntentDebuff:
		if e.Intent.Desc == Stunned {
			state.Log(run, types.SeverityInfo, types.SourceEnemy, "%s is rate limited and does nothing.", e.Name)
			return
		}
		if fn, ok := debuffs[e.Debuff]; ok {
			fn(run, defs, rng)
			return
		}
		desc := e.Intent.Desc
		if desc == "" {
			desc = e.Text
		}
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s: %s", e.Name, desc)
	case types.IntentUnknown:
		state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s hums ominously.", e.Name)
	}
}

func injectJunk(run *types.Run, defs *state.Defs, rng state.Random) {
	e := run.Enemy
	lo, hi := max(1, e.JunkMin), max(e.JunkMin, e.JunkMax)
	n := lo + rng.Intn(hi-lo+1)
	for i := 0; i < n; i++ {
		c := state.NewCardByID(run, defs, e.Junk)
		c.Temporary = true
		run.Player.Deck = append(run.Player.Deck, c)
	}
	deck.Shuffle(run, rng)
	state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s injects %d %s into your deck.", e.Name, n, defs.Cards[e.Junk].Name)
}

func forceDiscard(run *types.Run, _ *state.Defs, rng state.Random) {
	n := deck.DiscardRandom(run, rng, run.Enemy.DiscardCount)
	state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s drops %d of your cards.", run.Enemy.Name, n)
}

func lockCards(run *types.Run, _ *state.Defs, _ state.Random) {
	h := run.Player.Hand
	n := min(run.Enemy.LockCount, len(h))
	for i := 0; i < n; i++ {
		h[i].Locked = true
	}
	state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s encrypts %d cards in your hand.", run.Enemy.Name, n)
}

// loopHand stashes the hand the player ended the turn with, so the next
// draw brings back the same cards instead of fresh ones.
func loopHand(run *types.Run, _ *state.Defs, _ state.Random) {
	c := run.Combat
	c.LoopedHand = append(c.LoopedHand[:0:0], c.EndedHand...)
	c.LoopActive = true
	state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s traps your hand in a loop.", run.Enemy.Name)
}

// Deadline reports whether the enemy's hard-loss turn has been reached.
func Deadline(run *types.Run) bool {
	e := run.Enemy
	return e.DeadlineTurn > 0 && run.Combat.Turn >= e.DeadlineTurn
}

// BeforeAct runs identity hooks that fire before the intent resolves.
func BeforeAct(run *types.Run, rng state.Random) {
	e := run.Enemy
	if slices.Contains(e.ConsumeTurns, run.Combat.Turn) {
		consumeCloudCard(run, rng)
	}
}

func consumeCloudCard(run *types.Run, rng state.Random) {
	p := &run.Player
	var idx []int
	for i, c := range p.Deck {
		if c.Category == types.CategoryCloud {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}
	var gone types.Card
	p.Deck, gone = state.TakeAt(p.Deck, idx[rng.Intn(len(idx))])
	state.Log(run, types.SeverityCritical, types.SourceEnemy, "%s consumed %s from your deck.", run.Enemy.Name, gone.Name)
}

// AfterAct runs identity hooks that fire after the intent resolves.
func AfterAct(run *types.Run) {
	e := run.Enemy
	if e.BurnEnergy > 0 {
		state.Log(run, types.SeverityWarning, types.SourceSystem, "Heat builds up: -%d energy next turn.", e.BurnEnergy)
	}
	if e.RepeatAt > 0 {
		most := 0
		for _, n := range run.Combat.TypesPlayed {
			most = max(most, n)
		}
		if most >= e.RepeatAt {
			e.Strength += e.RepeatStrength
			state.Log(run, types.SeverityWarning, types.SourceEnemy, "%s overfits to your pattern (+%d strength).", e.Name, e.RepeatStrength)
		}
	}
}
