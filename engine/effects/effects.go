// Package effects implements the card effect resolver. Resolve folds a
// card's tagged effect list over the run in canonical order. Every effect
// kind is one atomic mutation; sequencing lives in the combat engine.
package effects

import (
	"slices"

	"github.com/nathoo/ascension/engine/deck"
	"github.com/nathoo/ascension/engine/enemy"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/triggers"
	"github.com/nathoo/ascension/types"
)

// Context carries everything one card resolution needs. Card has already
// been removed from the hand by the caller.
type Context struct {
	Run  *types.Run
	Defs *state.Defs
	Rand state.Random
	Card types.Card
}

// Outcome summarizes a resolved card for the combat engine.
type Outcome struct {
	Cost      int
	Damage    int // rolled damage before enemy mitigation
	Dealt     int // hp removed from the enemy
	MeterFull bool
	EndsTurn  bool
}

var order = []types.EffectKind{
	types.EffectDamage,
	types.EffectBlock,
	types.EffectReflect,
	types.EffectDraw,
	types.EffectScry,
	types.EffectHeal,
	types.EffectCleanse,
	types.EffectUpgradeHand,
	types.EffectPlayFromDiscard,
	types.EffectDiscardHand,
	types.EffectAddStatus,
	types.EffectPower,
	types.EffectGenerateCard,
	types.EffectCancelIntent,
}

// Rank is the position of kind in resolution order. Unknown kinds sort last.
func Rank(kind types.EffectKind) int {
	if i := slices.Index(order, kind); i >= 0 {
		return i
	}
	return len(order)
}

// Known reports whether kind is a recognized effect kind.
func Known(kind types.EffectKind) bool {
	return slices.Contains(order, kind)
}

// Canonical returns effects stably sorted into resolution order.
func Canonical(effects []types.Effect) []types.Effect {
	out := slices.Clone(effects)
	slices.SortStableFunc(out, func(a, b types.Effect) int {
		return Rank(a.Kind) - Rank(b.Kind)
	})
	return out
}

// Effective returns the card's effect list with upgrade bonuses made
// visible: a card carrying bonus damage or block but no such effect gets
// a zero-amount one synthesized at its canonical position.
func Effective(card types.Card) []types.Effect {
	effs := card.Effects
	has := func(k types.EffectKind) bool {
		return slices.ContainsFunc(effs, func(e types.Effect) bool { return e.Kind == k })
	}
	var extra []types.Effect
	if card.BonusDamage > 0 && !has(types.EffectDamage) {
		extra = append(extra, types.Effect{Kind: types.EffectDamage})
	}
	if card.BonusBlock > 0 && !has(types.EffectBlock) {
		extra = append(extra, types.Effect{Kind: types.EffectBlock})
	}
	if len(extra) == 0 {
		return effs
	}
	return Canonical(append(extra, effs...))
}

// EffectiveCost is the energy a card costs right now: its temporary cost
// if set, the whole current energy for X-cost cards, else its cost.
func EffectiveCost(run *types.Run, card types.Card) int {
	switch {
	case card.TempCost != nil:
		return *card.TempCost
	case card.XCost:
		return run.Player.Energy
	default:
		return card.Cost
	}
}

// Resolve pays for the card, applies its effects, routes it to discard or
// exhaust, and advances the per-turn counters and the meter. It does not
// check playability.
func Resolve(ctx Context) Outcome {
	run, card := ctx.Run, ctx.Card
	p := &run.Player
	rules := ctx.Defs.Rules

	out := Outcome{Cost: EffectiveCost(run, card), EndsTurn: card.EndsTurn}
	p.Energy = max(0, p.Energy-out.Cost)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Played %s.", card.Name)

	mult := 1
	if card.Type == types.CardAttack {
		mult = triggers.Fire(triggers.AttackPlayed, &triggers.Context{Run: run, Rules: rules, Amount: 1})
	}

	for _, eff := range Effective(card) {
		switch eff.Kind {
		case types.EffectDamage:
			dmg := rollDamage(ctx, eff, out.Cost) * mult
			out.Damage += dmg
			out.Dealt += applyDamage(ctx, dmg)

		case types.EffectBlock:
			blk := eff.Amount + card.BonusBlock
			if card.XCost {
				blk = out.Cost * 5
			}
			if blk > 0 {
				p.Block += blk
				state.Log(run, types.SeverityNotice, types.SourcePlayer, "Gained %d block.", blk)
			}

		case types.EffectReflect:
			p.Powers = append(p.Powers, types.Power{ID: "reflect", Name: card.Name, Value: eff.Amount})
			state.Log(run, types.SeverityNotice, types.SourcePlayer, "Reflects the next %d damage.", eff.Amount)

		case types.EffectDraw:
			n := eff.Amount
			if card.XCost {
				n = out.Cost / 2
			}
			if n > 0 {
				got := deck.Draw(run, rules, ctx.Rand, n)
				state.Log(run, types.SeverityInfo, types.SourcePlayer, "Drew %d cards.", got)
			}

		case types.EffectScry:
			deck.Draw(run, rules, ctx.Rand, eff.Amount)
			deck.DiscardRandom(run, ctx.Rand, rules.ScryDiscard)
			state.Log(run, types.SeverityInfo, types.SourcePlayer, "Analyzed incoming data.")

		case types.EffectHeal:
			if card.Fake {
				n := state.HurtPlayer(run, eff.Amount)
				state.Log(run, types.SeverityError, types.SourceEnemy, "%s was a hallucination: took %d damage.", card.Name, n)
				continue
			}
			n := state.HealPlayer(run, eff.Amount)
			state.Log(run, types.SeverityNotice, types.SourcePlayer, "Restored %d HP.", n)

		case types.EffectCleanse:
			var keep []types.Card
			removed := 0
			for _, c := range p.Hand {
				if c.Type == types.CardStatus {
					p.Exhaust = append(p.Exhaust, c)
					removed++
					continue
				}
				keep = append(keep, c)
			}
			p.Hand = keep
			if removed > 0 {
				state.Log(run, types.SeverityNotice, types.SourcePlayer, "Revoked %d status cards.", removed)
			}

		case types.EffectUpgradeHand:
			step := eff.Amount
			if step <= 0 {
				step = rules.UpgradeStep
			}
			for i := range p.Hand {
				p.Hand[i].BonusDamage += step
				p.Hand[i].BonusBlock += step
				p.Hand[i].Name += "+"
			}
			state.Log(run, types.SeverityNotice, types.SourcePlayer, "Hand optimized (+%d).", step)

		case types.EffectPlayFromDiscard:
			playFromDiscard(ctx, rules)

		case types.EffectDiscardHand:
			n := deck.DiscardHand(run)
			state.Log(run, types.SeverityWarning, types.SourcePlayer, "Discarded %d cards.", n)

		case types.EffectAddStatus:
			c := state.NewCardByID(run, ctx.Defs, eff.Status)
			c.Temporary = true
			p.Discard = append(p.Discard, c)
			state.Log(run, types.SeverityWarning, types.SourceSystem, "%s added to discard.", c.Name)

		case types.EffectPower:
			p.Powers = append(p.Powers, types.Power{ID: eff.Power, Name: card.Name})
			state.Log(run, types.SeverityNotice, types.SourcePlayer, "%s is now active.", card.Name)
			triggers.Fire(triggers.PowerPlayed, &triggers.Context{Run: run, Rules: rules})

		case types.EffectGenerateCard:
			generate(ctx, eff.Pool, rules)

		case types.EffectCancelIntent:
			if run.Enemy != nil {
				enemy.Stun(run)
			}
		}
	}

	card.TempCost = nil
	card.Locked = false
	if card.Exhaust {
		p.Exhaust = append(p.Exhaust, card)
	} else {
		p.Discard = append(p.Discard, card)
	}

	if c := run.Combat; c != nil {
		c.CardsPlayed++
		c.TypesPlayed[card.Type]++
	}
	if run.Meter < rules.MeterMax {
		run.Meter++
	}
	out.MeterFull = run.Meter >= rules.MeterMax
	return out
}

func rollDamage(ctx Context, eff types.Effect, cost int) int {
	card := ctx.Card
	dmg := eff.Amount + card.BonusDamage
	if eff.Max > eff.Amount {
		dmg = eff.Amount + ctx.Rand.Intn(eff.Max-eff.Amount+1) + card.BonusDamage
	}
	if eff.PerDiscard > 0 {
		dmg += eff.PerDiscard * len(ctx.Run.Player.Discard)
	}
	if card.XCost {
		dmg = cost * 10
	}
	return dmg
}

// applyDamage lands one hit on the enemy and answers with thorns.
func applyDamage(ctx Context, dmg int) int {
	run := ctx.Run
	if dmg <= 0 || run.Enemy == nil {
		return 0
	}
	run.Counters["last_player_damage"] = dmg
	h := enemy.TakeHit(run, ctx.Rand, dmg, ctx.Card.Unblockable)
	if h.Dealt > 0 && run.Enemy.Thorns > 0 {
		n := state.HurtPlayer(run, run.Enemy.Thorns)
		state.Log(run, types.SeverityError, types.SourceEnemy, "Thorns: took %d damage.", n)
	}
	return h.Dealt
}

func playFromDiscard(ctx Context, rules types.Rules) {
	run := ctx.Run
	p := &run.Player
	if len(p.Discard) == 0 {
		return
	}
	if len(p.Hand) >= rules.HandLimit {
		state.Log(run, types.SeverityWarning, types.SourceSystem, "Hand full. Nothing restored from archives.")
		return
	}
	var c types.Card
	p.Discard, c = state.TakeAt(p.Discard, ctx.Rand.Intn(len(p.Discard)))
	zero := 0
	c.TempCost = &zero
	p.Hand = append(p.Hand, c)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Deployed %s from the archives at no cost.", c.Name)
}

func generate(ctx Context, pool types.Category, rules types.Rules) {
	run := ctx.Run
	p := &run.Player
	defs := state.CardPool(ctx.Defs, pool)
	if len(defs) == 0 {
		return
	}
	c := state.NewCard(run, defs[ctx.Rand.Intn(len(defs))])
	c.Cost = 0
	zero := 0
	c.TempCost = &zero
	c.Temporary = true
	if len(p.Hand) >= rules.HandLimit {
		p.Discard = append(p.Discard, c)
		state.Log(run, types.SeverityWarning, types.SourceSystem, "Hand full. Generated %s sent to discard.", c.Name)
		return
	}
	p.Hand = append(p.Hand, c)
	state.Log(run, types.SeverityInfo, types.SourceNarrator, "Generated %s.", c.Name)
}

// Playability answers whether card may be played right now. Checks run in
// a fixed order and the first failure is reported.
func Playability(run *types.Run, card types.Card) types.Playability {
	cost := EffectiveCost(run, card)
	pl := types.Playability{CanAfford: card.XCost || run.Player.Energy >= cost}
	c := run.Combat
	e := run.Enemy
	switch {
	case c == nil || c.Phase != types.PhasePlayerTurn:
		pl.Reason = "not your turn"
	case card.Unplayable:
		pl.Reason = "unplayable"
	case card.Locked:
		pl.Reason = "encrypted by ransomware"
	case !pl.CanAfford:
		pl.Reason = "not enough energy"
	case card.RequiresRetained && card.TurnsHeld < 1:
		pl.Reason = "must be held for a turn first"
	case e != nil && e.MaxCardsPerTurn > 0 && c.CardsPlayed >= e.MaxCardsPerTurn:
		pl.Reason = "bandwidth limit reached"
	default:
		pl.Playable = true
	}
	return pl
}
