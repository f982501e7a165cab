// Package modernize implements the meter-triggered card replacement. It
// runs in two phases: Begin announces a target so front ends can show it,
// and Commit performs the swap after re-checking the target.
package modernize

import (
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Begin picks the card to modernize: a random legacy card in hand, else the
// first legacy card in the deck, else the first in the discard pile. A
// NONE location announces the fallback heal.
func Begin(run *types.Run, rng state.Random) types.Modernization {
	p := &run.Player
	var inHand []int
	for i, c := range p.Hand {
		if c.Category == types.CategoryLegacy {
			inHand = append(inHand, i)
		}
	}

	m := types.Modernization{Location: types.PileNone}
	switch {
	case len(inHand) > 0:
		c := p.Hand[inHand[rng.Intn(len(inHand))]]
		m = types.Modernization{CardID: c.ID, CardName: c.Name, Location: types.PileHand}
	default:
		if i := firstLegacy(p.Deck); i >= 0 {
			m = types.Modernization{CardID: p.Deck[i].ID, CardName: p.Deck[i].Name, Location: types.PileDeck}
		} else if i := firstLegacy(p.Discard); i >= 0 {
			m = types.Modernization{CardID: p.Discard[i].ID, CardName: p.Discard[i].Name, Location: types.PileDiscard}
		}
	}

	if m.Location == types.PileNone {
		state.Log(run, types.SeverityNotice, types.SourceModernizer, "Modernization protocol: no legacy code found.")
	} else {
		state.Log(run, types.SeverityNotice, types.SourceModernizer, "Modernization protocol: targeting %s.", m.CardName)
	}
	return m
}

// Commit performs the announced modernization. A target that moved or
// vanished since Begin is replaced by whatever qualifies now. Returns the
// new card, or nil when the fallback heal was applied. The meter resets
// either way.
func Commit(run *types.Run, defs *state.Defs, rng state.Random, m types.Modernization) *types.Card {
	p := &run.Player
	rules := defs.Rules
	defer func() { run.Meter = 0 }()

	loc, idx := locate(p, m)
	if loc == types.PileNone {
		n := state.HealPlayer(run, rules.FallbackHeal)
		state.Log(run, types.SeverityNotice, types.SourceModernizer, "System overclock: restored %d HP.", n)
		return nil
	}

	cat := types.CategoryCloud
	if rng.Intn(100) < rules.RarePoolPct {
		cat = types.CategoryVertex
	}
	pool := state.CardPool(defs, cat)
	if len(pool) == 0 {
		pool = state.CardPool(defs, types.CategoryCloud, types.CategoryVertex)
	}
	if len(pool) == 0 {
		n := state.HealPlayer(run, rules.FallbackHeal)
		state.Log(run, types.SeverityWarning, types.SourceModernizer, "No modern cards available: restored %d HP.", n)
		return nil
	}
	fresh := state.NewCard(run, pool[rng.Intn(len(pool))])
	zero := 0
	fresh.TempCost = &zero

	var old types.Card
	switch loc {
	case types.PileHand:
		old = p.Hand[idx]
		p.Hand[idx] = fresh
	case types.PileDeck:
		p.Deck, old = state.TakeAt(p.Deck, idx)
		p.Hand = append(p.Hand, fresh)
	case types.PileDiscard:
		p.Discard, old = state.TakeAt(p.Discard, idx)
		p.Hand = append(p.Hand, fresh)
	}
	state.Log(run, types.SeverityInfo, types.SourceModernizer, "Refactored %s into %s (%s).", old.Name, fresh.Name, loc)
	return &fresh
}

// locate finds the announced target, or the best current substitute.
func locate(p *types.Player, m types.Modernization) (types.Pile, int) {
	if m.CardID != "" {
		for _, pile := range []struct {
			name  types.Pile
			cards []types.Card
		}{{types.PileHand, p.Hand}, {types.PileDeck, p.Deck}, {types.PileDiscard, p.Discard}} {
			if i := state.IndexOf(pile.cards, m.CardID); i >= 0 && pile.cards[i].Category == types.CategoryLegacy {
				return pile.name, i
			}
		}
	}
	if i := firstLegacy(p.Hand); i >= 0 {
		return types.PileHand, i
	}
	if i := firstLegacy(p.Deck); i >= 0 {
		return types.PileDeck, i
	}
	if i := firstLegacy(p.Discard); i >= 0 {
		return types.PileDiscard, i
	}
	return types.PileNone, -1
}

func firstLegacy(pile []types.Card) int {
	for i, c := range pile {
		if c.Category == types.CategoryLegacy {
			return i
		}
	}
	return -1
}
