// Package deck implements the deck/hand manager: drawing with the hand
// limit, reshuffle-on-empty, on-draw triggers, forced redraw, and
// end-of-turn routing of the hand.
package deck

import (
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Draw moves up to n cards from deck to hand. Returns the number of cards
// that actually entered the hand.
func Draw(run *types.Run, rules types.Rules, rng state.Random, n int) int {
	p := &run.Player

	if c := run.Combat; c != nil && c.LoopActive {
		if restoreLoopedHand(run) > 0 {
			return len(p.Hand)
		}
	}

	drawn := 0
	for i := 0; i < n; i++ {
		if len(p.Hand) >= rules.HandLimit {
			if len(p.Deck) == 0 && len(p.Discard) > 0 {
				Reshuffle(run, rng)
			}
			if len(p.Deck) > 0 {
				burned := pop(p)
				p.Discard = append(p.Discard, burned)
				state.Log(run, types.SeverityWarning, types.SourceSystem,
					"Hand full. %s burned to discard.", burned.Name)
			}
			continue
		}

		if len(p.Deck) == 0 {
			if len(p.Discard) == 0 {
				state.Log(run, types.SeverityInfo, types.SourceSystem, "No cards left to draw.")
				break
			}
			Reshuffle(run, rng)
		}

		card := pop(p)
		p.Hand = append(p.Hand, card)
		drawn++

		if card.OnDraw == types.OnDrawDiscardRandom {
			state.Log(run, types.SeverityError, types.SourcePlayer, "Drew %s.", card.Name)
			if len(p.Hand) >= 2 {
				discardOther(run, rng, card.ID)
			}
		}
	}
	return drawn
}

// pop removes the top card of the deck. The deck must be non-empty.
func pop(p *types.Player) types.Card {
	last := len(p.Deck) - 1
	c := p.Deck[last]
	p.Deck = p.Deck[:last]
	return c
}

// discardOther discards a uniformly chosen card from hand other than skip.
func discardOther(run *types.Run, rng state.Random, skip string) {
	p := &run.Player
	var others []int
	for i, c := range p.Hand {
		if c.ID != skip {
			others = append(others, i)
		}
	}
	if len(others) == 0 {
		return
	}
	idx := others[rng.Intn(len(others))]
	var target types.Card
	p.Hand, target = state.TakeAt(p.Hand, idx)
	p.Discard = append(p.Discard, target)
	state.Log(run, types.SeverityWarning, types.SourcePlayer, "%s was discarded.", target.Name)
}

// restoreLoopedHand brings back the stashed hand by identity, pulling each
// instance from whichever pile it now sits in, and consumes the flag.
// Retained cards are already in hand and count toward the result. It
// returns the number of stashed cards now in hand; zero means the loop
// had nothing to replay and a normal draw should run.
func restoreLoopedHand(run *types.Run) int {
	p := &run.Player
	c := run.Combat
	c.LoopActive = false
	stash := c.LoopedHand
	c.LoopedHand = nil
	back := 0
	for _, id := range stash {
		if state.IndexOf(p.Hand, id) >= 0 {
			back++
			continue
		}
		var card types.Card
		var ok bool
		if p.Deck, card, ok = state.Take(p.Deck, id); !ok {
			if p.Discard, card, ok = state.Take(p.Discard, id); !ok {
				continue
			}
		}
		p.Hand = append(p.Hand, card)
		back++
	}
	if back > 0 {
		state.Log(run, types.SeverityWarning, types.SourceSystem, "Infinite loop: the same hand comes around again.")
	}
	return back
}

// Reshuffle moves the whole discard pile into the deck and shuffles it.
func Reshuffle(run *types.Run, rng state.Random) {
	p := &run.Player
	p.Deck = append(p.Deck, p.Discard...)
	p.Discard = p.Discard[:0:0]
	rng.Shuffle(len(p.Deck), func(i, j int) { p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i] })
	state.Log(run, types.SeverityInfo, types.SourceSystem, "Discard reshuffled into deck.")
}

// Shuffle shuffles the deck in place.
func Shuffle(run *types.Run, rng state.Random) {
	d := run.Player.Deck
	rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
}

// DiscardRandom discards up to n uniformly chosen cards from hand and
// returns how many were discarded.
func DiscardRandom(run *types.Run, rng state.Random, n int) int {
	p := &run.Player
	done := 0
	for done < n && len(p.Hand) > 0 {
		var c types.Card
		p.Hand, c = state.TakeAt(p.Hand, rng.Intn(len(p.Hand)))
		p.Discard = append(p.Discard, c)
		done++
	}
	return done
}

// DiscardHand moves the whole hand to discard.
func DiscardHand(run *types.Run) int {
	p := &run.Player
	n := len(p.Hand)
	p.Discard = append(p.Discard, p.Hand...)
	p.Hand = p.Hand[:0:0]
	return n
}

// EndOfTurn routes every card left in hand and returns the passive damage
// those cards deal to the player. Ethereal cards exhaust; retained cards
// stay with their held counter advanced and lock/temp cost cleared.
func EndOfTurn(run *types.Run) int {
	p := &run.Player
	damage := 0
	var keep []types.Card
	for _, c := range p.Hand {
		if c.Ethereal {
			p.Exhaust = append(p.Exhaust, c)
			continue
		}
		damage += c.EndTurnDamage
		if c.Retain || c.RequiresRetained {
			c.TurnsHeld++
			c.Locked = false
			c.TempCost = nil
			keep = append(keep, c)
			continue
		}
		c.TurnsHeld = 0
		c.Locked = false
		c.TempCost = nil
		p.Discard = append(p.Discard, c)
	}
	p.Hand = keep
	return damage
}

// Count returns the number of cards across deck, hand, discard and exhaust.
func Count(p *types.Player) int {
	return len(p.Deck) + len(p.Hand) + len(p.Discard) + len(p.Exhaust)
}

// MergeAll returns every pile to the deck after combat, dropping
// combat-only cards and clearing per-combat runtime fields. Returns the
// number of temporary cards purged.
func MergeAll(run *types.Run) int {
	p := &run.Player
	all := make([]types.Card, 0, Count(p))
	all = append(all, p.Deck...)
	all = append(all, p.Hand...)
	all = append(all, p.Discard...)
	all = append(all, p.Exhaust...)

	purged := 0
	deck := all[:0]
	for _, c := range all {
		if c.Temporary {
			purged++
			continue
		}
		c.TurnsHeld = 0
		c.Locked = false
		c.TempCost = nil
		deck = append(deck, c)
	}
	p.Deck = deck
	p.Hand = nil
	p.Discard = nil
	p.Exhaust = nil
	return purged
}
