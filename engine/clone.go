package engine

import (
	"maps"
	"slices"

	"github.com/nathoo/ascension/types"
)

// cloneRun deep-copies a run so snapshots never alias engine state.
func cloneRun(r *types.Run) types.Run {
	out := *r
	out.Player = clonePlayer(r.Player)
	out.Counters = maps.Clone(r.Counters)
	out.Log = slices.Clone(r.Log)

	if r.Enemy != nil {
		en := *r.Enemy
		en.ConsumeTurns = slices.Clone(r.Enemy.ConsumeTurns)
		out.Enemy = &en
	}
	if r.Combat != nil {
		c := *r.Combat
		c.TypesPlayed = maps.Clone(r.Combat.TypesPlayed)
		c.Counters = maps.Clone(r.Combat.Counters)
		c.LoopedHand = slices.Clone(r.Combat.LoopedHand)
		c.EndedHand = slices.Clone(r.Combat.EndedHand)
		if r.Combat.Pending != nil {
			m := *r.Combat.Pending
			c.Pending = &m
		}
		out.Combat = &c
	}
	if r.Map != nil {
		m := types.Map{Act: r.Map.Act, Layers: make([]types.MapLayer, len(r.Map.Layers))}
		for i, l := range r.Map.Layers {
			nodes := make([]types.MapNode, len(l.Nodes))
			for j, n := range l.Nodes {
				n.Next = slices.Clone(n.Next)
				n.Parents = slices.Clone(n.Parents)
				nodes[j] = n
			}
			m.Layers[i].Nodes = nodes
		}
		out.Map = &m
	}
	if r.Event != nil {
		ev := *r.Event
		ev.Options = slices.Clone(r.Event.Options)
		out.Event = &ev
	}
	if r.Shop != nil {
		s := *r.Shop
		s.Cards = make([]types.ShopCard, len(r.Shop.Cards))
		for i, sc := range r.Shop.Cards {
			s.Cards[i] = types.ShopCard{Card: cloneCard(sc.Card), Price: sc.Price}
		}
		if r.Shop.Relic != nil {
			rel := *r.Shop.Relic
			s.Relic = &rel
		}
		out.Shop = &s
	}
	if r.Reward != nil {
		out.Reward = &types.Reward{Gold: r.Reward.Gold, Cards: cloneCards(r.Reward.Cards)}
	}
	return out
}

func clonePlayer(p types.Player) types.Player {
	p.Deck = cloneCards(p.Deck)
	p.Hand = cloneCards(p.Hand)
	p.Discard = cloneCards(p.Discard)
	p.Exhaust = cloneCards(p.Exhaust)
	p.Powers = slices.Clone(p.Powers)
	p.Relics = slices.Clone(p.Relics)
	return p
}

func cloneCards(cs []types.Card) []types.Card {
	if cs == nil {
		return nil
	}
	out := make([]types.Card, len(cs))
	for i, c := range cs {
		out[i] = cloneCard(c)
	}
	return out
}

func cloneCard(c types.Card) types.Card {
	c.Effects = slices.Clone(c.Effects)
	if c.TempCost != nil {
		v := *c.TempCost
		c.TempCost = &v
	}
	return c
}
