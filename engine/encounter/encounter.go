// Package encounter resolves what a map node produces: which enemy is
// fought, the post-combat reward, shop inventory and purchases, events,
// and rest stops.
package encounter

import (
	"errors"
	"fmt"

	"github.com/nathoo/ascension/engine/enemy"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrNoSuchOption     = errors.New("no such option")
)

// PickEnemy chooses and spawns the enemy for a combat node of the act.
// Bosses come from the act's boss, elites from its elite pool (falling
// back to any non-boss), and battles from its normal pool.
func PickEnemy(defs *state.Defs, act int, node types.NodeType, rng state.Random) *types.Enemy {
	var actEnemies []types.EnemyDef
	for _, id := range defs.EnemyOrder {
		if e := defs.Enemies[id]; e.Act == act {
			actEnemies = append(actEnemies, e)
		}
	}
	if len(actEnemies) == 0 {
		def, _ := state.LookupEnemy(defs, "", act)
		return enemy.Spawn(def)
	}

	filter := func(keep func(types.EnemyDef) bool) []types.EnemyDef {
		var out []types.EnemyDef
		for _, e := range actEnemies {
			if keep(e) {
				out = append(out, e)
			}
		}
		return out
	}

	var pool []types.EnemyDef
	switch node {
	case types.NodeBoss:
		if bosses := filter(func(e types.EnemyDef) bool { return e.Role == types.RoleBoss }); len(bosses) > 0 {
			return enemy.Spawn(bosses[0])
		}
		return enemy.Spawn(actEnemies[0])
	case types.NodeElite:
		pool = filter(func(e types.EnemyDef) bool { return e.Role == types.RoleElite })
		if len(pool) == 0 {
			pool = filter(func(e types.EnemyDef) bool { return e.Role != types.RoleBoss })
		}
	default:
		pool = filter(func(e types.EnemyDef) bool { return e.Role == types.RoleNormal })
	}
	if len(pool) == 0 {
		return enemy.Spawn(actEnemies[0])
	}
	return enemy.Spawn(pool[rng.Intn(len(pool))])
}

// Rarity is a reward card tier.
type Rarity string

const (
	Common   Rarity = "COMMON"
	Uncommon Rarity = "UNCOMMON"
	Rare     Rarity = "RARE"
)

// RollRarity draws a tier using odds given as [common, uncommon, rare]
// percentages.
func RollRarity(rng state.Random, odds []int) Rarity {
	if len(odds) < 2 {
		return Common
	}
	roll := rng.Intn(100)
	switch {
	case roll < odds[0]:
		return Common
	case roll < odds[0]+odds[1]:
		return Uncommon
	default:
		return Rare
	}
}

func rarityPool(defs *state.Defs, r Rarity) []types.CardDef {
	switch r {
	case Rare:
		return state.CardPool(defs, types.CategoryVertex)
	case Uncommon:
		return state.CardPool(defs, types.CategoryCloud, types.CategoryVertex)
	default:
		return state.CardPool(defs, types.CategoryCloud)
	}
}

// Rewards grants the gold for a won combat and rolls the card choices.
// Choices never repeat a template.
func Rewards(run *types.Run, defs *state.Defs, node types.NodeType, rng state.Random) *types.Reward {
	rules := defs.Rules.Reward
	gold, ok := rules.Gold[string(node)]
	if !ok {
		gold = rules.Gold[string(types.NodeBattle)]
	}
	run.Player.Gold += gold

	odds := rules.NormalOdds
	if node == types.NodeElite {
		odds = rules.EliteOdds
	}

	reward := &types.Reward{Gold: gold}
	used := map[string]bool{}
	unused := func(pool []types.CardDef) []types.CardDef {
		var out []types.CardDef
		for _, d := range pool {
			if !used[d.ID] {
				out = append(out, d)
			}
		}
		return out
	}
	for i := 0; i < rules.CardChoices; i++ {
		pool := unused(rarityPool(defs, RollRarity(rng, odds)))
		if len(pool) == 0 {
			pool = unused(state.CardPool(defs, types.CategoryCloud, types.CategoryVertex))
		}
		if len(pool) == 0 {
			break
		}
		def := pool[rng.Intn(len(pool))]
		used[def.ID] = true
		reward.Cards = append(reward.Cards, state.NewCard(run, def))
	}
	state.Log(run, types.SeverityInfo, types.SourceSystem, "Recovered %d gold.", gold)
	return reward
}

// TakeReward adds the chosen reward card to the deck.
func TakeReward(run *types.Run, index int) error {
	r := run.Reward
	if r == nil || index < 0 || index >= len(r.Cards) {
		return fmt.Errorf("%w: reward card %d", ErrNoSuchOption, index+1)
	}
	c := r.Cards[index]
	run.Player.Deck = append(run.Player.Deck, c)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Added %s to deck.", c.Name)
	return nil
}

// NewShop stocks a shop visit: cards mostly from the cloud pool with some
// vertex, one relic the player does not own, and a card removal service.
func NewShop(run *types.Run, defs *state.Defs, rng state.Random) *types.Shop {
	rules := defs.Rules.Shop
	shop := &types.Shop{RemovePrice: rules.RemoveBase}

	for i := 0; i < rules.Cards; i++ {
		cat := types.CategoryCloud
		if rng.Float64() < float64(rules.VertexPct)/100 {
			cat = types.CategoryVertex
		}
		pool := state.CardPool(defs, cat)
		if len(pool) == 0 {
			continue
		}
		def := pool[rng.Intn(len(pool))]
		price := rules.CardBase + rng.Intn(rules.CardSpread)
		if def.Category == types.CategoryVertex {
			price += rules.VertexMarkup
		}
		shop.Cards = append(shop.Cards, types.ShopCard{Card: state.NewCard(run, def), Price: price})
	}

	var relics []string
	for _, id := range defs.RelicOrder {
		if !state.HasRelic(run, id) {
			relics = append(relics, id)
		}
	}
	if len(relics) > 0 {
		shop.Relic = &types.ShopRelic{
			Relic: relics[rng.Intn(len(relics))],
			Price: rules.RelicBase + rng.Intn(rules.RelicSpread),
		}
	}
	state.Log(run, types.SeverityInfo, types.SourceSystem, "Connected to vendor API.")
	return shop
}

func spend(run *types.Run, price int) error {
	if run.Player.Gold < price {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, price, run.Player.Gold)
	}
	run.Player.Gold -= price
	return nil
}

// BuyCard purchases the shop card at index into the deck.
func BuyCard(run *types.Run, index int) error {
	shop := run.Shop
	if shop == nil || index < 0 || index >= len(shop.Cards) {
		return fmt.Errorf("%w: shop card %d", ErrNoSuchOption, index+1)
	}
	item := shop.Cards[index]
	if err := spend(run, item.Price); err != nil {
		return err
	}
	run.Player.Deck = append(run.Player.Deck, item.Card)
	shop.Cards = append(shop.Cards[:index], shop.Cards[index+1:]...)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Bought %s for %dG.", item.Card.Name, item.Price)
	return nil
}

// BuyRelic purchases the shop's relic.
func BuyRelic(run *types.Run, defs *state.Defs) error {
	shop := run.Shop
	if shop == nil || shop.Relic == nil {
		return fmt.Errorf("%w: no relic for sale", ErrNoSuchOption)
	}
	if err := spend(run, shop.Relic.Price); err != nil {
		return err
	}
	run.Player.Relics = append(run.Player.Relics, shop.Relic.Relic)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Installed %s for %dG.", defs.Relics[shop.Relic.Relic].Name, shop.Relic.Price)
	shop.Relic = nil
	return nil
}

// RemoveCard pays for removing a card from the deck. An empty cardID
// removes the first legacy card, else the last card. The price rises
// after every use.
func RemoveCard(run *types.Run, defs *state.Defs, cardID string) error {
	shop := run.Shop
	if shop == nil {
		return fmt.Errorf("%w: no removal service", ErrNoSuchOption)
	}
	p := &run.Player
	if len(p.Deck) == 0 {
		return fmt.Errorf("%w: deck is empty", ErrNoSuchOption)
	}
	idx := len(p.Deck) - 1
	if cardID != "" {
		if idx = state.IndexOf(p.Deck, cardID); idx < 0 {
			return fmt.Errorf("%w: card %q not in deck", ErrNoSuchOption, cardID)
		}
	} else if i := firstLegacy(p.Deck); i >= 0 {
		idx = i
	}
	if err := spend(run, shop.RemovePrice); err != nil {
		return err
	}
	var gone types.Card
	p.Deck, gone = state.TakeAt(p.Deck, idx)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Removed %s for %dG.", gone.Name, shop.RemovePrice)
	shop.RemovePrice += defs.Rules.Shop.RemoveStep
	return nil
}

// Rest heals at a rest stop.
func Rest(run *types.Run, rules types.Rules) int {
	n := state.HealPlayer(run, rules.RestHeal)
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Repaired system: restored %d HP.", n)
	return n
}

func firstLegacy(pile []types.Card) int {
	for i, c := range pile {
		if c.Category == types.CategoryLegacy {
			return i
		}
	}
	return -1
}
