// Package state holds the read-only content catalog, run construction,
// and the small helpers every rules package shares: card instantiation,
// pile surgery, hp changes, and the game log.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/ascension/types"
)

// Random is the single injected source of randomness. Every probabilistic
// choice in the engine draws from it.
type Random interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
	WeightedSelect(weights []int) int
}

// Defs holds the immutable content catalog loaded from Lua. The *Order
// slices keep authoring order so sampling is reproducible under a seed.
type Defs struct {
	Cards      map[string]types.CardDef
	CardOrder  []string
	Enemies    map[string]types.EnemyDef
	EnemyOrder []string
	Relics     map[string]types.RelicDef
	RelicOrder []string
	Classes    map[string]types.ClassDef
	Events     map[string]types.EventDef
	EventOrder []string
	Rules      types.Rules
}

// DefaultRules returns the stock balance table. balance.yaml overrides it.
func DefaultRules() types.Rules {
	return types.Rules{
		HandLimit:     10,
		MeterMax:      6,
		BaseDraw:      5,
		StartHP:       50,
		StartGold:     99,
		StartEnergy:   3,
		UpgradeStep:   3,
		ScryDiscard:   2,
		SurviveFloor:  10,
		RestHeal:      15,
		FallbackHeal:  5,
		RiskFailDmg:   15,
		BuffStrength:  2,
		SummonCount:   2,
		RarePoolPct:   10,
		ActCount:      3,
		StatusHeal:    2,
		TurretDamage:  5,
		HotfixDamage:  2,
		FirewallBlock: 8,
		Map: types.MapRules{
			Layers: 16,
			Weights: map[string]int{
				string(types.NodeBattle): 45,
				string(types.NodeEvent):  22,
				string(types.NodeElite):  16,
				string(types.NodeRest):   12,
				string(types.NodeShop):   5,
			},
		},
		Reward: types.RewardRules{
			Gold: map[string]int{
				string(types.NodeBattle): 25,
				string(types.NodeElite):  50,
				string(types.NodeBoss):   100,
			},
			NormalOdds:  []int{60, 37, 3},
			EliteOdds:   []int{45, 40, 15},
			CardChoices: 3,
		},
		Shop: types.ShopRules{
			Cards:        5,
			VertexPct:    30,
			CardBase:     50,
			CardSpread:   50,
			VertexMarkup: 50,
			RelicBase:    150,
			RelicSpread:  50,
			RemoveBase:   75,
			RemoveStep:   25,
		},
	}
}

// LookupCard returns the catalog card for id. A missing id falls back to
// the first authored card and reports ok=false so the caller can log it.
func LookupCard(defs *Defs, id string) (types.CardDef, bool) {
	if def, ok := defs.Cards[id]; ok {
		return def, true
	}
	if len(defs.CardOrder) > 0 {
		return defs.Cards[defs.CardOrder[0]], false
	}
	return types.CardDef{ID: id, Name: id, Type: types.CardStatus, Unplayable: true}, false
}

// LookupEnemy returns the catalog enemy for id, falling back to the first
// enemy of the same act, then the first enemy overall.
func LookupEnemy(defs *Defs, id string, act int) (types.EnemyDef, bool) {
	if def, ok := defs.Enemies[id]; ok {
		return def, true
	}
	for _, eid := range defs.EnemyOrder {
		if defs.Enemies[eid].Act == act {
			return defs.Enemies[eid], false
		}
	}
	if len(defs.EnemyOrder) > 0 {
		return defs.Enemies[defs.EnemyOrder[0]], false
	}
	return types.EnemyDef{ID: id, Name: id, Act: act, MaxHP: 1, Script: "generic"}, false
}

// LookupClass returns the class for id, falling back to the
// alphabetically first class.
func LookupClass(defs *Defs, id string) (types.ClassDef, bool) {
	if def, ok := defs.Classes[id]; ok {
		return def, true
	}
	ids := make([]string, 0, len(defs.Classes))
	for cid := range defs.Classes {
		ids = append(ids, cid)
	}
	sort.Strings(ids)
	if len(ids) > 0 {
		return defs.Classes[ids[0]], false
	}
	return types.ClassDef{ID: id, Name: id}, false
}

// CardPool returns playable catalog cards of the given categories in
// authoring order. Status and curse cards are never pooled.
func CardPool(defs *Defs, cats ...types.Category) []types.CardDef {
	var pool []types.CardDef
	for _, id := range defs.CardOrder {
		def := defs.Cards[id]
		if def.Type == types.CardStatus || def.Type == types.CardCurse {
			continue
		}
		for _, c := range cats {
			if def.Category == c {
				pool = append(pool, def)
				break
			}
		}
	}
	return pool
}

// NewCard instantiates a catalog card with a fresh instance id.
func NewCard(run *types.Run, def types.CardDef) types.Card {
	run.Counters["card_seq"]++
	return types.Card{
		ID:      fmt.Sprintf("%s-%d", def.ID, run.Counters["card_seq"]),
		CardDef: def,
	}
}

// NewCardByID instantiates a card by template id, logging a content gap
// when the id is unknown.
func NewCardByID(run *types.Run, defs *Defs, id string) types.Card {
	def, ok := LookupCard(defs, id)
	if !ok {
		Log(run, types.SeverityWarning, types.SourceSystem,
			"Unknown card %q, substituting %s.", id, def.Name)
	}
	return NewCard(run, def)
}

// NewRun creates a fresh run for the given class. The starting deck is
// left in authoring order; the engine shuffles it.
func NewRun(defs *Defs, classID string, seed int64, runID string) *types.Run {
	r := defs.Rules
	run := &types.Run{
		ID:       runID,
		Seed:     seed,
		Act:      1,
		Mode:     types.ModeMap,
		Counters: map[string]int{},
		Log:      []types.LogEntry{},
	}
	class, ok := LookupClass(defs, classID)
	if !ok && classID != "" {
		Log(run, types.SeverityWarning, types.SourceSystem,
			"Unknown class %q, defaulting to %s.", classID, class.Name)
	}
	run.Player = types.Player{
		HP:        r.StartHP,
		MaxHP:     r.StartHP,
		Gold:      r.StartGold,
		Energy:    r.StartEnergy,
		MaxEnergy: r.StartEnergy,
		Class:     class.ID,
		Deck:      []types.Card{},
		Hand:      []types.Card{},
		Discard:   []types.Card{},
		Exhaust:   []types.Card{},
	}
	if class.Relic != "" {
		run.Player.Relics = append(run.Player.Relics, class.Relic)
	}
	for _, id := range class.Deck {
		run.Player.Deck = append(run.Player.Deck, NewCardByID(run, defs, id))
	}
	return run
}

// Log appends an entry to the run's game log.
func Log(run *types.Run, sev types.Severity, src types.Source, format string, args ...any) {
	run.Seq++
	turn := 0
	if run.Combat != nil {
		turn = run.Combat.Turn
	}
	run.Log = append(run.Log, types.LogEntry{
		Seq:      run.Seq,
		Turn:     turn,
		Severity: sev,
		Source:   src,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HurtPlayer removes hp, floored at 0, and returns the amount lost.
func HurtPlayer(run *types.Run, n int) int {
	if n <= 0 {
		return 0
	}
	before := run.Player.HP
	run.Player.HP = max(0, before-n)
	return before - run.Player.HP
}

// HealPlayer restores hp up to max and returns the amount healed.
func HealPlayer(run *types.Run, n int) int {
	if n <= 0 {
		return 0
	}
	before := run.Player.HP
	run.Player.HP = min(run.Player.MaxHP, before+n)
	return run.Player.HP - before
}

// HasRelic reports whether the player holds the relic.
func HasRelic(run *types.Run, id string) bool {
	for _, r := range run.Player.Relics {
		if r == id {
			return true
		}
	}
	return false
}

// PowerStacks counts active powers with the given id.
func PowerStacks(run *types.Run, id string) int {
	n := 0
	for _, p := range run.Player.Powers {
		if p.ID == id {
			n++
		}
	}
	return n
}

// RemovePowers drops every power with the given id.
func RemovePowers(run *types.Run, id string) {
	kept := run.Player.Powers[:0]
	for _, p := range run.Player.Powers {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	run.Player.Powers = kept
}

// IndexOf returns the position of the card instance in pile, or -1.
func IndexOf(pile []types.Card, id string) int {
	for i, c := range pile {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Take removes the card instance from pile and returns the shortened pile.
func Take(pile []types.Card, id string) ([]types.Card, types.Card, bool) {
	i := IndexOf(pile, id)
	if i < 0 {
		return pile, types.Card{}, false
	}
	c := pile[i]
	return append(pile[:i], pile[i+1:]...), c, true
}

// TakeAt removes the card at index i.
func TakeAt(pile []types.Card, i int) ([]types.Card, types.Card) {
	c := pile[i]
	return append(pile[:i], pile[i+1:]...), c
}

// Theme names the act's setting.
func Theme(act int) string {
	switch act {
	case 2:
		return "Lift & Shift Limbo"
	case 3:
		return "The Vertex Vanguard"
	default:
		return "The Dusty Server Closet"
	}
}
