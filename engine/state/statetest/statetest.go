// Package statetest provides fixture content and a scriptable Random for
// tests across the engine packages.
package statetest

import (
	"math/rand"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Rand is a deterministic Random. Queued Floats and Ints are returned
// first; afterwards values come from a seeded source. KeepOrder turns
// Shuffle into a no-op so pile order stays predictable.
type Rand struct {
	Floats    []float64
	Ints      []int
	KeepOrder bool
	src       *rand.Rand
}

// NewRand returns a Rand backed by the given seed.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if len(r.Ints) > 0 {
		v := r.Ints[0]
		r.Ints = r.Ints[1:]
		return v % n
	}
	return r.src.Intn(n)
}

func (r *Rand) Float64() float64 {
	if len(r.Floats) > 0 {
		v := r.Floats[0]
		r.Floats = r.Floats[1:]
		return v
	}
	return r.src.Float64()
}

func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	if r.KeepOrder {
		return
	}
	r.src.Shuffle(n, swap)
}

func (r *Rand) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0
	}
	roll := r.Intn(total)
	cum := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if roll < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Defs returns a small but complete catalog covering every effect kind,
// each enemy script, the three relics, and a handful of events.
func Defs() *state.Defs {
	d := &state.Defs{
		Cards:   map[string]types.CardDef{},
		Enemies: map[string]types.EnemyDef{},
		Relics:  map[string]types.RelicDef{},
		Classes: map[string]types.ClassDef{},
		Events:  map[string]types.EventDef{},
		Rules:   state.DefaultRules(),
	}
	card := func(c types.CardDef) {
		d.Cards[c.ID] = c
		d.CardOrder = append(d.CardOrder, c.ID)
	}
	dmg := func(n int) types.Effect { return types.Effect{Kind: types.EffectDamage, Amount: n} }
	blk := func(n int) types.Effect { return types.Effect{Kind: types.EffectBlock, Amount: n} }
	draw := func(n int) types.Effect { return types.Effect{Kind: types.EffectDraw, Amount: n} }
	power := func(id string) types.Effect { return types.Effect{Kind: types.EffectPower, Power: id} }

	// Legacy.
	card(types.CardDef{ID: "ping", Name: "Ping", Cost: 1, Type: types.CardAttack, Category: types.CategoryLegacy,
		Effects: []types.Effect{dmg(5)}})
	card(types.CardDef{ID: "percussive-maintenance", Name: "Percussive Maintenance", Cost: 1, Type: types.CardAttack,
		Category: types.CategoryLegacy, Effects: []types.Effect{dmg(6)}})
	card(types.CardDef{ID: "duct-tape", Name: "Duct Tape", Cost: 1, Type: types.CardSkill, Category: types.CategoryLegacy,
		Effects: []types.Effect{blk(5)}})
	card(types.CardDef{ID: "reboot", Name: "Reboot", Cost: 0, Type: types.CardSkill, Category: types.CategoryLegacy,
		EndsTurn: true, Effects: []types.Effect{{Kind: types.EffectHeal, Amount: 3}}})
	card(types.CardDef{ID: "coffee-break", Name: "Coffee Break", Cost: 1, Type: types.CardSkill, Category: types.CategoryLegacy,
		Effects: []types.Effect{draw(2), {Kind: types.EffectAddStatus, Status: "jitters"}}})
	card(types.CardDef{ID: "spaghetti-code", Name: "Spaghetti Code", Cost: 1, Type: types.CardAttack, Category: types.CategoryLegacy,
		Effects: []types.Effect{{Kind: types.EffectDamage, Amount: 4, Max: 8}}})
	card(types.CardDef{ID: "hard-drive-spin", Name: "Hard Drive Spin-Up", Cost: 2, Type: types.CardAttack,
		Category: types.CategoryLegacy, Retain: true, RequiresRetained: true, Effects: []types.Effect{dmg(12)}})

	// Cloud.
	card(types.CardDef{ID: "compute-engine", Name: "Compute Engine", Cost: 1, Type: types.CardAttack, Category: types.CategoryCloud,
		Effects: []types.Effect{dmg(9)}})
	card(types.CardDef{ID: "cloud-functions", Name: "Cloud Functions", Cost: 0, Type: types.CardAttack, Category: types.CategoryCloud,
		Effects: []types.Effect{dmg(3), draw(1)}})
	card(types.CardDef{ID: "cloud-storage", Name: "Cloud Storage", Cost: 1, Type: types.CardSkill, Category: types.CategoryCloud,
		Retain: true, Effects: []types.Effect{blk(6)}})
	card(types.CardDef{ID: "cloud-armor", Name: "Cloud Armor", Cost: 2, Type: types.CardSkill, Category: types.CategoryCloud,
		Effects: []types.Effect{blk(12), {Kind: types.EffectReflect, Amount: 3}}})
	card(types.CardDef{ID: "load-balancer", Name: "Load Balancer", Cost: 1, Type: types.CardSkill, Category: types.CategoryCloud,
		Effects: []types.Effect{draw(4), {Kind: types.EffectDiscardHand}}})
	card(types.CardDef{ID: "looker-dashboard", Name: "Looker Dashboard", Cost: 1, Type: types.CardSkill, Category: types.CategoryCloud,
		Effects: []types.Effect{{Kind: types.EffectScry, Amount: 3}}})
	card(types.CardDef{ID: "iam-policy", Name: "IAM Policy", Cost: 1, Type: types.CardSkill, Category: types.CategoryCloud,
		Effects: []types.Effect{{Kind: types.EffectCleanse}}})
	card(types.CardDef{ID: "bigquery-blast", Name: "BigQuery Blast", Cost: 2, Type: types.CardAttack, Category: types.CategoryCloud,
		Effects: []types.Effect{{Kind: types.EffectDamage, Amount: 15, PerDiscard: 5}}})
	card(types.CardDef{ID: "preemptible-vm", Name: "Preemptible VM", Cost: 0, Type: types.CardAttack, Category: types.CategoryCloud,
		Exhaust: true, Ethereal: true, Effects: []types.Effect{dmg(14)}})
	card(types.CardDef{ID: "apigee", Name: "Apigee Gateway", Cost: 2, Type: types.CardSkill, Category: types.CategoryCloud,
		Exhaust: true, Effects: []types.Effect{{Kind: types.EffectCancelIntent}}})
	card(types.CardDef{ID: "anthos-hybrid", Name: "Anthos Hybrid", Cost: 1, Type: types.CardSkill, Category: types.CategoryCloud,
		Effects: []types.Effect{{Kind: types.EffectPlayFromDiscard}}})
	card(types.CardDef{ID: "operations-suite", Name: "Operations Suite", Cost: 1, Type: types.CardPower, Category: types.CategoryCloud,
		Effects: []types.Effect{power("ops_suite")}})
	card(types.CardDef{ID: "dataflow", Name: "Dataflow Pipeline", Cost: 1, Type: types.CardPower, Category: types.CategoryCloud,
		Effects: []types.Effect{power("dataflow")}})
	card(types.CardDef{ID: "gke-swarm", Name: "GKE Swarm", Cost: 3, Type: types.CardPower, Category: types.CategoryCloud,
		Effects: []types.Effect{power("gke_turret")}})
	card(types.CardDef{ID: "spanner-shield", Name: "Spanner Shield", Cost: 3, Type: types.CardPower, Category: types.CategoryCloud,
		Effects: []types.Effect{power("spanner_shield")}})

	// Vertex.
	card(types.CardDef{ID: "the-prompt", Name: "The Prompt", Cost: 1, Type: types.CardSkill, Category: types.CategoryVertex,
		Effects: []types.Effect{{Kind: types.EffectGenerateCard, Pool: types.CategoryCloud}}})
	card(types.CardDef{ID: "model-fine-tuning", Name: "Model Fine-Tuning", Cost: 1, Type: types.CardSkill, Category: types.CategoryVertex,
		Effects: []types.Effect{{Kind: types.EffectUpgradeHand, Amount: 3}}})
	card(types.CardDef{ID: "grounding", Name: "Grounding", Cost: 2, Type: types.CardAttack, Category: types.CategoryVertex,
		Unblockable: true, Effects: []types.Effect{dmg(20)}})
	card(types.CardDef{ID: "multimodal", Name: "Multimodal", Cost: 0, Type: types.CardAttack, Category: types.CategoryVertex,
		XCost: true, Effects: []types.Effect{dmg(0), blk(0), draw(0)}})

	// Status and curses.
	card(types.CardDef{ID: "jitters", Name: "Jitters", Cost: 0, Type: types.CardStatus, Category: types.CategoryLegacy,
		Unplayable: true, EndTurnDamage: 1})
	card(types.CardDef{ID: "memory-leak", Name: "Memory Leak", Cost: 0, Type: types.CardStatus, Category: types.CategoryLegacy,
		Unplayable: true, Passive: types.PassiveReduceMaxEnergy})
	card(types.CardDef{ID: "legacy-code", Name: "Legacy Code", Cost: 1, Type: types.CardCurse, Category: types.CategoryLegacy,
		OnDraw: types.OnDrawDiscardRandom})
	card(types.CardDef{ID: "latency", Name: "Latency", Cost: 2, Type: types.CardCurse, Category: types.CategoryLegacy,
		Unplayable: true})
	card(types.CardDef{ID: "cloud-healing", Name: "Cloud Healing", Cost: 1, Type: types.CardStatus, Category: types.CategoryCloud,
		Fake: true, Effects: []types.Effect{{Kind: types.EffectHeal, Amount: 10}}})

	enemy := func(e types.EnemyDef) {
		d.Enemies[e.ID] = e
		d.EnemyOrder = append(d.EnemyOrder, e.ID)
	}
	enemy(types.EnemyDef{ID: "dummy", Name: "Test Dummy", Act: 1, Role: types.RoleNormal, MaxHP: 40, Script: "generic",
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 6}})
	enemy(types.EnemyDef{ID: "zombie-process", Name: "Zombie Process", Act: 1, Role: types.RoleNormal, MaxHP: 28,
		ReviveHP: 10, Script: "generic", Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 8}})
	enemy(types.EnemyDef{ID: "dust-bunny", Name: "Dust Bunny", Act: 1, Role: types.RoleNormal, MaxHP: 20, Thorns: 3,
		Script: "periodic", Attack: 6, DebuffEvery: 2, DebuffDesc: "Static Buildup",
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 6}})
	enemy(types.EnemyDef{ID: "spaghetti-monster", Name: "Spaghetti Monster", Act: 1, Role: types.RoleNormal, MaxHP: 35,
		Script: "periodic", Attack: 7, DebuffEvery: 3, Debuff: "inject_junk", Junk: "legacy-code", JunkMin: 2, JunkMax: 3,
		Opening: types.EnemyIntent{Type: types.IntentDebuff, Desc: "Tangle"}})
	enemy(types.EnemyDef{ID: "crt-golem", Name: "CRT Golem", Act: 1, Role: types.RoleElite, MaxHP: 55, Script: "generic",
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 10}})
	enemy(types.EnemyDef{ID: "monolith", Name: "The Monolith", Act: 1, Role: types.RoleBoss, MaxHP: 80, Script: "summoner",
		Attack: 12, StartsInvulnerable: true, Opening: types.EnemyIntent{Type: types.IntentSummon, Desc: "Compile Dependencies"}})
	enemy(types.EnemyDef{ID: "packet-loss", Name: "Packet Loss", Act: 2, Role: types.RoleNormal, MaxHP: 40,
		Script: "periodic", Attack: 8, DebuffEvery: 3, Debuff: "force_discard", DiscardCount: 2,
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 8}})
	enemy(types.EnemyDef{ID: "race-condition", Name: "Race Condition", Act: 2, Role: types.RoleNormal, MaxHP: 45,
		Script: "generic", FastPlayAt: 4, FastPlayPenalty: 10, Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 9}})
	enemy(types.EnemyDef{ID: "404-phantom", Name: "404 Phantom", Act: 2, Role: types.RoleNormal, MaxHP: 30, Dodge: 0.5,
		Script: "generic", Opening: types.EnemyIntent{Type: types.IntentDebuff}})
	enemy(types.EnemyDef{ID: "spicy-fan", Name: "Spicy Fan", Act: 2, Role: types.RoleNormal, MaxHP: 22, BurnEnergy: 1,
		Script: "generic", Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 5}})
	enemy(types.EnemyDef{ID: "ransomware-knight", Name: "Ransomware Knight", Act: 2, Role: types.RoleElite, MaxHP: 70,
		Script: "periodic", Attack: 14, DebuffEvery: 2, Debuff: "lock_cards", LockCount: 2,
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 14}})
	enemy(types.EnemyDef{ID: "bottleneck", Name: "The Bottleneck", Act: 2, Role: types.RoleBoss, MaxHP: 120,
		Script: "periodic", Attack: 15, DebuffEvery: 3, MaxCardsPerTurn: 3,
		Opening: types.EnemyIntent{Type: types.IntentDebuff, Desc: "Throttling connection..."}})
	enemy(types.EnemyDef{ID: "infinite-loop", Name: "Infinite Loop", Act: 3, Role: types.RoleNormal, MaxHP: 70,
		Script: "periodic", Attack: 12, DebuffEvery: 2, Debuff: "loop_hand",
		Opening: types.EnemyIntent{Type: types.IntentDebuff}})
	enemy(types.EnemyDef{ID: "overfit", Name: "Overfit", Act: 3, Role: types.RoleNormal, MaxHP: 65, Script: "generic",
		RepeatAt: 3, RepeatStrength: 2, Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 12}})
	enemy(types.EnemyDef{ID: "deep-fake", Name: "Deep Fake", Act: 3, Role: types.RoleElite, MaxHP: 100, Mimic: true,
		Script: "generic", Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 20}})
	enemy(types.EnemyDef{ID: "singularity", Name: "The Singularity", Act: 3, Role: types.RoleBoss, MaxHP: 200,
		Script: "deadline", DeadlineTurn: 10, ConsumeTurns: []int{4, 7},
		Opening: types.EnemyIntent{Type: types.IntentAttack, Value: 25}})

	for _, r := range []types.RelicDef{
		{ID: "hotfix-script", Name: "Hotfix Script"},
		{ID: "packet-filter", Name: "Packet Filter"},
		{ID: "the-algorithm", Name: "The Algorithm"},
	} {
		d.Relics[r.ID] = r
		d.RelicOrder = append(d.RelicOrder, r.ID)
	}

	starter := []string{
		"percussive-maintenance", "percussive-maintenance", "percussive-maintenance", "percussive-maintenance",
		"duct-tape", "duct-tape", "duct-tape", "duct-tape",
		"reboot", "coffee-break", "spaghetti-code", "hard-drive-spin",
	}
	d.Classes["senior-engineer"] = types.ClassDef{ID: "senior-engineer", Name: "Senior Engineer", Relic: "hotfix-script", Deck: starter}
	d.Classes["security-guardian"] = types.ClassDef{ID: "security-guardian", Name: "Security Guardian", Relic: "packet-filter", Deck: starter}
	d.Classes["data-scientist"] = types.ClassDef{ID: "data-scientist", Name: "Data Scientist", Relic: "the-algorithm", Deck: starter}

	event := func(e types.EventDef) {
		d.Events[e.ID] = e
		d.EventOrder = append(d.EventOrder, e.ID)
	}
	event(types.EventDef{ID: "mysterious-usb", Title: "The Mysterious USB", Act: 1, Options: []types.EventOption{
		{ID: "plug-it-in", Label: "Plug it in", EffectID: "gamble_usb", Risk: 0.5},
		{ID: "snap-it-in-half", Label: "Snap it in half", EffectID: "remove_curse"},
	}})
	event(types.EventDef{ID: "hackathon", Title: "The Hackathon", Options: []types.EventOption{
		{ID: "hook-up-the-iv", Label: "Hook up the IV", EffectID: "caffeine_iv", Value: 6},
		{ID: "hide-in-server-room", Label: "Hide in Server Room", EffectID: "full_heal_add_curse", Card: "latency"},
	}})
	event(types.EventDef{ID: "headhunter", Title: "The Headhunter", Act: 2, Options: []types.EventOption{
		{ID: "sell-data", Label: "Sell Data", EffectID: "lose_max_hp_gain_gold", Value: 100},
		{ID: "reject", Label: "Reject Offer", EffectID: "start_elite_combat"},
	}})
	return d
}

// NewRun builds a run for the given class on the fixture catalog.
func NewRun(defs *state.Defs, class string) *types.Run {
	return state.NewRun(defs, class, 1, "test-run")
}

// Card instantiates a fixture card into the run's id space.
func Card(run *types.Run, defs *state.Defs, id string) types.Card {
	return state.NewCardByID(run, defs, id)
}

// Cards instantiates n copies of a fixture card.
func Cards(run *types.Run, defs *state.Defs, id string, n int) []types.Card {
	out := make([]types.Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Card(run, defs, id))
	}
	return out
}

// Combat puts the run into a fresh player turn against the named enemy,
// with empty piles so tests can lay them out explicitly.
func Combat(run *types.Run, defs *state.Defs, enemyID string) {
	def, _ := state.LookupEnemy(defs, enemyID, 1)
	run.Enemy = &types.Enemy{EnemyDef: def, HP: def.MaxHP, Intent: def.Opening}
	run.Combat = &types.Combat{
		Turn:        1,
		Phase:       types.PhasePlayerTurn,
		TypesPlayed: map[types.CardType]int{},
		Counters:    map[string]int{},
	}
	run.Mode = types.ModeCombat
	run.Player.Deck = nil
	run.Player.Hand = nil
	run.Player.Discard = nil
	run.Player.Exhaust = nil
	run.Player.Energy = run.Player.MaxEnergy
}
