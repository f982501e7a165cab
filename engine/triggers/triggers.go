// Package triggers implements single-pass relic and power hook dispatch.
// Handlers mutate the run directly and never fire further hooks.
package triggers

import (
	"github.com/nathoo/ascension/engine/enemy"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Hook names a point in combat where relics and powers may act.
type Hook string

const (
	CombatStart  Hook = "combat_start"
	TurnStart    Hook = "turn_start"
	AttackPlayed Hook = "attack_played"
	PowerPlayed  Hook = "power_played"
	EndOfTurn    Hook = "end_of_turn"
	EnemyAttack  Hook = "enemy_attack"
	Lethal       Hook = "lethal"
)

// Context is the payload of one firing. Amount carries the value in
// flight: the damage multiplier for AttackPlayed, extra draws for TurnStart,
// incoming damage for EnemyAttack, and post-hit hp for Lethal. Handlers
// may rewrite it.
type Context struct {
	Run    *types.Run
	Rules  types.Rules
	Amount int
}

// Handler reacts to a hook. stacks is the number of copies held (always 1
// for relics).
type Handler func(ctx *Context, stacks int)

var relicHandlers = map[Hook]map[string]Handler{
	CombatStart:  {"packet-filter": packetFilter},
	AttackPlayed: {"the-algorithm": algorithm},
	EndOfTurn:    {"hotfix-script": hotfix},
}

var powerHandlers = map[Hook]map[string]Handler{
	TurnStart:   {"dataflow": dataflow},
	PowerPlayed: {"ops_suite": opsSuite},
	EndOfTurn:   {"gke_turret": turret},
	EnemyAttack: {"reflect": reflect},
	Lethal:      {"spanner_shield": spannerShield},
}

// Fire runs every handler registered for hook. Relics run in the order
// they were acquired and powers grouped by id in the order they were first
// played. Relics go first, except at end of turn where powers resolve
// before relics. Returns the possibly rewritten Amount.
func Fire(hook Hook, ctx *Context) int {
	if hook == EndOfTurn {
		firePowers(hook, ctx)
		fireRelics(hook, ctx)
	} else {
		fireRelics(hook, ctx)
		firePowers(hook, ctx)
	}
	return ctx.Amount
}

func fireRelics(hook Hook, ctx *Context) {
	hs := relicHandlers[hook]
	for _, id := range ctx.Run.Player.Relics {
		if h, ok := hs[id]; ok {
			h(ctx, 1)
		}
	}
}

func firePowers(hook Hook, ctx *Context) {
	run := ctx.Run
	hs := powerHandlers[hook]
	for _, id := range powerIDs(run.Player.Powers) {
		if h, ok := hs[id]; ok {
			h(ctx, state.PowerStacks(run, id))
		}
	}
}

// Registered reports whether any handler exists for the relic or power id.
func Registered(id string) bool {
	for _, hs := range relicHandlers {
		if _, ok := hs[id]; ok {
			return true
		}
	}
	for _, hs := range powerHandlers {
		if _, ok := hs[id]; ok {
			return true
		}
	}
	return false
}

func powerIDs(powers []types.Power) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range powers {
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func packetFilter(ctx *Context, _ int) {
	ctx.Run.Player.Block += ctx.Rules.FirewallBlock
	state.Log(ctx.Run, types.SeverityNotice, types.SourcePlayer, "Packet Filter: +%d block.", ctx.Rules.FirewallBlock)
}

// algorithm doubles every third attack card played while the relic is held.
// The count persists for the whole run.
func algorithm(ctx *Context, _ int) {
	run := ctx.Run
	run.Counters["algorithm_attacks"]++
	if run.Counters["algorithm_attacks"]%3 == 0 {
		ctx.Amount *= 2
		state.Log(run, types.SeverityNotice, types.SourcePlayer, "The Algorithm optimized this attack: double damage.")
	}
}

func hotfix(ctx *Context, _ int) {
	if ctx.Run.Enemy == nil {
		return
	}
	n := enemy.DirectDamage(ctx.Run, ctx.Rules.HotfixDamage)
	state.Log(ctx.Run, types.SeverityNotice, types.SourcePlayer, "Hotfix Script deals %d damage.", n)
}

func turret(ctx *Context, stacks int) {
	if ctx.Run.Enemy == nil {
		return
	}
	n := enemy.DirectDamage(ctx.Run, ctx.Rules.TurretDamage*stacks)
	state.Log(ctx.Run, types.SeverityNotice, types.SourcePlayer, "GKE Swarm deals %d damage.", n)
}

func dataflow(ctx *Context, stacks int) {
	ctx.Amount += stacks
}

func opsSuite(ctx *Context, _ int) {
	n := state.HealPlayer(ctx.Run, ctx.Rules.StatusHeal)
	state.Log(ctx.Run, types.SeverityNotice, types.SourcePlayer, "Operations Suite restores %d HP.", n)
}

// reflect returns the summed value of every reflect power to the attacker
// and consumes them.
func reflect(ctx *Context, _ int) {
	run := ctx.Run
	total := 0
	for _, p := range run.Player.Powers {
		if p.ID == "reflect" {
			total += p.Value
		}
	}
	state.RemovePowers(run, "reflect")
	if total <= 0 || run.Enemy == nil {
		return
	}
	n := enemy.DirectDamage(run, total)
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Reflected %d damage.", n)
}

func spannerShield(ctx *Context, _ int) {
	if ctx.Amount > 0 {
		return
	}
	ctx.Amount = ctx.Rules.SurviveFloor
	state.RemovePowers(ctx.Run, "spanner_shield")
	state.Log(ctx.Run, types.SeverityCritical, types.SourcePlayer, "Spanner Shield held: survived at %d HP.", ctx.Amount)
}
