package loader

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/ascension/engine/effects"
	"github.com/nathoo/ascension/engine/encounter"
	"github.com/nathoo/ascension/engine/enemy"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/triggers"
	"github.com/nathoo/ascension/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var (
	validCardTypes  = []types.CardType{types.CardAttack, types.CardSkill, types.CardPower, types.CardStatus, types.CardCurse}
	validCategories = []types.Category{types.CategoryLegacy, types.CategoryCloud, types.CategoryVertex}
	validRoles      = []types.Role{types.RoleNormal, types.RoleElite, types.RoleBoss}
	validIntents    = []types.IntentType{
		types.IntentAttack, types.IntentDefend, types.IntentBuff,
		types.IntentDebuff, types.IntentSummon, types.IntentUnknown,
	}
)

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if len(defs.Cards) == 0 {
		ve.errorf("no cards defined")
	}
	if len(defs.Classes) == 0 {
		ve.errorf("no classes defined")
	}

	for _, id := range defs.CardOrder {
		validateCard(defs, defs.Cards[id], ve)
	}
	for _, id := range defs.EnemyOrder {
		validateEnemy(defs, defs.Enemies[id], ve)
	}
	validateActs(defs, ve)
	for _, id := range defs.RelicOrder {
		if !triggers.Registered(id) {
			ve.warnf("relic %q has no trigger handler and will do nothing", id)
		}
	}
	for id, c := range defs.Classes {
		if c.Relic != "" {
			if _, ok := defs.Relics[c.Relic]; !ok {
				ve.errorf("class %q: undefined relic %q", id, c.Relic)
			}
		}
		if len(c.Deck) == 0 {
			ve.errorf("class %q: empty starting deck", id)
		}
		for _, cid := range c.Deck {
			if _, ok := defs.Cards[cid]; !ok {
				ve.errorf("class %q: undefined card %q in deck", id, cid)
			}
		}
	}
	known := encounter.EventEffects()
	for _, id := range defs.EventOrder {
		ev := defs.Events[id]
		if len(ev.Options) == 0 {
			ve.errorf("event %q: no options", id)
		}
		for i, o := range ev.Options {
			if o.ID == "" {
				ve.errorf("event %q: option %d has no id", id, i+1)
			}
			if !known[o.EffectID] {
				ve.errorf("event %q option %q: unknown effect %q", id, o.ID, o.EffectID)
			}
			if o.Card != "" {
				if _, ok := defs.Cards[o.Card]; !ok {
					ve.errorf("event %q option %q: undefined card %q", id, o.ID, o.Card)
				}
			}
			if o.Risk < 0 || o.Risk > 1 {
				ve.errorf("event %q option %q: risk %.2f outside [0,1]", id, o.ID, o.Risk)
			}
		}
	}
	validateRules(defs.Rules, ve)

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateCard(defs *state.Defs, c types.CardDef, ve *ValidationError) {
	if !slices.Contains(validCardTypes, c.Type) {
		ve.errorf("card %q: unknown type %q", c.ID, c.Type)
	}
	if !slices.Contains(validCategories, c.Category) {
		ve.errorf("card %q: unknown category %q", c.ID, c.Category)
	}
	if c.Cost < 0 {
		ve.errorf("card %q: negative cost %d", c.ID, c.Cost)
	}
	if c.OnDraw != "" && c.OnDraw != types.OnDrawDiscardRandom {
		ve.errorf("card %q: unknown on_draw %q", c.ID, c.OnDraw)
	}
	if c.Passive != "" && c.Passive != types.PassiveReduceMaxEnergy {
		ve.errorf("card %q: unknown passive %q", c.ID, c.Passive)
	}
	for _, eff := range c.Effects {
		if !effects.Known(eff.Kind) {
			ve.errorf("card %q: unknown effect kind %q", c.ID, eff.Kind)
			continue
		}
		switch eff.Kind {
		case types.EffectDamage:
			if eff.Max > 0 && eff.Max < eff.Amount {
				ve.errorf("card %q: damage range %d..%d is empty", c.ID, eff.Amount, eff.Max)
			}
		case types.EffectAddStatus:
			if _, ok := defs.Cards[eff.Status]; !ok {
				ve.errorf("card %q: undefined status card %q", c.ID, eff.Status)
			}
		case types.EffectPower:
			if !triggers.Registered(eff.Power) {
				ve.warnf("card %q: power %q has no trigger handler", c.ID, eff.Power)
			}
		case types.EffectGenerateCard:
			if !slices.Contains(validCategories, eff.Pool) {
				ve.errorf("card %q: unknown pool %q", c.ID, eff.Pool)
			}
		}
	}
	if c.Type == types.CardPower && len(c.Effects) == 0 {
		ve.warnf("card %q: power card with no effects", c.ID)
	}
}

func validateEnemy(defs *state.Defs, e types.EnemyDef, ve *ValidationError) {
	if e.MaxHP <= 0 {
		ve.errorf("enemy %q: hp must be positive", e.ID)
	}
	if e.Act < 1 || e.Act > defs.Rules.ActCount {
		ve.errorf("enemy %q: act %d outside 1..%d", e.ID, e.Act, defs.Rules.ActCount)
	}
	if !slices.Contains(validRoles, e.Role) {
		ve.errorf("enemy %q: unknown role %q", e.ID, e.Role)
	}
	if !slices.Contains(enemy.Scripts(), e.Script) {
		ve.errorf("enemy %q: unknown script %q", e.ID, e.Script)
	}
	if !slices.Contains(validIntents, e.Opening.Type) {
		ve.errorf("enemy %q: missing or unknown opening intent %q", e.ID, e.Opening.Type)
	}
	if e.Debuff != "" && !slices.Contains(enemy.Debuffs(), e.Debuff) {
		ve.errorf("enemy %q: unknown debuff %q", e.ID, e.Debuff)
	}
	if e.Debuff == "inject_junk" {
		if _, ok := defs.Cards[e.Junk]; !ok {
			ve.errorf("enemy %q: undefined junk card %q", e.ID, e.Junk)
		}
	}
	if e.Dodge < 0 || e.Dodge >= 1 {
		ve.errorf("enemy %q: dodge %.2f outside [0,1)", e.ID, e.Dodge)
	}
	if e.Script == "summoner" && e.Attack <= 0 {
		ve.warnf("enemy %q: summoner with no attack value", e.ID)
	}
}

// validateActs requires every act to have a normal enemy and a boss.
func validateActs(defs *state.Defs, ve *ValidationError) {
	for act := 1; act <= defs.Rules.ActCount; act++ {
		roles := map[types.Role]bool{}
		for _, id := range defs.EnemyOrder {
			if e := defs.Enemies[id]; e.Act == act {
				roles[e.Role] = true
			}
		}
		if !roles[types.RoleNormal] {
			ve.errorf("act %d: no normal enemy", act)
		}
		if !roles[types.RoleBoss] {
			ve.errorf("act %d: no boss", act)
		}
		if !roles[types.RoleElite] {
			ve.warnf("act %d: no elite, elite nodes fall back to normal enemies", act)
		}
	}
}

func validateRules(r types.Rules, ve *ValidationError) {
	positive := map[string]int{
		"hand_limit":   r.HandLimit,
		"meter_max":    r.MeterMax,
		"base_draw":    r.BaseDraw,
		"start_hp":     r.StartHP,
		"start_energy": r.StartEnergy,
		"act_count":    r.ActCount,
		"map.layers":   r.Map.Layers,
	}
	for _, k := range sortedKeys(positive) {
		if positive[k] <= 0 {
			ve.errorf("balance: %s must be positive, got %d", k, positive[k])
		}
	}
	if len(r.Reward.NormalOdds) != 3 || len(r.Reward.EliteOdds) != 3 {
		ve.errorf("balance: reward odds need three entries (common, uncommon, rare)")
	}
	if r.RarePoolPct < 0 || r.RarePoolPct > 100 {
		ve.errorf("balance: modernize_rare_pct %d outside 0..100", r.RarePoolPct)
	}
	total := 0
	for _, w := range r.Map.Weights {
		total += w
	}
	if total <= 0 {
		ve.errorf("balance: map weights sum to zero")
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
