// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading: zero Lua at runtime.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/ascension/engine/effects"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// raw holds a constructor's table before compilation.
type raw struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or false if missing.
func getBool(tbl *lua.LTable, key string) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return false
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// eachTable calls fn for every table in the array part of tbl.
func eachTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// stringList flattens the array part of tbl into strings. Nested tables,
// as produced by Copies, are spliced in place.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			out = append(out, string(v))
		case *lua.LTable:
			out = append(out, stringList(v)...)
		}
	}
	return out
}

func intList(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	var out []int
	for i := 1; i <= tbl.MaxN(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct. Rules are
// filled in by the caller.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Cards:   map[string]types.CardDef{},
		Enemies: map[string]types.EnemyDef{},
		Relics:  map[string]types.RelicDef{},
		Classes: map[string]types.ClassDef{},
		Events:  map[string]types.EventDef{},
	}

	dup := func(kind, id string, seen bool) error {
		if seen {
			return fmt.Errorf("duplicate %s %q", kind, id)
		}
		return nil
	}

	for _, r := range coll.cards {
		_, seen := defs.Cards[r.id]
		if err := dup("card", r.id, seen); err != nil {
			return nil, err
		}
		defs.Cards[r.id] = compileCard(r)
		defs.CardOrder = append(defs.CardOrder, r.id)
	}
	for _, r := range coll.enemies {
		_, seen := defs.Enemies[r.id]
		if err := dup("enemy", r.id, seen); err != nil {
			return nil, err
		}
		defs.Enemies[r.id] = compileEnemy(r)
		defs.EnemyOrder = append(defs.EnemyOrder, r.id)
	}
	for _, r := range coll.relics {
		_, seen := defs.Relics[r.id]
		if err := dup("relic", r.id, seen); err != nil {
			return nil, err
		}
		defs.Relics[r.id] = types.RelicDef{ID: r.id, Name: getString(r.table, "name"), Text: getString(r.table, "text")}
		defs.RelicOrder = append(defs.RelicOrder, r.id)
	}
	for _, r := range coll.classes {
		_, seen := defs.Classes[r.id]
		if err := dup("class", r.id, seen); err != nil {
			return nil, err
		}
		defs.Classes[r.id] = types.ClassDef{
			ID:    r.id,
			Name:  getString(r.table, "name"),
			Text:  getString(r.table, "text"),
			Relic: getString(r.table, "relic"),
			Deck:  stringList(getTable(r.table, "deck")),
		}
	}
	for _, r := range coll.events {
		_, seen := defs.Events[r.id]
		if err := dup("event", r.id, seen); err != nil {
			return nil, err
		}
		defs.Events[r.id] = compileEvent(r)
		defs.EventOrder = append(defs.EventOrder, r.id)
	}
	return defs, nil
}

func compileCard(r raw) types.CardDef {
	tbl := r.table
	name := getString(tbl, "name")
	if name == "" {
		name = r.id
	}
	card := types.CardDef{
		ID:               r.id,
		Name:             name,
		Cost:             getInt(tbl, "cost"),
		Type:             types.CardType(getString(tbl, "type")),
		Category:         types.Category(getString(tbl, "category")),
		Text:             getString(tbl, "text"),
		Exhaust:          getBool(tbl, "exhaust"),
		Ethereal:         getBool(tbl, "ethereal"),
		Retain:           getBool(tbl, "retain"),
		RequiresRetained: getBool(tbl, "requires_retained"),
		Unplayable:       getBool(tbl, "unplayable"),
		XCost:            getBool(tbl, "x_cost"),
		Unblockable:      getBool(tbl, "unblockable"),
		AOE:              getBool(tbl, "aoe"),
		EndsTurn:         getBool(tbl, "ends_turn"),
		Fake:             getBool(tbl, "fake"),
		OnDraw:           getString(tbl, "on_draw"),
		Passive:          getString(tbl, "passive"),
		EndTurnDamage:    getInt(tbl, "end_turn_damage"),
	}
	eachTable(getTable(tbl, "effects"), func(t *lua.LTable) {
		card.Effects = append(card.Effects, compileEffect(t))
	})
	card.Effects = effects.Canonical(card.Effects)
	return card
}

func compileEffect(tbl *lua.LTable) types.Effect {
	return types.Effect{
		Kind:       types.EffectKind(getString(tbl, "kind")),
		Amount:     getInt(tbl, "amount"),
		Max:        getInt(tbl, "max"),
		PerDiscard: getInt(tbl, "per_discard"),
		Status:     getString(tbl, "status"),
		Power:      getString(tbl, "power"),
		Pool:       types.Category(getString(tbl, "pool")),
	}
}

func compileEnemy(r raw) types.EnemyDef {
	tbl := r.table
	e := types.EnemyDef{
		ID:              r.id,
		Name:            getString(tbl, "name"),
		Text:            getString(tbl, "text"),
		Act:             getInt(tbl, "act"),
		Role:            types.Role(getString(tbl, "role")),
		MaxHP:           getInt(tbl, "hp"),
		Dodge:           getNumber(tbl, "dodge"),
		Thorns:          getInt(tbl, "thorns"),
		ReviveHP:        getInt(tbl, "revive_hp"),
		BurnEnergy:      getInt(tbl, "burn_energy"),
		Mimic:           getBool(tbl, "mimic"),
		Script:          getString(tbl, "script"),
		Attack:          getInt(tbl, "attack"),
		Debuff:          getString(tbl, "debuff"),
		DebuffDesc:      getString(tbl, "debuff_desc"),
		DebuffEvery:     getInt(tbl, "debuff_every"),
		Junk:            getString(tbl, "junk"),
		JunkMin:         getInt(tbl, "junk_min"),
		JunkMax:         getInt(tbl, "junk_max"),
		DiscardCount:    getInt(tbl, "discard_count"),
		LockCount:       getInt(tbl, "lock_count"),
		MaxCardsPerTurn: getInt(tbl, "max_cards_per_turn"),
		FastPlayAt:      getInt(tbl, "fast_play_at"),
		FastPlayPenalty: getInt(tbl, "fast_play_penalty"),
		RepeatAt:        getInt(tbl, "repeat_at"),
		RepeatStrength:  getInt(tbl, "repeat_strength"),
		DeadlineTurn:    getInt(tbl, "deadline_turn"),
		ConsumeTurns:    intList(getTable(tbl, "consume_turns")),
	}
	e.StartsInvulnerable = getBool(tbl, "invulnerable")
	if e.Name == "" {
		e.Name = r.id
	}
	if e.Role == "" {
		e.Role = types.RoleNormal
	}
	if e.Script == "" {
		e.Script = "generic"
	}
	if op := getTable(tbl, "opening"); op != nil {
		e.Opening = types.EnemyIntent{
			Type:  types.IntentType(getString(op, "type")),
			Value: getInt(op, "value"),
			Desc:  getString(op, "desc"),
		}
	}
	return e
}

func compileEvent(r raw) types.EventDef {
	tbl := r.table
	ev := types.EventDef{
		ID:        r.id,
		Title:     getString(tbl, "title"),
		Narrative: getString(tbl, "narrative"),
		Act:       getInt(tbl, "act"),
	}
	eachTable(getTable(tbl, "options"), func(t *lua.LTable) {
		ev.Options = append(ev.Options, types.EventOption{
			ID:       getString(t, "id"),
			Label:    getString(t, "label"),
			Text:     getString(t, "text"),
			EffectID: getString(t, "effect"),
			Value:    getNumber(t, "value"),
			Risk:     getNumber(t, "risk"),
			Card:     getString(t, "card"),
		})
	})
	return ev
}
