package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/ascension/types"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
	registerIntentHelpers(L)
}

// curried registers a constructor of the form Name "id" { ... }.
func curried(L *lua.LState, name string, add func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Card "id" { ... }
	curried(L, "Card", func(id string, tbl *lua.LTable) {
		coll.cards = append(coll.cards, raw{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// Enemy "id" { ... }
	curried(L, "Enemy", func(id string, tbl *lua.LTable) {
		coll.enemies = append(coll.enemies, raw{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// Relic "id" { ... }
	curried(L, "Relic", func(id string, tbl *lua.LTable) {
		coll.relics = append(coll.relics, raw{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// Class "id" { ... }
	curried(L, "Class", func(id string, tbl *lua.LTable) {
		coll.classes = append(coll.classes, raw{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// Event "id" { ... }
	curried(L, "Event", func(id string, tbl *lua.LTable) {
		coll.events = append(coll.events, raw{id: id, table: tbl, order: coll.nextSourceOrder()})
	})

	// Option "id" { ... } returns the table with its id set, for use
	// inside an Event's options list.
	L.SetGlobal("Option", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Copies(n, "id") expands to a list of n card ids for class decks.
	L.SetGlobal("Copies", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		id := L.CheckString(2)
		tbl := L.NewTable()
		for i := 0; i < n; i++ {
			tbl.Append(lua.LString(id))
		}
		L.Push(tbl)
		return 1
	}))
}

// effect builds a tagged effect table.
func effect(L *lua.LState, kind types.EffectKind, fields map[string]lua.LValue) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(kind))
	for k, v := range fields {
		tbl.RawSetString(k, v)
	}
	return tbl
}

func registerEffectHelpers(L *lua.LState) {
	amount := func(name string, kind types.EffectKind) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			n := L.CheckNumber(1)
			L.Push(effect(L, kind, map[string]lua.LValue{"amount": n}))
			return 1
		}))
	}
	bare := func(name string, kind types.EffectKind) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(effect(L, kind, nil))
			return 1
		}))
	}
	named := func(name string, kind types.EffectKind, field string) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			s := L.CheckString(1)
			L.Push(effect(L, kind, map[string]lua.LValue{field: lua.LString(s)}))
			return 1
		}))
	}

	amount("Damage", types.EffectDamage)
	amount("Block", types.EffectBlock)
	amount("Reflect", types.EffectReflect)
	amount("Draw", types.EffectDraw)
	amount("Scry", types.EffectScry)
	amount("Heal", types.EffectHeal)
	amount("UpgradeHand", types.EffectUpgradeHand)
	bare("Cleanse", types.EffectCleanse)
	bare("PlayFromDiscard", types.EffectPlayFromDiscard)
	bare("DiscardHand", types.EffectDiscardHand)
	bare("CancelIntent", types.EffectCancelIntent)
	named("AddStatus", types.EffectAddStatus, "status")
	named("Power", types.EffectPower, "power")
	named("GenerateCard", types.EffectGenerateCard, "pool")

	// DamageRange(lo, hi) rolls uniformly in [lo, hi].
	L.SetGlobal("DamageRange", L.NewFunction(func(L *lua.LState) int {
		lo, hi := L.CheckNumber(1), L.CheckNumber(2)
		L.Push(effect(L, types.EffectDamage, map[string]lua.LValue{"amount": lo, "max": hi}))
		return 1
	}))

	// DamagePerDiscard(n, per) adds per for each card in the discard pile.
	L.SetGlobal("DamagePerDiscard", L.NewFunction(func(L *lua.LState) int {
		n, per := L.CheckNumber(1), L.CheckNumber(2)
		L.Push(effect(L, types.EffectDamage, map[string]lua.LValue{"amount": n, "per_discard": per}))
		return 1
	}))
}

// registerIntentHelpers registers the opening-intent helpers used by Enemy.
func registerIntentHelpers(L *lua.LState) {
	intent := func(name string, t types.IntentType, valued bool) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(t))
			if valued {
				tbl.RawSetString("value", L.CheckNumber(1))
			} else if L.GetTop() >= 1 {
				tbl.RawSetString("desc", lua.LString(L.CheckString(1)))
			}
			L.Push(tbl)
			return 1
		}))
	}
	intent("Attack", types.IntentAttack, true)
	intent("Defend", types.IntentDefend, true)
	intent("Buff", types.IntentBuff, false)
	intent("Debuff", types.IntentDebuff, false)
	intent("Summon", types.IntentSummon, false)
	intent("Unknown", types.IntentUnknown, false)
}
