package encounter

import (
	"fmt"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// PickEvent picks an event for the act. Events with Act 0 appear in every
// act. Falls back to the first authored event.
func PickEvent(defs *state.Defs, act int, rng state.Random) (types.EventDef, bool) {
	var pool []types.EventDef
	for _, id := range defs.EventOrder {
		if e := defs.Events[id]; e.Act == 0 || e.Act == act {
			pool = append(pool, e)
		}
	}
	if len(pool) > 0 {
		return pool[rng.Intn(len(pool))], true
	}
	if len(defs.EventOrder) > 0 {
		return defs.Events[defs.EventOrder[0]], false
	}
	return types.EventDef{}, false
}

// EventResult reports side effects the engine must carry out after an
// event option resolves.
type EventResult struct {
	Failed      bool // the option's risk roll failed
	StartCombat bool // an elite fight starts on the current node
}

// EventEffect applies one event outcome.
type EventEffect func(run *types.Run, defs *state.Defs, rng state.Random, opt types.EventOption) EventResult

const (
	maxHPLoss     = 10
	caffeineJolts = 2
	goldTax       = 15
	sacrificeDraw = 2
)

var eventEffects = map[string]EventEffect{
	"add_curse_gain_gold": func(run *types.Run, defs *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		run.Player.Gold += int(opt.Value)
		addToDeck(run, defs, opt.Card)
		return EventResult{}
	},
	"lose_hp_remove_card": func(run *types.Run, _ *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		loseHP(run, int(opt.Value))
		removeOne(run)
		return EventResult{}
	},
	"leave": func(*types.Run, *state.Defs, state.Random, types.EventOption) EventResult {
		return EventResult{}
	},
	"damage_upgrade": func(run *types.Run, defs *state.Defs, rng state.Random, opt types.EventOption) EventResult {
		loseHP(run, int(opt.Value))
		upgradeRandom(run, defs.Rules, rng)
		return EventResult{}
	},
	"remove_card": func(run *types.Run, _ *state.Defs, _ state.Random, _ types.EventOption) EventResult {
		removeOne(run)
		return EventResult{}
	},
	"heal": func(run *types.Run, _ *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		state.HealPlayer(run, int(opt.Value))
		return EventResult{}
	},
	"lose_max_hp_gain_gold": func(run *types.Run, _ *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		p := &run.Player
		p.MaxHP = max(1, p.MaxHP-maxHPLoss)
		p.HP = min(p.HP, p.MaxHP)
		p.Gold += int(opt.Value)
		return EventResult{}
	},
	"start_elite_combat": func(*types.Run, *state.Defs, state.Random, types.EventOption) EventResult {
		return EventResult{StartCombat: true}
	},
	"caffeine_iv": func(run *types.Run, defs *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		loseHP(run, int(opt.Value))
		run.Player.MaxEnergy++
		for i := 0; i < caffeineJolts; i++ {
			addToDeck(run, defs, "jitters")
		}
		return EventResult{}
	},
	"full_heal_add_curse": func(run *types.Run, defs *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		run.Player.HP = run.Player.MaxHP
		addToDeck(run, defs, opt.Card)
		return EventResult{}
	},
	"gamble_usb": func(run *types.Run, defs *state.Defs, _ state.Random, _ types.EventOption) EventResult {
		if def, ok := rareCard(defs); ok {
			run.Player.Deck = append(run.Player.Deck, state.NewCard(run, def))
			state.Log(run, types.SeverityNotice, types.SourcePlayer, "Found %s on the drive.", def.Name)
		}
		return EventResult{}
	},
	"remove_curse": func(run *types.Run, _ *state.Defs, _ state.Random, _ types.EventOption) EventResult {
		p := &run.Player
		kept := p.Deck[:0]
		for _, c := range p.Deck {
			if c.Type != types.CardCurse && c.Type != types.CardStatus {
				kept = append(kept, c)
			}
		}
		p.Deck = kept
		return EventResult{}
	},
	"sacrifice_hp_cards": func(run *types.Run, defs *state.Defs, rng state.Random, opt types.EventOption) EventResult {
		state.HurtPlayer(run, int(float64(run.Player.HP)*opt.Value))
		pool := state.CardPool(defs, types.CategoryCloud)
		for i := 0; i < sacrificeDraw && len(pool) > 0; i++ {
			run.Player.Deck = append(run.Player.Deck, state.NewCard(run, pool[rng.Intn(len(pool))]))
		}
		return EventResult{}
	},
	"sacrifice_gold_duplicate": func(run *types.Run, _ *state.Defs, rng state.Random, _ types.EventOption) EventResult {
		p := &run.Player
		p.Gold = 0
		if len(p.Deck) == 0 {
			return EventResult{}
		}
		src := p.Deck[rng.Intn(len(p.Deck))]
		dup := src
		run.Counters["card_seq"]++
		dup.ID = fmt.Sprintf("%s-%d", src.CardDef.ID, run.Counters["card_seq"])
		p.Deck = append(p.Deck, dup)
		state.Log(run, types.SeverityNotice, types.SourcePlayer, "Duplicated %s.", src.Name)
		return EventResult{}
	},
	"heal_lose_gold": func(run *types.Run, _ *state.Defs, _ state.Random, opt types.EventOption) EventResult {
		state.HealPlayer(run, int(opt.Value))
		run.Player.Gold = max(0, run.Player.Gold-goldTax)
		return EventResult{}
	},
	"upgrade_add_jitters": func(run *types.Run, defs *state.Defs, rng state.Random, _ types.EventOption) EventResult {
		upgradeRandom(run, defs.Rules, rng)
		addToDeck(run, defs, "jitters")
		return EventResult{}
	},
}

// EventEffects lists the recognized event effect ids.
func EventEffects() map[string]bool {
	ids := make(map[string]bool, len(eventEffects))
	for id := range eventEffects {
		ids[id] = true
	}
	return ids
}

// ApplyEventOption resolves the chosen option of the current event. A
// risky option that fails its roll deals the generic failure damage
// instead of its effect.
func ApplyEventOption(run *types.Run, defs *state.Defs, rng state.Random, index int) (EventResult, error) {
	ev := run.Event
	if ev == nil || index < 0 || index >= len(ev.Options) {
		return EventResult{}, fmt.Errorf("%w: event option %d", ErrNoSuchOption, index+1)
	}
	opt := ev.Options[index]
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Selected: %s.", opt.Label)

	if opt.Risk > 0 && rng.Float64() < opt.Risk {
		loseHP(run, defs.Rules.RiskFailDmg)
		state.Log(run, types.SeverityError, types.SourcePlayer, "Risk failed! Took %d damage.", defs.Rules.RiskFailDmg)
		return EventResult{Failed: true}, nil
	}

	fn, ok := eventEffects[opt.EffectID]
	if !ok {
		state.Log(run, types.SeverityWarning, types.SourceSystem, "Unknown event effect %q: nothing happens.", opt.EffectID)
		return EventResult{}, nil
	}
	return fn(run, defs, rng, opt), nil
}

// loseHP removes hp but never kills.
func loseHP(run *types.Run, n int) {
	if n <= 0 {
		return
	}
	run.Player.HP = max(1, run.Player.HP-n)
}

func addToDeck(run *types.Run, defs *state.Defs, id string) {
	if id == "" {
		return
	}
	c := state.NewCardByID(run, defs, id)
	run.Player.Deck = append(run.Player.Deck, c)
	state.Log(run, types.SeverityWarning, types.SourceSystem, "%s added to your deck.", c.Name)
}

// removeOne drops the first legacy card from the deck, else the last card.
func removeOne(run *types.Run) {
	p := &run.Player
	if len(p.Deck) == 0 {
		return
	}
	idx := firstLegacy(p.Deck)
	if idx < 0 {
		idx = len(p.Deck) - 1
	}
	var gone types.Card
	p.Deck, gone = state.TakeAt(p.Deck, idx)
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Removed %s from your deck.", gone.Name)
}

func upgradeRandom(run *types.Run, rules types.Rules, rng state.Random) {
	p := &run.Player
	if len(p.Deck) == 0 {
		return
	}
	c := &p.Deck[rng.Intn(len(p.Deck))]
	c.BonusDamage += rules.UpgradeStep
	c.Name += "+"
	state.Log(run, types.SeverityNotice, types.SourcePlayer, "Upgraded %s.", c.Name)
}

// rareCard is the prize of a successful gamble: the first vertex card,
// else an expensive cloud card, else any cloud card.
func rareCard(defs *state.Defs) (types.CardDef, bool) {
	if pool := state.CardPool(defs, types.CategoryVertex); len(pool) > 0 {
		return pool[0], true
	}
	cloud := state.CardPool(defs, types.CategoryCloud)
	for _, d := range cloud {
		if d.Cost >= 2 {
			return d, true
		}
	}
	if len(cloud) > 0 {
		return cloud[0], true
	}
	return types.CardDef{}, false
}
