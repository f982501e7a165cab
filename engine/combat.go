package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/ascension/engine/deck"
	"github.com/nathoo/ascension/engine/effects"
	"github.com/nathoo/ascension/engine/encounter"
	"github.com/nathoo/ascension/engine/enemy"
	"github.com/nathoo/ascension/engine/modernize"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/engine/triggers"
	"github.com/nathoo/ascension/types"
)

// startCombat spawns the node's enemy and deals the opening hand.
func (e *Engine) startCombat(node types.NodeType) {
	run := e.Run
	rules := e.Defs.Rules
	p := &run.Player

	run.Enemy = encounter.PickEnemy(e.Defs, run.Act, node, e.RNG)
	run.Combat = &types.Combat{
		Turn:        1,
		Phase:       types.PhasePlayerTurn,
		TypesPlayed: map[types.CardType]int{},
		Counters:    map[string]int{},
	}
	run.Mode = types.ModeCombat
	run.Flavor = ""
	e.fight = node

	// 1. Reset the player's per-combat resources.
	p.Block = 0
	p.Energy = p.MaxEnergy
	p.Powers = nil
	deck.DiscardHand(run)
	deck.Shuffle(run, e.RNG)

	state.Log(run, types.SeverityWarning, types.SourceSystem, "Encounter detected: %s.", run.Enemy.Name)

	// 2. Relic combat-start hooks.
	triggers.Fire(triggers.CombatStart, &triggers.Context{Run: run, Rules: rules})

	// 3. Opening draw.
	deck.Draw(run, rules, e.RNG, rules.BaseDraw)

	e.metrics.CombatStarted(run.Enemy.Role)
	e.logger.Debug("combat started",
		zap.String("enemy", run.Enemy.ID),
		zap.String("node", string(node)),
		zap.Int("act", run.Act))
	state.Log(run, types.SeverityInfo, types.SourceEnemy, "%s intends: %s.", run.Enemy.Name, DescribeIntent(run.Enemy.Intent))
}

// Pending reports whether a continuation awaits Commit.
func (e *Engine) Pending() bool {
	c := e.Run.Combat
	if e.Run.Mode != types.ModeCombat || c == nil {
		return false
	}
	return c.Phase == types.PhaseModernization || c.Phase == types.PhaseEnemyTurn
}

// turnGate checks that the player may act in combat right now.
func (e *Engine) turnGate(op string) error {
	if err := e.check(op, types.ModeCombat); err != nil {
		return err
	}
	if e.Pending() {
		return e.reject(op, fmt.Errorf("%s: %w: commit first", op, ErrBusy))
	}
	if e.Run.Combat.Phase != types.PhasePlayerTurn {
		return e.reject(op, fmt.Errorf("%s: %w", op, ErrNotYourTurn))
	}
	return nil
}

// Playability reports whether the hand card can be played right now.
func (e *Engine) Playability(cardID string) (types.Playability, error) {
	if e.Run.Combat == nil {
		return types.Playability{}, fmt.Errorf("playability: %w: not in combat", ErrWrongMode)
	}
	i := state.IndexOf(e.Run.Player.Hand, cardID)
	if i < 0 {
		return types.Playability{}, fmt.Errorf("playability: %w: %s", ErrCardNotInHand, cardID)
	}
	return effects.Playability(e.Run, e.Run.Player.Hand[i]), nil
}

// PlayCard plays the hand card with the given instance id.
func (e *Engine) PlayCard(cardID string) error {
	if err := e.turnGate("play"); err != nil {
		return err
	}
	run := e.Run
	p := &run.Player

	i := state.IndexOf(p.Hand, cardID)
	if i < 0 {
		return e.reject("play", fmt.Errorf("play: %w: %s", ErrCardNotInHand, cardID))
	}
	card := p.Hand[i]
	if pl := effects.Playability(run, card); !pl.Playable {
		return e.reject("play", fmt.Errorf("play %s: %w: %s", card.Name, ErrUnplayable, pl.Reason))
	}

	p.Hand, _ = state.TakeAt(p.Hand, i)
	out := effects.Resolve(effects.Context{Run: run, Defs: e.Defs, Rand: e.RNG, Card: card})
	e.metrics.CardPlayed(card.Type)

	// A killing blow that fills the meter modernizes on the spot; the
	// fight ends before the swap could be announced.
	if out.MeterFull && run.Player.HP > 0 && enemyDown(run.Enemy) {
		m := modernize.Begin(run, e.RNG)
		e.metrics.Modernized(modernize.Commit(run, e.Defs, e.RNG, m) != nil)
	}
	if e.settle() {
		return nil
	}
	switch {
	case out.MeterFull:
		m := modernize.Begin(run, e.RNG)
		run.Combat.Pending = &m
		run.Combat.EndTurnQueued = out.EndsTurn
		run.Combat.Phase = types.PhaseModernization
	case out.EndsTurn:
		state.Log(run, types.SeverityWarning, types.SourceSystem, "%s ends your turn.", card.Name)
		e.endPlayerTurn()
	}
	e.autoCommit()
	return nil
}

// EndTurn ends the player's turn and reveals the enemy's action.
func (e *Engine) EndTurn() error {
	if err := e.turnGate("end turn"); err != nil {
		return err
	}
	state.Log(e.Run, types.SeverityInfo, types.SourcePlayer, "Ended turn.")
	e.endPlayerTurn()
	e.autoCommit()
	return nil
}

// Commit resolves the pending continuation: the announced modernization,
// or the enemy's turn followed by the next player turn.
func (e *Engine) Commit() error {
	if e.Over() {
		return e.reject("commit", fmt.Errorf("commit: %w", ErrRunOver))
	}
	if !e.Pending() {
		return e.reject("commit", fmt.Errorf("commit: %w: nothing pending", ErrWrongMode))
	}
	e.advance()
	e.autoCommit()
	return nil
}

func (e *Engine) autoCommit() {
	for e.AutoCommit && e.Pending() {
		e.advance()
	}
}

// advance runs one pending continuation.
func (e *Engine) advance() {
	switch e.Run.Combat.Phase {
	case types.PhaseModernization:
		e.commitModernization()
	case types.PhaseEnemyTurn:
		e.enemyTurn()
	}
}

func (e *Engine) commitModernization() {
	run := e.Run
	c := run.Combat
	m := *c.Pending
	c.Pending = nil
	fresh := modernize.Commit(run, e.Defs, e.RNG, m)
	e.metrics.Modernized(fresh != nil)
	c.Phase = types.PhasePlayerTurn
	if c.EndTurnQueued {
		e.endPlayerTurn()
	}
}

// endPlayerTurn routes the hand, applies end-of-turn damage and hooks,
// and hands the turn to the enemy.
func (e *Engine) endPlayerTurn() {
	run := e.Run
	c := run.Combat
	c.EndTurnQueued = false

	c.EndedHand = c.EndedHand[:0:0]
	for _, card := range run.Player.Hand {
		c.EndedHand = append(c.EndedHand, card.ID)
	}
	if dmg := deck.EndOfTurn(run); dmg > 0 {
		n := state.HurtPlayer(run, dmg)
		state.Log(run, types.SeverityError, types.SourceSystem, "Status effects dealt %d damage.", n)
	}
	triggers.Fire(triggers.EndOfTurn, &triggers.Context{Run: run, Rules: e.Defs.Rules})
	if e.settle() {
		return
	}
	c.Phase = types.PhaseEnemyTurn
	state.Log(run, types.SeverityInfo, types.SourceEnemy, "%s's turn: %s.", run.Enemy.Name, DescribeIntent(run.Enemy.Intent))
}

// enemyTurn executes the revealed intent and sets up the next player turn.
func (e *Engine) enemyTurn() {
	run := e.Run
	en := run.Enemy

	// 1. Revive, then drop last turn's block.
	enemy.Revive(run)
	en.Block = 0

	// 2. Hard deadline.
	if enemy.Deadline(run) {
		state.Log(run, types.SeverityCritical, types.SourceEnemy, "%s reached turn %d. Total system absorption.", en.Name, run.Combat.Turn)
		e.defeat()
		return
	}

	// 3. Act.
	enemy.BeforeAct(run, e.RNG)
	if en.Intent.Type == types.IntentAttack {
		e.enemyAttack()
	} else {
		enemy.Execute(run, e.Defs, e.RNG)
	}
	enemy.AfterAct(run)

	if e.settle() {
		return
	}
	e.nextTurn()
}

// enemyAttack resolves an ATTACK intent against the player.
func (e *Engine) enemyAttack() {
	run := e.Run
	p := &run.Player
	rules := e.Defs.Rules

	raw := enemy.AttackDamage(run)
	raw = triggers.Fire(triggers.EnemyAttack, &triggers.Context{Run: run, Rules: rules, Amount: raw})

	blocked := min(p.Block, raw)
	p.Block -= blocked
	dmg := raw - blocked

	hp := triggers.Fire(triggers.Lethal, &triggers.Context{Run: run, Rules: rules, Amount: p.HP - dmg})
	p.HP = max(0, min(p.MaxHP, hp))
	state.Log(run, types.SeverityError, types.SourceEnemy, "%s attacks for %d (%d blocked).", run.Enemy.Name, raw, blocked)
}

// nextTurn prepares the player's next turn and picks the enemy's intent.
func (e *Engine) nextTurn() {
	run := e.Run
	c := run.Combat
	p := &run.Player
	rules := e.Defs.Rules

	c.Turn++
	p.Block = 0
	c.CardsPlayed = 0
	c.TypesPlayed = map[types.CardType]int{}

	extra := triggers.Fire(triggers.TurnStart, &triggers.Context{Run: run, Rules: rules})
	deck.Draw(run, rules, e.RNG, rules.BaseDraw+extra)

	// Energy reducers count once the new hand is in.
	reducers := 0
	for _, card := range p.Hand {
		if card.Passive == types.PassiveReduceMaxEnergy {
			reducers++
		}
	}
	p.Energy = max(1, p.MaxEnergy-reducers-run.Enemy.BurnEnergy)

	d := enemy.NextIntent(run.Enemy, c.Turn, e.RNG)
	run.Enemy.Intent = d.Intent
	run.Enemy.Invulnerable = d.Invulnerable
	c.Phase = types.PhasePlayerTurn
	state.Log(run, types.SeverityInfo, types.SourceSystem, "Turn %d. %s intends: %s.", c.Turn, run.Enemy.Name, DescribeIntent(d.Intent))
}

// settle applies the terminal checks. Returns true when the combat ended.
func (e *Engine) settle() bool {
	run := e.Run
	if run.Combat == nil || run.Enemy == nil {
		return false
	}
	if run.Player.HP <= 0 {
		e.defeat()
		return true
	}
	if enemyDown(run.Enemy) {
		e.victory()
		return true
	}
	return false
}

// enemyDown reports whether the enemy is dead for good.
func enemyDown(en *types.Enemy) bool {
	return en.HP <= 0 && !enemy.RevivePending(en)
}

func (e *Engine) victory() {
	run := e.Run
	run.Combat.Phase = types.PhaseVictory
	run.Combat.Pending = nil
	state.Log(run, types.SeverityNotice, types.SourceSystem, "%s terminated.", run.Enemy.Name)

	if n := deck.MergeAll(run); n > 0 {
		state.Log(run, types.SeverityInfo, types.SourceSystem, "Purged %d temporary cards.", n)
	}
	run.Player.Powers = nil
	run.Player.Block = 0
	run.Reward = encounter.Rewards(run, e.Defs, e.fight, e.RNG)
	run.Mode = types.ModeReward
	e.metrics.CombatEnded(true)
	e.logger.Debug("combat won", zap.String("enemy", run.Enemy.ID), zap.Int("turn", run.Combat.Turn))
}

func (e *Engine) defeat() {
	run := e.Run
	run.Combat.Phase = types.PhaseDefeat
	run.Combat.Pending = nil
	run.Mode = types.ModeLost
	state.Log(run, types.SeverityCritical, types.SourceSystem, "System failure. Run terminated in act %d.", run.Act)
	e.metrics.CombatEnded(false)
	e.metrics.RunEnded(run.Mode, run.Act)
	e.logger.Info("run lost", zap.Int("act", run.Act), zap.String("enemy", run.Enemy.ID))
}

// DescribeIntent renders an enemy intent for the log and front ends.
func DescribeIntent(in types.EnemyIntent) string {
	switch {
	case in.Type == types.IntentAttack:
		return fmt.Sprintf("attack for %d", in.Value)
	case in.Type == types.IntentDefend:
		return fmt.Sprintf("defend for %d", in.Value)
	case in.Desc != "":
		return fmt.Sprintf("%s (%s)", in.Desc, in.Type)
	default:
		return string(in.Type)
	}
}
