// Package engine provides the Engine, the single mutation gate for a run.
// It wires the deck, effects, triggers, enemy, modernize, mapgen and
// encounter packages into the combat state machine and run progression,
// and exposes both a typed command API and a text Step for front ends.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nathoo/ascension/engine/deck"
	"github.com/nathoo/ascension/engine/encounter"
	"github.com/nathoo/ascension/engine/mapgen"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/narrative"
	"github.com/nathoo/ascension/types"
)

// Sentinel errors returned by commands. They are wrapped with detail, so
// match them with errors.Is.
var (
	ErrBusy             = errors.New("a continuation is pending")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrUnplayable       = errors.New("card is not playable")
	ErrWrongMode        = errors.New("command not available now")
	ErrNodeLocked       = errors.New("map node is not available")
	ErrInsufficientGold = encounter.ErrInsufficientGold
	ErrRunOver          = errors.New("run is over")
	ErrNoSuchOption     = encounter.ErrNoSuchOption
	ErrEmptyCatalog     = errors.New("content catalog is empty")
)

// Metrics receives run events. The telemetry package implements it.
type Metrics interface {
	CardPlayed(t types.CardType)
	CombatStarted(role types.Role)
	CombatEnded(won bool)
	NodeEntered(t types.NodeType)
	Modernized(replaced bool)
	RunEnded(mode types.Mode, act int)
}

type nopMetrics struct{}

func (nopMetrics) CardPlayed(types.CardType) {}
func (nopMetrics) CombatStarted(types.Role) {}
func (nopMetrics) CombatEnded(bool) {}
func (nopMetrics) NodeEntered(types.NodeType) {}
func (nopMetrics) Modernized(bool) {}
func (nopMetrics) RunEnded(types.Mode, int) {}

// Engine holds the content catalog and the mutable run. It is not safe for
// concurrent use.
type Engine struct {
	Defs *state.Defs
	Run  *types.Run
	RNG  state.Random

	// AutoCommit resolves every pending continuation immediately.
	AutoCommit bool

	logger         *zap.Logger
	metrics        Metrics
	narrator       narrative.Generator
	narrateTimeout time.Duration

	// fight is the node type the current combat pays out as.
	fight types.NodeType
}

type options struct {
	class          string
	seed           int64
	seeded         bool
	runID          string
	rng            state.Random
	autoCommit     bool
	logger         *zap.Logger
	metrics        Metrics
	narrator       narrative.Generator
	narrateTimeout time.Duration
}

// Option configures New.
type Option func(*options)

// WithClass selects the starting class.
func WithClass(id string) Option {
	return func(o *options) { o.class = id }
}

// WithSeed fixes the run seed. Without it the seed comes from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed, o.seeded = seed, true }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithRandom replaces the seeded RNG, mainly for tests.
func WithRandom(r state.Random) Option {
	return func(o *options) { o.rng = r }
}

// WithAutoCommit sets the initial AutoCommit mode. The default is on.
func WithAutoCommit(on bool) Option {
	return func(o *options) { o.autoCommit = on }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithNarrator sets the flavor text generator and its per-call timeout.
func WithNarrator(g narrative.Generator, timeout time.Duration) Option {
	return func(o *options) { o.narrator, o.narrateTimeout = g, timeout }
}

// New creates an engine with a fresh run: the class's starting deck is
// shuffled and the act 1 map generated.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	if defs == nil || len(defs.CardOrder) == 0 || len(defs.EnemyOrder) == 0 || len(defs.Classes) == 0 {
		return nil, ErrEmptyCatalog
	}
	o := options{autoCommit: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = time.Now().UnixNano()
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	if o.rng == nil {
		o.rng = NewRNG(o.seed)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.metrics == nil {
		o.metrics = nopMetrics{}
	}

	e := &Engine{
		Defs:           defs,
		Run:            state.NewRun(defs, o.class, o.seed, o.runID),
		RNG:            o.rng,
		AutoCommit:     o.autoCommit,
		logger:         o.logger.With(zap.String("run_id", o.runID)),
		metrics:        o.metrics,
		narrator:       o.narrator,
		narrateTimeout: o.narrateTimeout,
	}
	deck.Shuffle(e.Run, e.RNG)

	class := defs.Classes[e.Run.Player.Class]
	state.Log(e.Run, types.SeverityInfo, types.SourceSystem, "System boot: %s online.", class.Name)
	e.logger.Info("run started",
		zap.Int64("seed", o.seed),
		zap.String("class", e.Run.Player.Class))
	e.startAct(1)
	return e, nil
}

// Snapshot returns a deep copy of the run, safe to keep and read.
func (e *Engine) Snapshot() types.Snapshot {
	return types.Snapshot{Run: cloneRun(e.Run), Theme: state.Theme(e.Run.Act)}
}

// Log returns a copy of the game log.
func (e *Engine) Log() []types.LogEntry {
	return append([]types.LogEntry(nil), e.Run.Log...)
}

// Over reports whether the run has ended.
func (e *Engine) Over() bool {
	return e.Run.Mode == types.ModeWon || e.Run.Mode == types.ModeLost
}

// check gates a command on the run's mode.
func (e *Engine) check(op string, mode types.Mode) error {
	if e.Over() {
		return e.reject(op, fmt.Errorf("%s: %w", op, ErrRunOver))
	}
	if e.Run.Mode != mode {
		return e.reject(op, fmt.Errorf("%s: %w: mode is %s", op, ErrWrongMode, e.Run.Mode))
	}
	return nil
}

func (e *Engine) reject(op string, err error) error {
	e.logger.Debug("command rejected", zap.String("op", op), zap.Error(err))
	return err
}

// startAct generates the act map and returns to MAP mode.
func (e *Engine) startAct(act int) {
	run := e.Run
	run.Act = act
	run.Map = mapgen.Generate(act, e.Defs.Rules.Map, e.RNG)
	if err := mapgen.Validate(run.Map); err != nil {
		e.logger.Warn("generated map failed validation", zap.Int("act", act), zap.Error(err))
	}
	run.CurrentNode = ""
	run.Mode = types.ModeMap
	state.Log(run, types.SeverityNotice, types.SourceSystem, "Act %d initiated: %s. New map generated.", act, state.Theme(act))
}

// SelectMapNode travels to an available node and enters its encounter.
func (e *Engine) SelectMapNode(nodeID string) error {
	if err := e.check("select node", types.ModeMap); err != nil {
		return err
	}
	run := e.Run
	node, ok := mapgen.Node(run.Map, nodeID)
	if !ok || node.Status != types.NodeAvailable {
		return e.reject("select node", fmt.Errorf("select node: %w: %s", ErrNodeLocked, nodeID))
	}
	run.CurrentNode = node.ID
	e.metrics.NodeEntered(node.Type)
	state.Log(run, types.SeverityInfo, types.SourcePlayer, "Routing to %s (%s).", node.ID, node.Type)

	switch node.Type {
	case types.NodeBattle, types.NodeElite, types.NodeBoss:
		e.startCombat(node.Type)
	case types.NodeEvent:
		ev, ok := encounter.PickEvent(e.Defs, run.Act, e.RNG)
		if !ok {
			e.logger.Warn("no event for act, skipping node", zap.Int("act", run.Act))
			state.Log(run, types.SeverityWarning, types.SourceSystem, "Nothing happens here.")
			e.completeNode()
			return nil
		}
		run.Event = &ev
		run.Mode = types.ModeEvent
		state.Log(run, types.SeverityInfo, types.SourceSystem, "Event: %s.", ev.Title)
	case types.NodeShop:
		run.Shop = encounter.NewShop(run, e.Defs, e.RNG)
		run.Mode = types.ModeShop
	case types.NodeRest:
		encounter.Rest(run, e.Defs.Rules)
		e.completeNode()
	}
	return nil
}

// SelectEventOption resolves the current event's option at index.
func (e *Engine) SelectEventOption(index int) error {
	if err := e.check("choose", types.ModeEvent); err != nil {
		return err
	}
	run := e.Run
	res, err := encounter.ApplyEventOption(run, e.Defs, e.RNG, index)
	if err != nil {
		return e.reject("choose", fmt.Errorf("choose: %w", err))
	}
	run.Event = nil
	if res.StartCombat {
		e.startCombat(types.NodeElite)
		return nil
	}
	e.completeNode()
	return nil
}

// BuyCard purchases the shop card at index.
func (e *Engine) BuyCard(index int) error {
	if err := e.check("buy", types.ModeShop); err != nil {
		return err
	}
	if err := encounter.BuyCard(e.Run, index); err != nil {
		return e.reject("buy", fmt.Errorf("buy: %w", err))
	}
	return nil
}

// BuyRelic purchases the shop's relic.
func (e *Engine) BuyRelic() error {
	if err := e.check("buy relic", types.ModeShop); err != nil {
		return err
	}
	if err := encounter.BuyRelic(e.Run, e.Defs); err != nil {
		return e.reject("buy relic", fmt.Errorf("buy relic: %w", err))
	}
	return nil
}

// RemoveCard pays to remove a card from the deck. An empty id removes the
// first legacy card, else the last card.
func (e *Engine) RemoveCard(cardID string) error {
	if err := e.check("remove", types.ModeShop); err != nil {
		return err
	}
	if err := encounter.RemoveCard(e.Run, e.Defs, cardID); err != nil {
		return e.reject("remove", fmt.Errorf("remove: %w", err))
	}
	return nil
}

// LeaveShop closes the shop and completes its node.
func (e *Engine) LeaveShop() error {
	if err := e.check("leave", types.ModeShop); err != nil {
		return err
	}
	e.Run.Shop = nil
	state.Log(e.Run, types.SeverityInfo, types.SourcePlayer, "Disconnected from vendor.")
	e.completeNode()
	return nil
}

// SelectRewardCard adds the reward card at index to the deck and moves on.
func (e *Engine) SelectRewardCard(index int) error {
	if err := e.check("pick", types.ModeReward); err != nil {
		return err
	}
	if err := encounter.TakeReward(e.Run, index); err != nil {
		return e.reject("pick", fmt.Errorf("pick: %w", err))
	}
	e.finishReward()
	return nil
}

// SkipReward declines the reward cards and moves on.
func (e *Engine) SkipReward() error {
	if err := e.check("skip", types.ModeReward); err != nil {
		return err
	}
	state.Log(e.Run, types.SeverityInfo, types.SourcePlayer, "Skipped the card reward.")
	e.finishReward()
	return nil
}

// finishReward completes the fight's node. A boss win opens the next act,
// or wins the run after the last one.
func (e *Engine) finishReward() {
	run := e.Run
	run.Reward = nil
	boss := e.fight == types.NodeBoss
	e.fight = ""
	if !boss {
		e.completeNode()
		return
	}
	if run.Act >= e.Defs.Rules.ActCount {
		run.Mode = types.ModeWon
		run.Enemy, run.Combat = nil, nil
		state.Log(run, types.SeverityCritical, types.SourceSystem, "System ascended. Infrastructure fully modernized.")
		e.logger.Info("run won", zap.Int("act", run.Act))
		e.metrics.RunEnded(run.Mode, run.Act)
		return
	}
	run.Enemy, run.Combat = nil, nil
	e.startAct(run.Act + 1)
}

// completeNode marks the current node done and returns to the map.
func (e *Engine) completeNode() {
	run := e.Run
	if run.CurrentNode != "" {
		if err := mapgen.Complete(run.Map, run.CurrentNode); err != nil {
			e.logger.Warn("complete node", zap.String("node", run.CurrentNode), zap.Error(err))
		}
	}
	run.Enemy, run.Combat = nil, nil
	run.Mode = types.ModeMap
}

// Narration returns a job that asks the narrator for flavor text about the
// current encounter, or nil when there is no narrator or no enemy. The job
// touches no run state, so front ends may run it off their update loop and
// hand the text to RecordFlavor.
func (e *Engine) Narration() func(ctx context.Context) string {
	if e.narrator == nil || e.Run.Enemy == nil {
		return nil
	}
	prompt := narrative.EncounterPrompt(e.Run.Enemy.Name, state.Theme(e.Run.Act))
	g, timeout, logger := e.narrator, e.narrateTimeout, e.logger
	return func(ctx context.Context) string {
		text, err := narrative.Narrate(ctx, g, prompt, timeout)
		if err != nil {
			logger.Warn("narration failed, using fallback", zap.Error(err))
		}
		return text
	}
}

// RecordFlavor stores flavor text on the run and logs it.
func (e *Engine) RecordFlavor(text string) {
	if text == "" {
		return
	}
	e.Run.Flavor = text
	state.Log(e.Run, types.SeverityInfo, types.SourceNarrator, "%s", text)
}
