package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/ascension/engine/effects"
	"github.com/nathoo/ascension/engine/mapgen"
	"github.com/nathoo/ascension/engine/parser"
	"github.com/nathoo/ascension/engine/resolve"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// Step processes one typed command and returns the log entries it
// produced plus any informational output.
func (e *Engine) Step(input string) types.Result {
	result := types.Result{Command: input}
	before := len(e.Run.Log)

	// 1. Parse input.
	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do? (type help)")
		return result
	}

	// 2. Info verbs never mutate the run.
	if out, ok := e.info(intent); ok {
		result.Output = append(result.Output, out...)
		return result
	}

	// 3. Resolve references and run the command.
	err := e.command(intent)
	if err != nil {
		result.Err = err
		result.Output = append(result.Output, err.Error())
	}

	// 4. Collect the log entries this command appended.
	if len(e.Run.Log) > before {
		result.Log = append(result.Log, e.Run.Log[before:]...)
	}
	if pos, ok := e.RNG.(interface{ Position() int64 }); ok {
		e.logger.Debug("command",
			zap.String("verb", intent.Verb),
			zap.Int("entries", len(result.Log)),
			zap.Int64("rng_pos", pos.Position()))
	}
	return result
}

func (e *Engine) command(intent types.Intent) error {
	run := e.Run
	obj := intent.Object

	switch intent.Verb {
	case "play":
		if obj == "" {
			return errors.New("play what? (play <number or name>)")
		}
		id, err := resolve.Card(run.Player.Hand, obj, "hand")
		if err != nil {
			return err
		}
		return e.PlayCard(id)

	case "end":
		return e.EndTurn()

	case "commit":
		return e.Commit()

	case "go":
		if err := e.check("go", types.ModeMap); err != nil {
			return err
		}
		if obj == "" {
			return errors.New("go where? (go <number, node id or type>)")
		}
		id, err := resolve.Node(mapgen.Available(run.Map), obj)
		if err != nil {
			return err
		}
		return e.SelectMapNode(id)

	case "choose":
		if err := e.check("choose", types.ModeEvent); err != nil {
			return err
		}
		i, err := resolve.Index(obj, len(run.Event.Options), "options")
		if err != nil {
			return err
		}
		return e.SelectEventOption(i)

	case "buy":
		if err := e.check("buy", types.ModeShop); err != nil {
			return err
		}
		if obj == "relic" {
			return e.BuyRelic()
		}
		cards := make([]types.Card, len(run.Shop.Cards))
		for i, sc := range run.Shop.Cards {
			cards[i] = sc.Card
		}
		id, err := resolve.Card(cards, obj, "shop")
		if err != nil {
			return err
		}
		return e.BuyCard(state.IndexOf(cards, id))

	case "remove":
		if err := e.check("remove", types.ModeShop); err != nil {
			return err
		}
		id := ""
		if obj != "" {
			var err error
			if id, err = resolve.Card(run.Player.Deck, obj, "deck"); err != nil {
				return err
			}
		}
		return e.RemoveCard(id)

	case "leave":
		return e.LeaveShop()

	case "pick":
		if err := e.check("pick", types.ModeReward); err != nil {
			return err
		}
		id, err := resolve.Card(run.Reward.Cards, obj, "rewards")
		if err != nil {
			return err
		}
		return e.SelectRewardCard(state.IndexOf(run.Reward.Cards, id))

	case "skip":
		return e.SkipReward()
	}
	return fmt.Errorf("unknown command %q (type help)", intent.Verb)
}

// info answers read-only verbs.
func (e *Engine) info(intent types.Intent) ([]string, bool) {
	switch intent.Verb {
	case "status":
		return e.statusLines(), true
	case "hand":
		return e.handLines(), true
	case "deck":
		return e.deckLines(), true
	case "map":
		return e.mapLines(), true
	case "look":
		return e.lookLines(), true
	case "examine":
		return e.examineLines(intent.Object), true
	case "relics":
		return e.relicLines(), true
	case "help":
		return helpLines(), true
	}
	return nil, false
}

func (e *Engine) statusLines() []string {
	run := e.Run
	p := run.Player
	lines := []string{
		fmt.Sprintf("Act %d: %s   Mode: %s", run.Act, state.Theme(run.Act), run.Mode),
		fmt.Sprintf("HP %d/%d   Block %d   Energy %d/%d   Gold %d   Meter %d/%d",
			p.HP, p.MaxHP, p.Block, p.Energy, p.MaxEnergy, p.Gold, run.Meter, e.Defs.Rules.MeterMax),
		fmt.Sprintf("Deck %d   Hand %d   Discard %d   Exhaust %d",
			len(p.Deck), len(p.Hand), len(p.Discard), len(p.Exhaust)),
	}
	if len(p.Powers) > 0 {
		names := make([]string, len(p.Powers))
		for i, pw := range p.Powers {
			names[i] = pw.Name
		}
		lines = append(lines, "Powers: "+strings.Join(names, ", "))
	}
	return lines
}

func (e *Engine) handLines() []string {
	hand := e.Run.Player.Hand
	if len(hand) == 0 {
		return []string{"Your hand is empty."}
	}
	lines := make([]string, 0, len(hand))
	for i, c := range hand {
		mark := " "
		if e.Run.Combat != nil && !effects.Playability(e.Run, c).Playable {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s", mark, i+1, cardLine(e.Run, c)))
	}
	return lines
}

func (e *Engine) deckLines() []string {
	p := e.Run.Player
	lines := []string{fmt.Sprintf("Deck (%d):", len(p.Deck))}
	for i, c := range p.Deck {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, cardLine(e.Run, c)))
	}
	if len(p.Discard) > 0 {
		lines = append(lines, fmt.Sprintf("Discard (%d):", len(p.Discard)))
		for _, c := range p.Discard {
			lines = append(lines, "  "+c.Name)
		}
	}
	return lines
}

func (e *Engine) mapLines() []string {
	run := e.Run
	if run.Map == nil {
		return []string{"No map."}
	}
	lines := []string{fmt.Sprintf("Act %d map (> available, * completed, @ current):", run.Act)}
	for i := len(run.Map.Layers) - 1; i >= 0; i-- {
		var row []string
		for _, n := range run.Map.Layers[i].Nodes {
			mark := " "
			switch {
			case n.ID == run.CurrentNode:
				mark = "@"
			case n.Status == types.NodeAvailable:
				mark = ">"
			case n.Status == types.NodeCompleted:
				mark = "*"
			}
			row = append(row, mark+string(n.Type))
		}
		lines = append(lines, fmt.Sprintf("%2d  %s", i, strings.Join(row, "  ")))
	}
	if run.Mode == types.ModeMap {
		for i, n := range mapgen.Available(run.Map) {
			lines = append(lines, fmt.Sprintf("  %d. %s %s", i+1, n.ID, n.Type))
		}
	}
	return lines
}

func (e *Engine) lookLines() []string {
	run := e.Run
	switch run.Mode {
	case types.ModeCombat:
		en := run.Enemy
		lines := []string{
			fmt.Sprintf("%s  HP %d/%d  Block %d  Strength %d", en.Name, en.HP, en.MaxHP, en.Block, en.Strength),
			"Intent: " + DescribeIntent(en.Intent),
		}
		if en.Minions > 0 {
			lines = append(lines, fmt.Sprintf("Dependencies: %d", en.Minions))
		}
		if en.Invulnerable {
			lines = append(lines, "Invulnerable.")
		}
		if p := run.Combat.Pending; p != nil {
			lines = append(lines, fmt.Sprintf("Pending modernization: %s (%s). Type commit.", p.CardName, p.Location))
		} else if run.Combat.Phase == types.PhaseEnemyTurn {
			lines = append(lines, "Enemy turn pending. Type commit.")
		}
		if run.Flavor != "" {
			lines = append(lines, run.Flavor)
		}
		return lines
	case types.ModeEvent:
		lines := []string{run.Event.Title, run.Event.Narrative}
		for i, o := range run.Event.Options {
			line := fmt.Sprintf("  %d. %s: %s", i+1, o.Label, o.Text)
			if o.Risk > 0 {
				line += fmt.Sprintf(" (%.0f%% risk)", o.Risk*100)
			}
			lines = append(lines, line)
		}
		return lines
	case types.ModeShop:
		lines := []string{fmt.Sprintf("Vendor (gold %d):", run.Player.Gold)}
		for i, sc := range run.Shop.Cards {
			lines = append(lines, fmt.Sprintf("  %d. %s  %dG", i+1, cardLine(run, sc.Card), sc.Price))
		}
		if r := run.Shop.Relic; r != nil {
			lines = append(lines, fmt.Sprintf("  relic: %s  %dG", e.Defs.Relics[r.Relic].Name, r.Price))
		}
		lines = append(lines, fmt.Sprintf("  remove a card: %dG", run.Shop.RemovePrice))
		return lines
	case types.ModeReward:
		lines := []string{fmt.Sprintf("Reward: %d gold. Pick a card or skip:", run.Reward.Gold)}
		for i, c := range run.Reward.Cards {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, cardLine(run, c)))
		}
		return lines
	case types.ModeMap:
		return e.mapLines()
	case types.ModeWon:
		return []string{"Run complete. The system has ascended."}
	default:
		return []string{"Run over."}
	}
}

func (e *Engine) examineLines(ref string) []string {
	run := e.Run
	if ref == "" {
		return e.lookLines()
	}
	piles := [][]types.Card{run.Player.Hand, run.Player.Deck, run.Player.Discard}
	if run.Reward != nil {
		piles = append(piles, run.Reward.Cards)
	}
	if run.Shop != nil {
		for _, sc := range run.Shop.Cards {
			piles = append(piles, []types.Card{sc.Card})
		}
	}
	for _, pile := range piles {
		id, err := resolve.Card(pile, ref, "cards")
		if err != nil {
			continue
		}
		c := pile[state.IndexOf(pile, id)]
		return []string{cardLine(run, c), c.Text}
	}
	for _, id := range run.Player.Relics {
		r := e.Defs.Relics[id]
		if strings.EqualFold(id, ref) || strings.EqualFold(r.Name, ref) {
			return []string{r.Name, r.Text}
		}
	}
	if run.Enemy != nil && strings.Contains(strings.ToLower(run.Enemy.Name), ref) {
		return []string{run.Enemy.Name, run.Enemy.Text}
	}
	return []string{fmt.Sprintf("You see no %q.", ref)}
}

func (e *Engine) relicLines() []string {
	relics := e.Run.Player.Relics
	if len(relics) == 0 {
		return []string{"No relics installed."}
	}
	lines := make([]string, 0, len(relics))
	for _, id := range relics {
		r := e.Defs.Relics[id]
		lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Text))
	}
	return lines
}

func helpLines() []string {
	return []string{
		"Combat:  play <n|name>, end, commit, look",
		"Map:     go <n|node|type>, map",
		"Event:   choose <n>",
		"Shop:    buy <n|name>, buy relic, remove <card>, leave",
		"Reward:  pick <n|name>, skip",
		"Info:    status, hand, deck, relics, examine <thing>, help",
	}
}

func cardLine(run *types.Run, c types.Card) string {
	cost := fmt.Sprint(effects.EffectiveCost(run, c))
	if c.XCost {
		cost = "X"
	}
	line := fmt.Sprintf("%s [%s] %s/%s", c.Name, cost, c.Type, c.Category)
	if c.Locked {
		line += " (encrypted)"
	}
	return line
}
