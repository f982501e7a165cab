// Package mapgen generates the layered act map and propagates node
// unlocks as the player advances.
package mapgen

import (
	"fmt"
	"math"

	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

// rollOrder is the order node types are weighed in.
var rollOrder = []types.NodeType{
	types.NodeBattle,
	types.NodeEvent,
	types.NodeElite,
	types.NodeRest,
	types.NodeShop,
}

// Weights returns the node-type weights for a layer, in rollOrder, after
// the act's tuning is applied to the base table.
func Weights(rules types.MapRules, act, layer int) []int {
	w := map[types.NodeType]int{}
	for _, t := range rollOrder {
		w[t] = rules.Weights[string(t)]
	}
	switch act {
	case 1:
		if layer < 5 {
			w[types.NodeBattle] += w[types.NodeElite]
			w[types.NodeElite] = 0
		}
		w[types.NodeRest] = 18
		w[types.NodeBattle] -= 6
	case 2:
		w[types.NodeEvent] = 30
		w[types.NodeBattle] -= 8
	case 3:
		w[types.NodeElite] = 25
		w[types.NodeBattle] -= 9
	}
	out := make([]int, len(rollOrder))
	for i, t := range rollOrder {
		out[i] = max(0, w[t])
	}
	return out
}

func rollType(rules types.MapRules, act, layer int, rng state.Random) types.NodeType {
	return rollOrder[rng.WeightedSelect(Weights(rules, act, layer))]
}

// Generate builds a fresh act map. Layer 0 holds three available battles,
// the second-to-last layer is a rest stop, and the last is the boss.
func Generate(act int, rules types.MapRules, rng state.Random) *types.Map {
	n := rules.Layers
	if n < 3 {
		n = 16
	}
	m := &types.Map{Act: act, Layers: make([]types.MapLayer, n)}

	for i := 0; i < n; i++ {
		start, boss, rest := i == 0, i == n-1, i == n-2
		count := rng.Intn(3) + 2
		switch {
		case start:
			count = 3
		case boss:
			count = 1
		}
		seg := 100.0 / float64(count+1)

		nodes := make([]types.MapNode, count)
		for j := 0; j < count; j++ {
			var t types.NodeType
			switch {
			case start:
				t = types.NodeBattle
			case boss:
				t = types.NodeBoss
			case rest:
				t = types.NodeRest
			case i == 5:
				t = types.NodeBattle
				if rng.Float64() > 0.3 {
					t = types.NodeElite
				}
			case i == 8:
				t = types.NodeEvent
				if rng.Float64() > 0.5 {
					t = types.NodeShop
				}
			case act == 3 && (i == 11 || i == 12):
				if rng.Float64() > 0.7 {
					t = types.NodeShop
				} else {
					t = rollType(rules, act, i, rng)
				}
			default:
				t = rollType(rules, act, i, rng)
			}

			x := seg * float64(j+1)
			if boss {
				x = 50
			}
			status := types.NodeLocked
			if start {
				status = types.NodeAvailable
			}
			nodes[j] = types.MapNode{
				ID:     fmt.Sprintf("L%d-N%d", i, j),
				Layer:  i,
				Type:   t,
				Status: status,
				X:      x,
			}
		}
		m.Layers[i].Nodes = nodes
	}

	connect(m, rng)
	repairOrphans(m)
	return m
}

// connect links every node to the nearest node of the next layer and,
// sometimes, to one neighbor of it.
func connect(m *types.Map, rng state.Random) {
	for i := 0; i < len(m.Layers)-1; i++ {
		cur, next := m.Layers[i].Nodes, m.Layers[i+1].Nodes
		ratio := float64(len(next)) / float64(len(cur))
		for j := range cur {
			closest := int(math.Round(float64(j) * ratio))
			targets := []int{min(max(0, closest), len(next)-1)}
			if rng.Float64() > 0.4 && len(next) > 1 {
				second := closest + 1
				if rng.Float64() > 0.5 {
					second = closest - 1
				}
				if second >= 0 && second < len(next) && second != targets[0] {
					targets = append(targets, second)
				}
			}
			for _, t := range targets {
				link(&cur[j], &next[t])
			}
		}
	}
}

// repairOrphans gives every parentless node past layer 0 an edge from the
// horizontally closest node of the previous layer.
func repairOrphans(m *types.Map) {
	for i := 1; i < len(m.Layers); i++ {
		prev := m.Layers[i-1].Nodes
		for j := range m.Layers[i].Nodes {
			node := &m.Layers[i].Nodes[j]
			if len(node.Parents) > 0 {
				continue
			}
			best, dist := 0, math.Inf(1)
			for k, p := range prev {
				if d := math.Abs(p.X - node.X); d < dist {
					best, dist = k, d
				}
			}
			link(&prev[best], node)
		}
	}
}

func link(from, to *types.MapNode) {
	from.Next = append(from.Next, to.ID)
	to.Parents = append(to.Parents, from.ID)
}

// Validate checks the structural invariants of a generated map and
// returns an error describing the first violation.
func Validate(m *types.Map) error {
	n := len(m.Layers)
	if n < 2 {
		return fmt.Errorf("map has %d layers", n)
	}
	layerOf := map[string]int{}
	for i, l := range m.Layers {
		if len(l.Nodes) == 0 {
			return fmt.Errorf("layer %d is empty", i)
		}
		for _, node := range l.Nodes {
			if _, dup := layerOf[node.ID]; dup {
				return fmt.Errorf("duplicate node id %q", node.ID)
			}
			layerOf[node.ID] = i
		}
	}
	if last := m.Layers[n-1].Nodes; len(last) != 1 || last[0].Type != types.NodeBoss {
		return fmt.Errorf("last layer must be a single boss node")
	}
	for i, l := range m.Layers {
		for _, node := range l.Nodes {
			if i < n-1 && len(node.Next) == 0 {
				return fmt.Errorf("node %s has no successors", node.ID)
			}
			if i > 0 && len(node.Parents) == 0 {
				return fmt.Errorf("node %s has no parents", node.ID)
			}
			for _, id := range node.Next {
				if layerOf[id] != i+1 {
					return fmt.Errorf("edge %s -> %s skips layers", node.ID, id)
				}
			}
			for _, id := range node.Parents {
				if layerOf[id] != i-1 {
					return fmt.Errorf("parent %s of %s is not in the previous layer", id, node.ID)
				}
			}
		}
	}
	return nil
}

// Node returns the node with the given id.
func Node(m *types.Map, id string) (*types.MapNode, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Layers {
		for j := range m.Layers[i].Nodes {
			if m.Layers[i].Nodes[j].ID == id {
				return &m.Layers[i].Nodes[j], true
			}
		}
	}
	return nil, false
}

// Available lists the nodes the player may travel to next.
func Available(m *types.Map) []types.MapNode {
	var out []types.MapNode
	if m == nil {
		return out
	}
	for _, l := range m.Layers {
		for _, node := range l.Nodes {
			if node.Status == types.NodeAvailable {
				out = append(out, node)
			}
		}
	}
	return out
}

// Complete marks the node completed, locks the other choices of its layer,
// and unlocks its successors.
func Complete(m *types.Map, id string) error {
	node, ok := Node(m, id)
	if !ok {
		return fmt.Errorf("unknown map node %q", id)
	}
	node.Status = types.NodeCompleted
	layer := m.Layers[node.Layer].Nodes
	for i := range layer {
		if layer[i].Status == types.NodeAvailable {
			layer[i].Status = types.NodeLocked
		}
	}
	for _, nid := range node.Next {
		if next, ok := Node(m, nid); ok && next.Status == types.NodeLocked {
			next.Status = types.NodeAvailable
		}
	}
	return nil
}
