// Package mapexport renders an act map as a one-page PDF. Layer 0 sits at
// the bottom, the boss at the top, and the route taken so far is drawn as
// a dashed red line.
package mapexport

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/nathoo/ascension/types"
)

// ErrEmptyMap is returned for a nil map or one with no layers.
var ErrEmptyMap = errors.New("mapexport: map has no layers")

const (
	pageW    = 595.28 // A4 in points
	pageH    = 841.89
	margin   = 48.0
	nodeSize = 22.0
	header   = 40.0
)

// glyph is the short label drawn inside a node.
var glyph = map[types.NodeType]string{
	types.NodeBattle: "B",
	types.NodeElite:  "E",
	types.NodeEvent:  "?",
	types.NodeShop:   "$",
	types.NodeRest:   "R",
	types.NodeBoss:   "X",
}

type point struct{ x, y float64 }

// compress toggles stream compression; tests turn it off to read the text.
var compress = true

// PDF renders m. current is the node the player stands on, or "".
func PDF(m *types.Map, current, title string) ([]byte, error) {
	if m == nil || len(m.Layers) == 0 {
		return nil, ErrEmptyMap
	}

	pos := layout(m)
	onPath := func(id string) bool {
		n, ok := find(m, id)
		return ok && (n.Status == types.NodeCompleted || n.ID == current)
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compress)
	pdf.AddPage()

	pdf.SetFillColor(18, 22, 30)
	pdf.Rect(0, 0, pageW, pageH, "F")

	pdf.SetTextColor(200, 220, 255)
	pdf.SetFont("Courier", "B", 16)
	pdf.SetXY(margin, margin-20)
	if title == "" {
		title = fmt.Sprintf("Act %d", m.Act)
	}
	pdf.CellFormat(pageW-2*margin, 18, title, "", 0, "L", false, 0, "")

	// Edges, route last so it draws on top.
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(70, 80, 100)
	forEachEdge(m, func(from, to types.MapNode) {
		a, b := pos[from.ID], pos[to.ID]
		pdf.Line(a.x, a.y, b.x, b.y)
	})
	pdf.SetDrawColor(220, 60, 60)
	pdf.SetLineWidth(2.5)
	pdf.SetDashPattern([]float64{8, 5}, 0)
	forEachEdge(m, func(from, to types.MapNode) {
		if onPath(from.ID) && onPath(to.ID) {
			a, b := pos[from.ID], pos[to.ID]
			pdf.Line(a.x, a.y, b.x, b.y)
		}
	})
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetLineWidth(1)

	pdf.SetFont("Courier", "B", 11)
	for _, layer := range m.Layers {
		for _, n := range layer.Nodes {
			p := pos[n.ID]
			r, g, b := nodeColor(n, current)
			pdf.SetFillColor(r, g, b)
			pdf.SetDrawColor(200, 220, 255)
			pdf.Circle(p.x, p.y, nodeSize/2, "FD")
			pdf.SetTextColor(10, 10, 10)
			pdf.SetXY(p.x-nodeSize/2, p.y-6)
			pdf.CellFormat(nodeSize, 12, glyph[n.Type], "", 0, "C", false, 0, "")
			if n.ID == current {
				pdf.SetFont("Courier", "I", 7)
				pdf.SetTextColor(255, 210, 80)
				pdf.SetXY(p.x-30, p.y+nodeSize/2+2)
				pdf.CellFormat(60, 8, "you are here", "", 0, "C", false, 0, "")
				pdf.SetFont("Courier", "B", 11)
			}
		}
	}

	legend(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("mapexport: %w", err)
	}
	return buf.Bytes(), nil
}

// layout places nodes on the page from their layer and X hint.
func layout(m *types.Map) map[string]point {
	pos := make(map[string]point)
	top := margin + header
	bottom := pageH - margin - header
	step := 0.0
	if len(m.Layers) > 1 {
		step = (bottom - top) / float64(len(m.Layers)-1)
	}
	width := pageW - 2*margin - nodeSize
	for i, layer := range m.Layers {
		y := bottom - float64(i)*step
		for _, n := range layer.Nodes {
			pos[n.ID] = point{x: margin + nodeSize/2 + n.X/100*width, y: y}
		}
	}
	return pos
}

func forEachEdge(m *types.Map, fn func(from, to types.MapNode)) {
	for _, layer := range m.Layers {
		for _, n := range layer.Nodes {
			for _, id := range n.Next {
				if to, ok := find(m, id); ok {
					fn(n, to)
				}
			}
		}
	}
}

func find(m *types.Map, id string) (types.MapNode, bool) {
	for _, layer := range m.Layers {
		for _, n := range layer.Nodes {
			if n.ID == id {
				return n, true
			}
		}
	}
	return types.MapNode{}, false
}

func nodeColor(n types.MapNode, current string) (int, int, int) {
	switch {
	case n.ID == current:
		return 255, 210, 80
	case n.Status == types.NodeCompleted:
		return 90, 100, 120
	case n.Status == types.NodeAvailable:
		return 120, 220, 140
	case n.Type == types.NodeBoss:
		return 230, 90, 90
	default:
		return 160, 175, 200
	}
}

func legend(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Courier", "", 8)
	pdf.SetTextColor(160, 175, 200)
	pdf.SetXY(margin, pageH-margin)
	pdf.CellFormat(pageW-2*margin, 10,
		"B battle  E elite  ? event  $ shop  R rest  X boss", "", 0, "C", false, 0, "")
}
