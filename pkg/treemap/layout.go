package treemap

import (
	"math"
	"slices"

	"github.com/mosaicviz/mosaic/pkg/tree"
)

// Padding values in viewport units.
const (
	outerPadding = 2.0 // inset between a container and its children
	innerGap     = 1.0 // gap between sibling rectangles
	repoInset    = 2.0 // inset around repositories in flat cushion mode
)

// LayoutNode is the per-pass geometry attached to one tree node. Layout
// trees are rebuilt from scratch on every pass and are owned exclusively by
// that pass; nothing here is persisted.
type LayoutNode struct {
	Node     *tree.Node
	Parent   *LayoutNode
	Depth    int
	Rect     Rect
	Weight   float64
	Children []*LayoutNode
}

// Count returns the number of layout nodes in the subtree.
func (ln *LayoutNode) Count() int {
	n := 1
	for _, c := range ln.Children {
		n += c.Count()
	}
	return n
}

// Walk visits the subtree pre-order.
func (ln *LayoutNode) Walk(visit func(*LayoutNode)) {
	visit(ln)
	for _, c := range ln.Children {
		c.Walk(visit)
	}
}

// Layout computes rectangle geometry for view within a width×height
// viewport. Each leaf weighs its line count, containers weigh the sum of
// their descendants, and within every container children are placed largest
// first (ties keep input order) so the partition is deterministic.
func Layout(view *tree.Node, width, height float64, cfg Config) *LayoutNode {
	if view == nil {
		return nil
	}
	root := buildWeighted(view, nil, 0)
	root.Rect = Rect{0, 0, width, height}
	layoutChildren(root, cfg)
	return root
}

func buildWeighted(n *tree.Node, parent *LayoutNode, depth int) *LayoutNode {
	ln := &LayoutNode{Node: n, Parent: parent, Depth: depth}
	if n.IsLeaf() {
		if n.Value > 0 {
			ln.Weight = float64(n.Value)
		}
		return ln
	}
	ln.Children = make([]*LayoutNode, 0, len(n.Children))
	for _, c := range n.Children {
		child := buildWeighted(c, ln, depth+1)
		ln.Weight += child.Weight
		ln.Children = append(ln.Children, child)
	}
	slices.SortStableFunc(ln.Children, func(a, b *LayoutNode) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	return ln
}

func layoutChildren(ln *LayoutNode, cfg Config) {
	if len(ln.Children) == 0 {
		return
	}
	content := ln.Rect.Inset(containerInset(ln, cfg))
	squarify(ln.Children, content)
	gap := siblingGap(cfg) / 2
	for _, c := range ln.Children {
		if gap > 0 {
			c.Rect = c.Rect.Inset(gap)
		}
		layoutChildren(c, cfg)
	}
}

// containerInset is the padding between a container's rectangle and its
// children. Flat cushion mode drops all padding except a small inset around
// repositories when their borders are shown, leaving room for the outline.
func containerInset(ln *LayoutNode, cfg Config) float64 {
	if cfg.flat() {
		if ln.Node.IsRepository() && cfg.ShowRepoBorders {
			return repoInset
		}
		return 0
	}
	return outerPadding
}

func siblingGap(cfg Config) float64 {
	if cfg.flat() {
		return 0
	}
	return innerGap
}

// squarify partitions r among items using the squarified treemap
// algorithm: rows are grown greedily while the worst aspect ratio in the
// row keeps improving, then fixed along the shorter side of the remaining
// rectangle. Items must be sorted by descending weight.
func squarify(items []*LayoutNode, r Rect) {
	positive := items
	for len(positive) > 0 && positive[len(positive)-1].Weight <= 0 {
		last := positive[len(positive)-1]
		last.Rect = Rect{r.X1, r.Y1, r.X1, r.Y1}
		positive = positive[:len(positive)-1]
	}
	if len(positive) == 0 {
		return
	}

	total := 0.0
	for _, it := range positive {
		total += it.Weight
	}
	scale := r.W() * r.H() / total

	areas := make([]float64, len(positive))
	for i, it := range positive {
		areas[i] = it.Weight * scale
	}

	rest := positive
	for len(rest) > 0 {
		side := math.Min(r.W(), r.H())
		n := 1
		best := worstAspect(areas[:n], side)
		for n < len(rest) {
			if w := worstAspect(areas[:n+1], side); w <= best {
				best = w
				n++
				continue
			}
			break
		}
		r = layRow(rest[:n], areas[:n], r)
		rest = rest[n:]
		areas = areas[n:]
	}
}

// worstAspect returns the worst rectangle aspect ratio of a row with the
// given areas laid along a strip of the given side length.
func worstAspect(areas []float64, side float64) float64 {
	rowArea := 0.0
	for _, a := range areas {
		rowArea += a
	}
	if rowArea <= 0 || side <= 0 {
		return math.MaxFloat64
	}
	thickness := rowArea / side
	worst := 0.0
	for _, a := range areas {
		length := a / thickness
		if length <= 0 {
			return math.MaxFloat64
		}
		ratio := math.Max(thickness/length, length/thickness)
		if ratio > worst {
			worst = ratio
		}
	}
	return worst
}

// layRow places one row of items along the shorter side of r and returns
// the remaining rectangle.
func layRow(row []*LayoutNode, areas []float64, r Rect) Rect {
	rowArea := 0.0
	for _, a := range areas {
		rowArea += a
	}
	if rowArea <= 0 || r.W() <= 0 || r.H() <= 0 {
		for _, it := range row {
			it.Rect = Rect{r.X0, r.Y0, r.X0, r.Y0}
		}
		return r
	}

	if r.W() >= r.H() {
		// Vertical strip on the left, items stacked top to bottom.
		tw := rowArea / r.H()
		y := r.Y0
		for i, it := range row {
			h := areas[i] / tw
			it.Rect = Rect{r.X0, y, r.X0 + tw, y + h}
			y += h
		}
		return Rect{r.X0 + tw, r.Y0, r.X1, r.Y1}
	}

	// Horizontal strip on top, items running left to right.
	th := rowArea / r.W()
	x := r.X0
	for i, it := range row {
		w := areas[i] / th
		it.Rect = Rect{x, r.Y0, x + w, r.Y0 + th}
		x += w
	}
	return Rect{r.X0, r.Y0 + th, r.X1, r.Y1}
}
