package treemap

import (
	"strconv"
	"strings"

	"github.com/mosaicviz/mosaic/pkg/tree"
)

// DrillDownEvent is emitted when a rendered node is activated. Path runs
// from the true tree root down to the activated node, so the host can use
// it directly as the next navigation stack.
type DrillDownEvent struct {
	Node *tree.Node
	Path []*tree.Node
}

// HoverEvent carries the status line for the node under the pointer.
type HoverEvent struct {
	Text   string
	IsRepo bool
}

// ContextMenuEvent is emitted on secondary activation; the engine performs
// no filtering itself, it only reports the node and viewport coordinates.
type ContextMenuEvent struct {
	Node *tree.Node
	X, Y float64
}

// EventSink receives interaction events synthesized by a Pass. Emission is
// the only side effect; implementations decide what navigation, status
// display, or exclusion menu to drive.
type EventSink interface {
	DrillDown(DrillDownEvent)
	Hover(HoverEvent)
	HoverEnd()
	ContextMenu(ContextMenuEvent)
}

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) DrillDown(DrillDownEvent)     {}
func (NoopSink) Hover(HoverEvent)             {}
func (NoopSink) HoverEnd()                    {}
func (NoopSink) ContextMenu(ContextMenuEvent) {}

// NodeAt returns the deepest laid-out node containing the point, or nil
// when the point is outside the view.
func (p *Pass) NodeAt(x, y float64) *LayoutNode {
	if p.root == nil || !p.root.Rect.Contains(x, y) {
		return nil
	}
	ln := p.root
descend:
	for {
		for _, c := range ln.Children {
			if c.Rect.Contains(x, y) {
				ln = c
				continue descend
			}
		}
		return ln
	}
}

// Activate synthesizes a drill-down for the node at (x, y): the path from
// the local view root to the node, prefixed with the ancestry above the
// current view so depth and path stay continuous across navigation.
func (p *Pass) Activate(x, y float64) {
	ln := p.NodeAt(x, y)
	if ln == nil {
		return
	}
	local := localChain(ln)
	path := make([]*tree.Node, 0, len(p.stack)+len(local))
	if len(p.stack) > 0 {
		path = append(path, p.stack[:len(p.stack)-1]...)
	}
	path = append(path, local...)
	p.sink.DrillDown(DrillDownEvent{Node: ln.Node, Path: path})
}

// localChain collects the nodes from the layout root down to ln.
func localChain(ln *LayoutNode) []*tree.Node {
	var chain []*tree.Node
	for n := ln; n != nil; n = n.Parent {
		chain = append(chain, n.Node)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Hover emits the status line for the node at (x, y), or a hover-end when
// the pointer is outside every rectangle.
func (p *Pass) Hover(x, y float64) {
	ln := p.NodeAt(x, y)
	if ln == nil {
		p.sink.HoverEnd()
		return
	}
	p.sink.Hover(HoverEvent{
		Text:   p.hoverText(ln),
		IsRepo: ln.Node.IsRepository(),
	})
}

// HoverEnd clears hover state. It is emitted unconditionally so a pointer
// leaving the viewport clears the status line even if no hover was shown.
func (p *Pass) HoverEnd() {
	p.sink.HoverEnd()
}

// ContextRequest emits a context-menu event for the node at the given
// viewport coordinates.
func (p *Pass) ContextRequest(x, y float64) {
	ln := p.NodeAt(x, y)
	if ln == nil {
		return
	}
	p.sink.ContextMenu(ContextMenuEvent{Node: ln.Node, X: x, Y: y})
}

// hoverText builds the slash-joined name path from the true root to the
// node plus a parenthesized stats suffix.
func (p *Pass) hoverText(ln *LayoutNode) string {
	names := make([]string, 0, len(p.stack)+ln.Depth+1)
	if len(p.stack) > 0 {
		for _, n := range p.stack[:len(p.stack)-1] {
			names = append(names, n.Name)
		}
	}
	for _, n := range localChain(ln) {
		names = append(names, n.Name)
	}

	n := ln.Node
	var parts []string
	if n.IsRepository() {
		parts = append(parts, "repo")
	}
	if n.Value > 0 {
		parts = append(parts, formatCount(n.Value)+" lines")
	}
	parts = append(parts, formatChanges(p.commitTotal(n)))
	if n.Contributors != nil && n.Contributors.Count > 0 {
		parts = append(parts, pluralize(n.Contributors.Count, "contributor"))
	}

	return strings.Join(names, "/") + " (" + strings.Join(parts, ", ") + ")"
}

// commitTotal is the commit count for the active timeframe: aggregated over
// the subtree for containers, the raw field for files.
func (p *Pass) commitTotal(n *tree.Node) int {
	if n.IsLeaf() {
		return n.CommitCount(p.cfg.lastYear())
	}
	lastYear := p.cfg.lastYear()
	return tree.Aggregate(n, func(leaf *tree.Node) int {
		return leaf.CommitCount(lastYear)
	})
}

func formatChanges(count int) string {
	if count == 0 {
		return "no file changes"
	}
	return pluralize(count, "file change")
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return formatCount(count) + " " + noun + "s"
}

// formatCount renders n with thousands separators ("1,234").
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
