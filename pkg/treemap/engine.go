package treemap

import (
	"time"

	"github.com/mosaicviz/mosaic/pkg/colors"
	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/observability"
	"github.com/mosaicviz/mosaic/pkg/tree"
)

// =============================================================================
// Fixed drawing constants
// =============================================================================

const (
	containerFill   = "#262b33"
	containerStroke = "#11151a"
	repoStroke      = "#e8e8e8"
	labelFill       = "#f5f5f5"

	strokeWidth     = 1.0
	repoStrokeWidth = 1.5

	labelSize      = 11.0
	labelPad       = 4.0
	minLabelWidth  = 56.0
	minLabelHeight = 18.0
)

// =============================================================================
// Engine
// =============================================================================

// Engine renders views onto surfaces and wires the resulting passes to an
// event sink. One engine can serve many passes; the only state it carries
// across them is the gradient cache and the sink.
type Engine struct {
	sink      EventSink
	gradients *gradientCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink routes interaction events to s instead of discarding them.
func WithSink(s EventSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// NewEngine creates an engine. Without options, events go to a NoopSink.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sink:      NoopSink{},
		gradients: newGradientCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pass is the result of one render: the geometry it produced plus the
// context needed to resolve pointer coordinates back into tree nodes and
// synthesize events. A pass stays valid until the host renders a
// replacement; it holds no reference to the surface.
type Pass struct {
	root  *LayoutNode
	stack []*tree.Node
	cfg   Config
	sink  EventSink
}

// Root returns the laid-out view root.
func (p *Pass) Root() *LayoutNode { return p.root }

// Render lays out view within a width×height viewport, draws it onto surf,
// and returns the pass plus the encoded surface output.
//
// stack is the navigation path from the true tree root down to view
// (inclusive); it keeps depth coloring and event paths continuous when the
// view is a drilled-in subtree. A nil or empty stack treats view as the
// root. Every call recomputes geometry and redraws from scratch.
func (e *Engine) Render(view *tree.Node, stack []*tree.Node, width, height float64, cfg Config, surf Surface) (*Pass, []byte, error) {
	if view == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "render: view is nil")
	}
	if len(stack) == 0 {
		stack = []*tree.Node{view}
	}
	hooks := observability.Render()
	viewPath := view.Path
	if viewPath == "" {
		viewPath = view.Name
	}

	hooks.OnLayoutStart(viewPath, countNodes(view))
	layoutStart := time.Now()
	root := Layout(view, width, height, cfg)
	hooks.OnLayoutComplete(viewPath, root.Count(), time.Since(layoutStart))

	hooks.OnRenderStart(cfg.ColorMode)
	renderStart := time.Now()
	surf.Begin(width, height)
	e.draw(root, stack, cfg, surf)
	out, err := surf.Finish()
	hooks.OnRenderComplete(cfg.ColorMode, time.Since(renderStart), err)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "render: surface failed")
	}

	return &Pass{root: root, stack: stack, cfg: cfg, sink: e.sink}, out, nil
}

func countNodes(n *tree.Node) int {
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}

// =============================================================================
// Drawing
// =============================================================================

// fillContext carries the per-pass inputs of fill resolution. Scalar scales
// and the category assignment are computed against the true tree root, not
// the current view, so a file keeps its color while the user drills in.
type fillContext struct {
	cfg         Config
	depthOffset int
	maxDepth    int
	maxActivity int
	byLanguage  map[string]string
}

func (e *Engine) draw(root *LayoutNode, stack []*tree.Node, cfg Config, surf Surface) {
	fc := newFillContext(stack, cfg)
	root.Walk(func(ln *LayoutNode) {
		if ln.Rect.W() <= 0 || ln.Rect.H() <= 0 {
			return
		}
		if ln.Node.IsLeaf() {
			e.drawLeaf(ln, fc, surf)
			return
		}
		e.drawContainer(ln, cfg, surf)
	})
}

func newFillContext(stack []*tree.Node, cfg Config) fillContext {
	trueRoot := stack[0]
	fc := fillContext{
		cfg:         cfg,
		depthOffset: len(stack) - 1,
	}
	switch cfg.ColorMode {
	case ModeDepth:
		fc.maxDepth = tree.FindMax(trueRoot, func(n *tree.Node, depth int) int {
			return depth
		})
	case ModeActivity:
		lastYear := cfg.lastYear()
		fc.maxActivity = tree.FindMax(trueRoot, func(n *tree.Node, depth int) int {
			return n.CommitCount(lastYear)
		})
	case ModeContributors:
		// Raw bucketing, no tree-wide scan needed.
	default:
		fc.byLanguage = colors.Assign(tree.CountLeafValues(trueRoot, func(n *tree.Node) string {
			return n.Language
		}))
	}
	return fc
}

// fill resolves the fill color for one leaf.
func (fc fillContext) fill(ln *LayoutNode) string {
	n := ln.Node
	switch fc.cfg.ColorMode {
	case ModeDepth:
		return colors.ForDepth(ln.Depth+fc.depthOffset, fc.maxDepth)
	case ModeActivity:
		return colors.ForActivity(n.CommitCount(fc.cfg.lastYear()), fc.maxActivity)
	case ModeContributors:
		count := 0
		if n.Contributors != nil {
			count = n.Contributors.Count
		}
		return colors.ForContributors(count)
	default:
		if c, ok := fc.byLanguage[n.Language]; ok && n.Language != "" {
			return c
		}
		return colors.Overflow
	}
}

func (e *Engine) drawLeaf(ln *LayoutNode, fc fillContext, surf Surface) {
	fill := fc.fill(ln)
	if fc.cfg.Cushion {
		surf.DrawGradientRect(ln.Rect, e.gradients.gradient(fill))
	} else {
		stroke := containerStroke
		if fc.cfg.HideFolderBorders {
			stroke = ""
		}
		surf.DrawRect(ln.Rect, fill, stroke, strokeWidth)
	}
	e.drawLabel(ln, surf)
}

// drawContainer draws the neutral backdrop and borders for a directory or
// repository. In flat mode containers disappear entirely; only repositories
// keep a border-only outline when repo borders are on.
func (e *Engine) drawContainer(ln *LayoutNode, cfg Config, surf Surface) {
	isRepo := ln.Node.IsRepository()
	if cfg.flat() {
		if isRepo && cfg.ShowRepoBorders {
			surf.DrawRect(ln.Rect, "", repoStroke, repoStrokeWidth)
		}
		return
	}
	stroke := ""
	width := 0.0
	switch {
	case isRepo && cfg.ShowRepoBorders:
		stroke, width = repoStroke, repoStrokeWidth
	case !cfg.HideFolderBorders:
		stroke, width = containerStroke, strokeWidth
	}
	if ln.Parent == nil {
		// The view root has no visible rectangle of its own.
		return
	}
	surf.DrawRect(ln.Rect, containerFill, stroke, width)
	e.drawLabel(ln, surf)
}

// drawLabel draws the node name inside its rectangle when there is room.
func (e *Engine) drawLabel(ln *LayoutNode, surf Surface) {
	if ln.Rect.W() < minLabelWidth || ln.Rect.H() < minLabelHeight {
		return
	}
	surf.DrawText(ln.Rect.X0+labelPad, ln.Rect.Y0+labelPad+labelSize, ln.Node.Name, labelSize, labelFill)
}
