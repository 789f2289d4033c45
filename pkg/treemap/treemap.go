// Package treemap lays out analyzed trees as rectangle mosaics and renders
// them onto pluggable drawing surfaces.
//
// The engine is a pure function of (view subtree, navigation stack,
// viewport, mode configuration): every render pass fully recomputes
// geometry and redraws, so the host re-invokes it on its own triggers
// (view-root change, resize, mode change) instead of relying on reactive
// recomputation. Interaction is synthesized as outbound events through an
// EventSink; the engine itself never filters, navigates, or persists.
package treemap

// Color modes selecting which per-node scalar or category drives leaf fill.
const (
	ModeDepth        = "depth"
	ModeFiletype     = "filetype"
	ModeActivity     = "activity"
	ModeContributors = "contributors"
)

// Activity timeframes selecting the commit-count field.
const (
	Timeframe3Months = "3months"
	Timeframe1Year   = "1year"
)

// Config is the mode configuration for one render pass.
type Config struct {
	ColorMode         string
	ActivityTimeframe string
	Cushion           bool
	HideFolderBorders bool
	ShowRepoBorders   bool
}

// lastYear reports whether the one-year commit field is active.
func (c Config) lastYear() bool {
	return c.ActivityTimeframe != Timeframe3Months
}

// flat reports whether container rectangles are suppressed entirely:
// cushion shading alone conveys hierarchy in this pairing.
func (c Config) flat() bool {
	return c.Cushion && c.HideFolderBorders
}

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// W returns the rectangle width.
func (r Rect) W() float64 { return r.X1 - r.X0 }

// H returns the rectangle height.
func (r Rect) H() float64 { return r.Y1 - r.Y0 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Inset shrinks r by d on every side, collapsing to the center rather than
// inverting when d exceeds the available space.
func (r Rect) Inset(d float64) Rect {
	out := Rect{r.X0 + d, r.Y0 + d, r.X1 - d, r.Y1 - d}
	if out.X0 > out.X1 {
		mid := (r.X0 + r.X1) / 2
		out.X0, out.X1 = mid, mid
	}
	if out.Y0 > out.Y1 {
		mid := (r.Y0 + r.Y1) / 2
		out.Y0, out.Y1 = mid, mid
	}
	return out
}
