package treemap

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Fixed RGB deltas for cushion shading: centers are lifted toward white,
// edges pushed toward black.
const (
	cushionLighten = 48.0 / 255.0
	cushionDarken  = 56.0 / 255.0
)

// gradientCache memoizes one Gradient per distinct base color, so the
// number of gradient definitions is bounded by the palette size rather than
// the node count. Entries survive across passes; the map never exceeds the
// palette plus a handful of fixed fills.
type gradientCache struct {
	byColor map[string]Gradient
}

func newGradientCache() *gradientCache {
	return &gradientCache{byColor: make(map[string]Gradient)}
}

func (c *gradientCache) gradient(base string) Gradient {
	if g, ok := c.byColor[base]; ok {
		return g
	}
	g := Gradient{
		ID:     "cushion-" + strings.TrimPrefix(base, "#"),
		Base:   base,
		Center: shiftColor(base, cushionLighten),
		Edge:   shiftColor(base, -cushionDarken),
	}
	c.byColor[base] = g
	return g
}

// shiftColor moves every RGB channel by delta (in [0,1] units), clamping at
// the channel bounds. An unparseable color is returned unchanged.
func shiftColor(hex string, delta float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{
		R: clampUnit(c.R + delta),
		G: clampUnit(c.G + delta),
		B: clampUnit(c.B + delta),
	}.Hex()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
