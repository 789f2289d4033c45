// Package colors implements deterministic color assignment for treemap fills.
//
// The category palette is 60 hex colors: a fixed 20-color reference tier
// (10 hue pairs, each a desaturated dark plus a light) extended by two
// generated tiers per base hue with fixed HSV deltas. The palette is a pure
// function of the constants below and is built once per process.
//
// Scalar color modes (depth, activity, contributors) bucket into fixed
// 8-step sequential palettes instead.
package colors

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Hues is the number of base hues; each contributes a dark/light pair per tier.
const Hues = 10

// Tiers is the number of saturation/value variants per base hue.
const Tiers = 3

// PaletteSize is the total number of assignable category colors.
const PaletteSize = Hues * Tiers * 2

// Overflow is the sentinel fill used when every palette slot is claimed or a
// category has no assignment at all.
const Overflow = "#9e9e9e"

// baseHues are the reference hue angles (degrees) behind each tier-0 pair,
// used to generate tiers 1 and 2.
var baseHues = [Hues]float64{0, 30, 55, 110, 160, 190, 220, 255, 290, 330}

// referencePalette is tier 0: dark (desaturated) and light entries
// interleaved per hue, in baseHues order.
var referencePalette = [Hues * 2]string{
	"#9e4747", "#f79494", // red
	"#9e7347", "#f7c694", // orange
	"#9e9747", "#f7ef94", // yellow
	"#569e47", "#a5f794", // green
	"#479e81", "#94f7d6", // teal
	"#47909e", "#94e7f7", // cyan
	"#47649e", "#94b5f7", // blue
	"#5d479e", "#ad94f7", // indigo
	"#90479e", "#d694f7", // purple
	"#9e4773", "#f794c6", // pink
}

// tierShape holds the HSV parameters for one generated dark/light pair.
type tierShape struct {
	darkSat, darkVal   float64
	lightSat, lightVal float64
}

// Tier 1 is moderately darker/lighter than the reference pair, tier 2 more
// extreme.
var tierShapes = [Tiers - 1]tierShape{
	{darkSat: 0.70, darkVal: 0.45, lightSat: 0.26, lightVal: 0.99},
	{darkSat: 0.80, darkVal: 0.30, lightSat: 0.14, lightVal: 1.00},
}

// Palette is the full 60-entry category palette: the tier-0 pairs for all
// ten hues, then the tier-1 pairs, then the tier-2 pairs. Indices 0-59 are
// fixed for the process lifetime.
var Palette = buildPalette()

func buildPalette() []string {
	p := make([]string, 0, PaletteSize)
	p = append(p, referencePalette[:]...)
	for _, shape := range tierShapes {
		for _, hue := range baseHues {
			p = append(p,
				colorful.Hsv(hue, shape.darkSat, shape.darkVal).Hex(),
				colorful.Hsv(hue, shape.lightSat, shape.lightVal).Hex(),
			)
		}
	}
	return p
}

// depthPalette is the sequential depth ramp, dark (root) to light (leaf).
var depthPalette = []string{
	"#0b2948", "#143a63", "#1d4d7e", "#2a6199",
	"#3b76b0", "#538bc4", "#73a3d4", "#9cbfe3",
}

// activityPalette is the sequential change-activity ramp. Index 0 is
// reserved for "no activity" and is deliberately the coldest, most stable
// looking entry; the rest run cool to hot.
var activityPalette = []string{
	"#5a6b7a", "#4575b4", "#74add1", "#abd9e9",
	"#fee090", "#fdae61", "#f46d43", "#d73027",
}
