// Package sink provides drawing surfaces for treemap render passes.
//
// A sink implements [treemap.Surface] and turns one pass worth of draw
// commands into a final output format: SVG for scalable output, PNG for
// raster export, and JSON for external tools that want geometry instead
// of pixels. Surfaces are single-goroutine and reusable; Begin resets them.
package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"

	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// backgroundFill is the canvas color behind every mosaic.
const backgroundFill = "#14181d"

// SVG renders draw commands as an SVG document. Cushion gradients are
// emitted as radial gradient definitions, one per distinct gradient ID no
// matter how many rectangles reference them.
type SVG struct {
	buf     bytes.Buffer
	canvas  *svg.SVG
	defined map[string]bool
}

// NewSVG returns an empty SVG surface.
func NewSVG() *SVG {
	return &SVG{}
}

func (s *SVG) Begin(width, height float64) {
	s.buf.Reset()
	s.canvas = svg.New(&s.buf)
	s.defined = make(map[string]bool)
	s.canvas.Start(width, height)
	s.canvas.Rect(0, 0, width, height, "fill:"+backgroundFill)
}

func (s *SVG) DrawRect(r treemap.Rect, fill, stroke string, strokeWidth float64) {
	style := rectStyle(fill, stroke, strokeWidth)
	if style == "" {
		return
	}
	s.canvas.Rect(r.X0, r.Y0, r.W(), r.H(), style)
}

func (s *SVG) DrawGradientRect(r treemap.Rect, g treemap.Gradient) {
	if !s.defined[g.ID] {
		s.canvas.Def()
		s.canvas.RadialGradient(g.ID, 50, 50, 75, 50, 50, []svg.Offcolor{
			{Offset: 0, Color: g.Center, Opacity: 1.0},
			{Offset: 100, Color: g.Edge, Opacity: 1.0},
		})
		s.canvas.DefEnd()
		s.defined[g.ID] = true
	}
	s.canvas.Rect(r.X0, r.Y0, r.W(), r.H(), fmt.Sprintf("fill:url(#%s)", g.ID))
}

func (s *SVG) DrawText(x, y float64, text string, size float64, fill string) {
	s.canvas.Text(x, y, text,
		fmt.Sprintf("font-family:system-ui,sans-serif;font-size:%.1fpx;fill:%s", size, fill))
}

func (s *SVG) Finish() ([]byte, error) {
	s.canvas.End()
	return bytes.Clone(s.buf.Bytes()), nil
}

func rectStyle(fill, stroke string, strokeWidth float64) string {
	var b bytes.Buffer
	if fill != "" {
		fmt.Fprintf(&b, "fill:%s", fill)
	} else {
		b.WriteString("fill:none")
	}
	if stroke != "" {
		fmt.Fprintf(&b, ";stroke:%s;stroke-width:%.1f", stroke, strokeWidth)
	} else if fill == "" {
		return ""
	}
	return b.String()
}
