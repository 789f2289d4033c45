package sink

import (
	"github.com/goccy/go-json"

	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// JSON records draw commands as structured geometry: rectangles, labels,
// and the gradient definitions they reference. The output is meant for
// external tools that want the computed mosaic rather than an image.
type JSON struct {
	doc jsonDocument
}

type jsonDocument struct {
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Gradients []jsonGradient `json:"gradients,omitempty"`
	Rects     []jsonRect     `json:"rects"`
	Labels    []jsonLabel    `json:"labels,omitempty"`
}

type jsonGradient struct {
	ID     string `json:"id"`
	Base   string `json:"base"`
	Center string `json:"center"`
	Edge   string `json:"edge"`
}

type jsonRect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Gradient    string  `json:"gradient,omitempty"`
}

type jsonLabel struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	Size float64 `json:"size"`
	Fill string  `json:"fill"`
}

// NewJSON returns an empty JSON surface.
func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Begin(width, height float64) {
	j.doc = jsonDocument{Width: width, Height: height}
}

func (j *JSON) DrawRect(r treemap.Rect, fill, stroke string, strokeWidth float64) {
	jr := jsonRect{X: r.X0, Y: r.Y0, Width: r.W(), Height: r.H(), Fill: fill, Stroke: stroke}
	if stroke != "" {
		jr.StrokeWidth = strokeWidth
	}
	j.doc.Rects = append(j.doc.Rects, jr)
}

func (j *JSON) DrawGradientRect(r treemap.Rect, g treemap.Gradient) {
	if !j.hasGradient(g.ID) {
		j.doc.Gradients = append(j.doc.Gradients, jsonGradient{
			ID:     g.ID,
			Base:   g.Base,
			Center: g.Center,
			Edge:   g.Edge,
		})
	}
	j.doc.Rects = append(j.doc.Rects, jsonRect{
		X: r.X0, Y: r.Y0, Width: r.W(), Height: r.H(),
		Gradient: g.ID,
	})
}

func (j *JSON) DrawText(x, y float64, text string, size float64, fill string) {
	j.doc.Labels = append(j.doc.Labels, jsonLabel{X: x, Y: y, Text: text, Size: size, Fill: fill})
}

func (j *JSON) Finish() ([]byte, error) {
	return json.MarshalIndent(j.doc, "", "  ")
}

func (j *JSON) hasGradient(id string) bool {
	for _, g := range j.doc.Gradients {
		if g.ID == id {
			return true
		}
	}
	return false
}

var (
	_ treemap.Surface = (*SVG)(nil)
	_ treemap.Surface = (*PNG)(nil)
	_ treemap.Surface = (*JSON)(nil)
)
