package treemap

// Surface is the minimal drawing interface the engine targets. It is small
// on purpose so passes can be replayed against a vector sink, a raster
// canvas, or a test recorder without the engine changing.
type Surface interface {
	// Begin starts a new drawing of the given viewport size. A surface may
	// be reused across passes; Begin discards anything drawn before.
	Begin(width, height float64)

	// DrawRect draws a filled and/or stroked rectangle. Empty fill or
	// stroke strings skip that part; strokeWidth is ignored without a
	// stroke color.
	DrawRect(r Rect, fill, stroke string, strokeWidth float64)

	// DrawGradientRect draws a rectangle filled with a cushion gradient.
	DrawGradientRect(r Rect, g Gradient)

	// DrawText draws a label with its baseline at (x, y).
	DrawText(x, y float64, text string, size float64, fill string)

	// Finish completes the drawing and returns the encoded output.
	Finish() ([]byte, error)
}

// Gradient describes one reusable cushion gradient: a radial blend from a
// lightened center to a darkened edge of the same base color. ID is stable
// per base color so sinks can define each gradient once and reference it.
type Gradient struct {
	ID     string
	Base   string
	Center string
	Edge   string
}
