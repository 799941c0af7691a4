package viz

// Rect is an axes rectangle in figure coordinates: origin bottom-left,
// lengths as fractions of the figure side.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Glyph is an operator symbol drawn between two panels.
type Glyph struct {
	X, Y float64
	Text string
}

// Operator glyphs between consecutive panels.
const (
	GlyphConvolve = "⊗"
	GlyphEquals   = "="
	GlyphArrow    = "→"
)

// LayoutParams are the layout constants.
type LayoutParams struct {
	Margin float64 // left and bottom margin of the input panel
	Gap    float64 // horizontal gap between panels
	Scale  float64 // panel side per pixel
	Nudge  float64 // glyph shift left from the gap center

	FlattenOffset float64 // extra gap before the flattening panel
	FlattenWidth  float64
}

// DefaultLayoutParams returns margin 0.1, gap 0.07 and 1/100 per pixel.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		Margin:        0.1,
		Gap:           0.07,
		Scale:         1.0 / 100,
		Nudge:         0.01,
		FlattenOffset: 0.1,
		FlattenWidth:  0.01,
	}
}

// Panel indexes into Layout.Panels.
const (
	PanelInput = iota
	PanelKernel
	PanelFeature
	PanelRectified
	PanelPooled
	numPanels
)

// Layout places the five stage panels, the glyphs between them and the
// optional flattening panel.
type Layout struct {
	Panels [numPanels]Rect
	Glyphs []Glyph

	// Flatten and FlattenGlyph are set only when flattening is requested.
	Flatten      *Rect
	FlattenGlyph *Glyph
}

// ComputeLayout lays out panels for arrays of the given widths in pixels.
// Every panel is square and vertically centered on the input panel; each
// panel starts one gap after the previous one ends.
func ComputeLayout(p LayoutParams, inputW, kernelW, featureW, pooledW int, flatten bool) Layout {
	a := float64(inputW) * p.Scale
	sides := [numPanels]float64{
		a,
		float64(kernelW) * p.Scale,
		float64(featureW) * p.Scale,
		float64(featureW) * p.Scale,
		float64(pooledW) * p.Scale,
	}

	centerY := p.Margin + a/2

	var l Layout
	l.Panels[PanelInput] = Rect{X: p.Margin, Y: p.Margin, W: a, H: a}
	for i := PanelKernel; i < numPanels; i++ {
		s := sides[i]
		l.Panels[i] = Rect{X: l.Panels[i-1].Right() + p.Gap, Y: centerY - s/2, W: s, H: s}
	}

	symbols := [numPanels - 1]string{GlyphConvolve, GlyphEquals, GlyphArrow, GlyphArrow}
	for i, sym := range symbols {
		l.Glyphs = append(l.Glyphs, Glyph{
			X:    l.Panels[i].Right() + p.Gap/2 - p.Nudge,
			Y:    centerY,
			Text: sym,
		})
	}

	if flatten {
		end := l.Panels[PanelPooled].Right() + p.Gap
		l.Flatten = &Rect{X: end + p.FlattenOffset, Y: p.Margin, W: p.FlattenWidth, H: a}
		l.FlattenGlyph = &Glyph{X: end, Y: centerY, Text: GlyphArrow}
	}

	return l
}

// MaxX returns the right-most extent of the layout.
func (l Layout) MaxX() float64 {
	x := l.Panels[PanelPooled].Right()
	if l.Flatten != nil {
		x = max(x, l.Flatten.Right())
	}
	return x
}
