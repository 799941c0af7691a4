package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLayout_FirstLayer(t *testing.T) {
	l := ComputeLayout(DefaultLayoutParams(), 28, 5, 24, 12, false)

	want := [numPanels]Rect{
		{X: 0.1, Y: 0.1, W: 0.28, H: 0.28},
		{X: 0.45, Y: 0.215, W: 0.05, H: 0.05},
		{X: 0.57, Y: 0.12, W: 0.24, H: 0.24},
		{X: 0.88, Y: 0.12, W: 0.24, H: 0.24},
		{X: 1.19, Y: 0.18, W: 0.12, H: 0.12},
	}
	for i := range want {
		assert.InDelta(t, want[i].X, l.Panels[i].X, 1e-9, "panel %d x", i)
		assert.InDelta(t, want[i].Y, l.Panels[i].Y, 1e-9, "panel %d y", i)
		assert.InDelta(t, want[i].W, l.Panels[i].W, 1e-9, "panel %d w", i)
		assert.InDelta(t, want[i].H, l.Panels[i].H, 1e-9, "panel %d h", i)
	}
	assert.InDelta(t, 1.31, l.MaxX(), 1e-9)
	assert.Nil(t, l.Flatten)
	assert.Nil(t, l.FlattenGlyph)
}

func TestComputeLayout_Ordering(t *testing.T) {
	p := DefaultLayoutParams()
	for _, sizes := range [][4]int{{28, 5, 24, 12}, {12, 5, 8, 4}, {64, 3, 62, 31}, {9, 9, 1, 1}} {
		l := ComputeLayout(p, sizes[0], sizes[1], sizes[2], sizes[3], true)

		for k := 0; k+1 < numPanels; k++ {
			assert.InDelta(t, l.Panels[k].X+l.Panels[k].W+p.Gap, l.Panels[k+1].X, 1e-12)
		}

		// Every panel is centered on the input panel.
		center := l.Panels[PanelInput].Y + l.Panels[PanelInput].H/2
		for k := range l.Panels {
			assert.InDelta(t, center, l.Panels[k].Y+l.Panels[k].H/2, 1e-12)
		}

		require.Len(t, l.Glyphs, 4)
		assert.Equal(t, []string{GlyphConvolve, GlyphEquals, GlyphArrow, GlyphArrow},
			[]string{l.Glyphs[0].Text, l.Glyphs[1].Text, l.Glyphs[2].Text, l.Glyphs[3].Text})
		for k, g := range l.Glyphs {
			assert.InDelta(t, l.Panels[k].Right()+p.Gap/2-p.Nudge, g.X, 1e-12)
			assert.InDelta(t, center, g.Y, 1e-12)
		}

		require.NotNil(t, l.Flatten)
		end := l.Panels[PanelPooled].Right() + p.Gap
		assert.InDelta(t, end+0.1, l.Flatten.X, 1e-12)
		assert.InDelta(t, p.Margin, l.Flatten.Y, 1e-12)
		assert.InDelta(t, 0.01, l.Flatten.W, 1e-12)
		assert.InDelta(t, l.Panels[PanelInput].H, l.Flatten.H, 1e-12)
		assert.InDelta(t, end, l.FlattenGlyph.X, 1e-12)
	}
}
