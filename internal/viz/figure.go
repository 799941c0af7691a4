package viz

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"slices"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Formats lists the output formats a Figure can be rendered to. All of
// them support embedded images.
var Formats = []string{"png", "svg", "pdf", "jpg", "tiff"}

// Panel is one image axes: no ticks, a frame, a title above and axis
// labels below and to the left.
type Panel struct {
	Rect   Rect
	Image  image.Image
	Title  string
	XLabel string
	YLabel string
}

// Label is free text placed in figure coordinates.
type Label struct {
	X, Y   float64
	Text   string
	Size   vg.Length
	XAlign text.XAlignment
	YAlign text.YAlignment
}

// Figure collects panels and text and renders them with gonum/plot's
// drawing backends. Coordinates are fractions of Side with the origin at
// the bottom-left. The rendered canvas is Side tall and widens to fit
// anything placed right of x = 1.
type Figure struct {
	Side          vg.Length
	TitleFontSize vg.Length
	LabelFontSize vg.Length

	panels []Panel
	labels []Label
	title  string
}

// NewFigure returns an empty figure with the given side length.
func NewFigure(side vg.Length) *Figure {
	return &Figure{
		Side:          side,
		TitleFontSize: 12,
		LabelFontSize: 25,
	}
}

// AddPanel adds an image panel.
func (f *Figure) AddPanel(p Panel) {
	f.panels = append(f.panels, p)
}

// Text adds centered text at (x, y).
func (f *Figure) Text(x, y float64, s string, size vg.Length) {
	f.labels = append(f.labels, Label{X: x, Y: y, Text: s, Size: size, XAlign: text.XCenter, YAlign: text.YCenter})
}

// Suptitle adds the figure title centered on x with its top edge at y.
func (f *Figure) Suptitle(s string, st Suptitle) {
	f.title = s
	f.labels = append(f.labels, Label{X: st.X, Y: st.Y, Text: s, Size: st.Size, XAlign: text.XCenter, YAlign: text.YTop})
}

// Title returns the suptitle, or "" when none was set.
func (f *Figure) Title() string {
	return f.title
}

// Panels returns the panels in insertion order.
func (f *Figure) Panels() []Panel {
	return f.panels
}

// Labels returns the free text labels in insertion order.
func (f *Figure) Labels() []Label {
	return f.labels
}

// Size returns the canvas size: Side tall, and wide enough for the
// right-most panel or label plus a margin.
func (f *Figure) Size() (w, h vg.Length) {
	maxX := 1.0
	for _, p := range f.panels {
		maxX = max(maxX, p.Rect.Right()+0.05)
	}
	for _, l := range f.labels {
		maxX = max(maxX, l.X+0.05)
	}
	return vg.Length(maxX) * f.Side, f.Side
}

// WriteTo renders the figure in the given format (see Formats).
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	if !slices.Contains(Formats, format) {
		return 0, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	width, height := f.Size()
	c, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return 0, fmt.Errorf("viz: %w", err)
	}
	f.Draw(draw.New(c))
	return c.WriteTo(w)
}

// Render returns the encoded figure.
func (f *Figure) Render(format string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Draw draws the figure onto c, whose origin is the figure origin.
func (f *Figure) Draw(c draw.Canvas) {
	for _, p := range f.panels {
		f.drawPanel(c, p)
	}
	for _, l := range f.labels {
		sty := f.textStyle(l.Size)
		sty.XAlign, sty.YAlign = l.XAlign, l.YAlign
		c.FillText(sty, f.point(c, l.X, l.Y), l.Text)
	}
}

func (f *Figure) point(c draw.Canvas, x, y float64) vg.Point {
	return vg.Point{
		X: c.Min.X + vg.Length(x)*f.Side,
		Y: c.Min.Y + vg.Length(y)*f.Side,
	}
}

func (f *Figure) drawPanel(c draw.Canvas, p Panel) {
	rect := vg.Rectangle{
		Min: f.point(c, p.Rect.X, p.Rect.Y),
		Max: f.point(c, p.Rect.Right(), p.Rect.Y+p.Rect.H),
	}

	if p.Image != nil {
		c.DrawImage(rect, upscale(p.Image, rect.Size().X))
	}

	frame := draw.LineStyle{Color: color.Black, Width: vg.Points(1)}
	c.StrokeLines(frame, []vg.Point{
		rect.Min,
		{X: rect.Max.X, Y: rect.Min.Y},
		rect.Max,
		{X: rect.Min.X, Y: rect.Max.Y},
		rect.Min,
	})

	pad := vg.Points(6)
	midX := (rect.Min.X + rect.Max.X) / 2
	midY := (rect.Min.Y + rect.Max.Y) / 2

	if p.Title != "" {
		sty := f.textStyle(f.TitleFontSize)
		sty.XAlign, sty.YAlign = text.XCenter, text.YBottom
		c.FillText(sty, vg.Point{X: midX, Y: rect.Max.Y + pad}, p.Title)
	}
	if p.XLabel != "" {
		sty := f.textStyle(f.LabelFontSize)
		sty.XAlign, sty.YAlign = text.XCenter, text.YTop
		c.FillText(sty, vg.Point{X: midX, Y: rect.Min.Y - pad}, p.XLabel)
	}
	if p.YLabel != "" {
		sty := f.textStyle(f.LabelFontSize)
		sty.Rotation = math.Pi / 2
		sty.XAlign, sty.YAlign = text.XCenter, text.YBottom
		c.FillText(sty, vg.Point{X: rect.Min.X - pad, Y: midY}, p.YLabel)
	}
}

func (f *Figure) textStyle(size vg.Length) text.Style {
	fnt := font.Font{Typeface: plot.DefaultFont.Typeface, Variant: plot.DefaultFont.Variant, Size: size}
	return text.Style{
		Color:   color.Black,
		Font:    fnt,
		Handler: plot.DefaultTextHandler,
	}
}

// upscale enlarges img by an integer factor with nearest-neighbor sampling
// so that small arrays keep hard pixel edges at about twice the target
// width in points.
func upscale(img image.Image, width vg.Length) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	k := int(math.Ceil(float64(width) * 2 / float64(b.Dx())))
	if k <= 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
