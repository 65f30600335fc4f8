// Package render flattens a photo and its annotations onto an RGBA surface.
package render

import (
	"context"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
	"github.com/example/photomark/internal/hittest"
	"github.com/example/photomark/internal/theme"
)

// DefaultStrokeWidth is the line width of shapes in image pixels.
const DefaultStrokeWidth = 5

// Scene is everything one frame draws.
type Scene struct {
	Background image.Image
	// Objects are drawn bottom to top.
	Objects []annotation.Object
	// Pending is the object still being drawn; it goes on top.
	Pending annotation.Object
	// Selected gets selection chrome when non-nil.
	Selected  annotation.Object
	Tolerance hittest.Tolerance
}

// Renderer draws scenes. It is safe to share between goroutines as long as
// its options are not changed concurrently.
type Renderer struct {
	strokeWidth float64
	theme       *theme.Theme
	textShadow  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStrokeWidth sets the shape line width.
func WithStrokeWidth(w float64) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.strokeWidth = w
		}
	}
}

// WithTheme sets the selection chrome colours.
func WithTheme(t *theme.Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithTextShadow toggles the drop shadow behind text labels.
func WithTextShadow(on bool) Option {
	return func(r *Renderer) { r.textShadow = on }
}

// New returns a Renderer with default options applied first.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		strokeWidth: DefaultStrokeWidth,
		theme:       theme.Default(),
		textShadow:  true,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// StrokeWidth reports the configured line width.
func (r *Renderer) StrokeWidth() float64 { return r.strokeWidth }

// Render clears dst, draws the background scaled to dst, then every object
// and finally the selection chrome. A nil background leaves the surface
// transparent. Objects whose geometry is not finite are skipped.
func (r *Renderer) Render(ctx context.Context, dst *image.RGBA, sc Scene) error {
	b := dst.Bounds()
	draw.Draw(dst, b, image.Transparent, image.Point{}, draw.Src)
	if sc.Background != nil {
		bg := sc.Background.Bounds()
		if bg.Dx() == b.Dx() && bg.Dy() == b.Dy() {
			draw.Draw(dst, b, sc.Background, bg.Min, draw.Src)
		} else if !bg.Empty() {
			xdraw.ApproxBiLinear.Scale(dst, b, sc.Background, bg, xdraw.Src, nil)
		}
	}
	objects := sc.Objects
	if sc.Pending != nil {
		objects = append(objects[:len(objects):len(objects)], sc.Pending)
	}
	for _, o := range objects {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.drawObject(dst, o); err != nil {
			return err
		}
	}
	if sc.Selected != nil {
		r.drawSelection(dst, sc.Selected, sc.Tolerance)
	}
	return nil
}

// DrawObject draws a single annotation onto dst.
func (r *Renderer) DrawObject(dst *image.RGBA, o annotation.Object) error {
	return r.drawObject(dst, o)
}

func (r *Renderer) drawObject(dst *image.RGBA, o annotation.Object) error {
	c, ok := annotation.Center(o)
	if !ok {
		return nil
	}
	base := annotation.BaseOf(o)
	angle := base.Angle()
	w := r.strokeWidth

	var pa path
	switch v := o.(type) {
	case *annotation.Freehand:
		pa.polyline(v.Points, w)
	case *annotation.Arrow:
		pa.segment(v.Start, v.End, w)
		for _, tip := range arrowHead(v.Start, v.End, w) {
			pa.segment(v.End, tip, w)
		}
	case *annotation.Rectangle:
		k := geom.BoxFrom(v.Start, v.End).Corners()
		pa.segment(k[0], k[1], w)
		pa.segment(k[1], k[3], w)
		pa.segment(k[3], k[2], w)
		pa.segment(k[2], k[0], w)
	case *annotation.Circle:
		pa.ring(v.Start, v.Radius(), w)
	case *annotation.Text:
		return r.drawText(dst, v, c, angle)
	}
	if angle != 0 {
		pa.transform(func(p geom.Point) geom.Point { return geom.RotatePoint(p, c, angle) })
	}
	pa.fill(dst, base.Color)
	return nil
}

// arrowHead returns the two barb tips at end, spread pi/6 either side of the
// shaft.
func arrowHead(start, end geom.Point, w float64) [2]geom.Point {
	l := math.Max(15, 3*w)
	a := math.Atan2(end.Y-start.Y, end.X-start.X)
	return [2]geom.Point{
		{X: end.X - l*math.Cos(a-math.Pi/6), Y: end.Y - l*math.Sin(a-math.Pi/6)},
		{X: end.X - l*math.Cos(a+math.Pi/6), Y: end.Y - l*math.Sin(a+math.Pi/6)},
	}
}

// chromeSizes derives the selection chrome dimensions from the hit
// tolerance so handles stay grabbable on large photos.
func chromeSizes(tol hittest.Tolerance) (line, dash, handle float64) {
	hit := math.Max(tol.Hit, 10)
	return math.Max(1.5, hit/10), math.Max(6, hit/2), math.Max(8, hit*0.6)
}

func (r *Renderer) drawSelection(dst *image.RGBA, o annotation.Object, tol hittest.Tolerance) {
	c, ok := annotation.Center(o)
	if !ok {
		return
	}
	angle := annotation.BaseOf(o).Angle()
	toWorld := func(p geom.Point) geom.Point { return geom.RotatePoint(p, c, angle) }
	lineW, dashLen, size := chromeSizes(tol)
	if tol.RotateOffset == 0 {
		tol.RotateOffset = 30
	}

	k := annotation.Bounds(o).Corners()
	var primary, secondary path
	for _, e := range [][2]geom.Point{{k[0], k[1]}, {k[1], k[3]}, {k[3], k[2]}, {k[2], k[0]}} {
		dashes(&primary, &secondary, e[0], e[1], dashLen, lineW)
	}
	primary.transform(toWorld)
	secondary.transform(toWorld)
	secondary.fill(dst, r.theme.SelectionSecondary)
	primary.fill(dst, r.theme.SelectionPrimary)

	var fill, border path
	for _, h := range annotation.Handles(o, tol.RotateOffset) {
		if h.Handle == annotation.HandleRotate {
			top := geom.Pt(h.At.X, h.At.Y+tol.RotateOffset)
			border.segment(top, geom.Pt(h.At.X, h.At.Y+size*0.6), lineW)
			fill.disc(h.At, size*0.6)
			border.ring(h.At, size*0.6, lineW)
			continue
		}
		s := size / 2
		sq := []geom.Point{
			{X: h.At.X - s, Y: h.At.Y - s},
			{X: h.At.X + s, Y: h.At.Y - s},
			{X: h.At.X + s, Y: h.At.Y + s},
			{X: h.At.X - s, Y: h.At.Y + s},
		}
		fill.add(sq, false)
		for i := range sq {
			border.segment(sq[i], sq[(i+1)%4], lineW)
		}
	}
	fill.transform(toWorld)
	border.transform(toWorld)
	fill.fill(dst, r.theme.HandleFill)
	border.fill(dst, r.theme.HandleBorder)
}

// dashes splits ab into alternating dashes, the first colour going to on.
func dashes(on, off *path, a, b geom.Point, dash, w float64) {
	l := geom.Distance(a, b)
	if l == 0 {
		return
	}
	ux, uy := (b.X-a.X)/l, (b.Y-a.Y)/l
	for i, t := 0, 0.0; t < l; i, t = i+1, t+dash {
		end := math.Min(t+dash, l)
		p := geom.Pt(a.X+ux*t, a.Y+uy*t)
		q := geom.Pt(a.X+ux*end, a.Y+uy*end)
		target := on
		if i%2 == 1 {
			target = off
		}
		target.segmentFlat(p, q, w)
	}
}
