package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/photomark/internal/geom"
)

// path collects closed polygons in image space that are filled together.
// The rasterizer sums signed coverage, so every outline is normalised to the
// same winding and holes are wound the other way.
type path struct {
	polys [][]geom.Point
}

func signedArea(poly []geom.Point) float64 {
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func (pa *path) add(poly []geom.Point, hole bool) {
	if len(poly) < 3 {
		return
	}
	if (signedArea(poly) < 0) != hole {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	pa.polys = append(pa.polys, poly)
}

// segment adds a stroke of width w from a to b with round caps.
func (pa *path) segment(a, b geom.Point, w float64) {
	h := w / 2
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l > 0 {
		nx, ny := -dy/l*h, dx/l*h
		pa.add([]geom.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}, false)
	}
	pa.disc(a, h)
	if l > 0 {
		pa.disc(b, h)
	}
}

// segmentFlat adds a butt-capped stroke.
func (pa *path) segmentFlat(a, b geom.Point, w float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	pa.add([]geom.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, false)
}

// polyline strokes consecutive points. A single point becomes a dot.
func (pa *path) polyline(pts []geom.Point, w float64) {
	if len(pts) == 1 {
		pa.disc(pts[0], w/2)
		return
	}
	for i := 1; i < len(pts); i++ {
		pa.segment(pts[i-1], pts[i], w)
	}
}

func circleSteps(r float64) int {
	return max(12, min(256, int(r*0.75)))
}

func circlePoints(c geom.Point, r float64) []geom.Point {
	n := circleSteps(r)
	out := make([]geom.Point, n)
	for i := range out {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = geom.Point{X: c.X + co*r, Y: c.Y + s*r}
	}
	return out
}

func (pa *path) disc(c geom.Point, r float64) {
	if r <= 0 {
		return
	}
	pa.add(circlePoints(c, r), false)
}

// ring strokes a circle outline of radius r and width w.
func (pa *path) ring(c geom.Point, r, w float64) {
	outer := r + w/2
	inner := r - w/2
	pa.disc(c, outer)
	if inner > 0 {
		pa.add(circlePoints(c, inner), true)
	}
}

// transform maps every vertex through f.
func (pa *path) transform(f func(geom.Point) geom.Point) {
	for _, poly := range pa.polys {
		for i := range poly {
			poly[i] = f(poly[i])
		}
	}
}

// fill rasterizes the collected polygons onto dst with col, anti-aliased.
// Only the part of the canvas the polygons cover is allocated.
func (pa *path) fill(dst *image.RGBA, col color.Color) {
	if len(pa.polys) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range pa.polys {
		for _, p := range poly {
			if !p.Finite() {
				return
			}
			minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
	}
	r := image.Rect(int(math.Floor(minX))-1, int(math.Floor(minY))-1, int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	clip := geom.Box{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	for _, poly := range pa.polys {
		poly = clipPolygon(poly, clip)
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X-clip.X), float32(poly[0].Y-clip.Y))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-clip.X), float32(p.Y-clip.Y))
		}
		z.ClosePath()
	}
	z.Draw(dst, r, image.NewUniform(col), image.Point{})
}

// clipPolygon clips poly to box b (Sutherland-Hodgman). Winding is kept.
func clipPolygon(poly []geom.Point, b geom.Box) []geom.Point {
	type edge struct {
		inside func(geom.Point) bool
		cross  func(p, q geom.Point) geom.Point
	}
	atX := func(x float64) func(p, q geom.Point) geom.Point {
		return func(p, q geom.Point) geom.Point {
			t := (x - p.X) / (q.X - p.X)
			return geom.Point{X: x, Y: p.Y + t*(q.Y-p.Y)}
		}
	}
	atY := func(y float64) func(p, q geom.Point) geom.Point {
		return func(p, q geom.Point) geom.Point {
			t := (y - p.Y) / (q.Y - p.Y)
			return geom.Point{X: p.X + t*(q.X-p.X), Y: y}
		}
	}
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.W, b.Y+b.H
	edges := []edge{
		{func(p geom.Point) bool { return p.X >= x0 }, atX(x0)},
		{func(p geom.Point) bool { return p.X <= x1 }, atX(x1)},
		{func(p geom.Point) bool { return p.Y >= y0 }, atY(y0)},
		{func(p geom.Point) bool { return p.Y <= y1 }, atY(y1)},
	}
	out := poly
	for _, e := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]geom.Point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}
