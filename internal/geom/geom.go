// Package geom holds the small float geometry used by annotations: points,
// boxes and rotation about a center.
package geom

import "math"

// Point is a position in image pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool { return Finite(p.X) && Finite(p.Y) }

// Box is an axis-aligned rectangle described by its top-left corner and size.
type Box struct {
	X, Y, W, H float64
}

// BoxFrom returns the box spanning a and b regardless of their order.
func BoxFrom(a, b Point) Box {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{b.X + b.W/2, b.Y + b.H/2}
}

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d}
}

// Contains reports whether p lies inside or on the edge of the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Finite reports whether every component is a real number.
func (b Box) Finite() bool {
	return Finite(b.X) && Finite(b.Y) && Finite(b.W) && Finite(b.H)
}

// Corners returns top-left, top-right, bottom-left and bottom-right.
func (b Box) Corners() [4]Point {
	return [4]Point{
		{b.X, b.Y},
		{b.X + b.W, b.Y},
		{b.X, b.Y + b.H},
		{b.X + b.W, b.Y + b.H},
	}
}

// RotatePoint rotates p about c by angle radians. Positive angles turn
// clockwise on screen because the y axis points down.
func RotatePoint(p, c Point, angle float64) Point {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// Distance is the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return Distance(p, Point{a.X + t*dx, a.Y + t*dy})
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
