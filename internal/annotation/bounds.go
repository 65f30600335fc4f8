package annotation

import (
	"math"
	"unicode/utf8"

	"github.com/example/photomark/internal/geom"
)

// TextWidthFactor approximates the advance of one glyph as a fraction of the
// font size.
const TextWidthFactor = 0.6

// Bounds returns the axis-aligned box of o in its local, unrotated frame.
// Degenerate geometry yields a zero-size box rather than NaN.
func Bounds(o Object) geom.Box {
	switch v := o.(type) {
	case *Freehand:
		if len(v.Points) == 0 {
			return geom.Box{}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range v.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		return geom.Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	case *Arrow:
		return geom.BoxFrom(v.Start, v.End)
	case *Rectangle:
		return geom.BoxFrom(v.Start, v.End)
	case *Circle:
		r := v.Radius()
		return geom.Box{X: v.Start.X - r, Y: v.Start.Y - r, W: 2 * r, H: 2 * r}
	case *Text:
		n := float64(utf8.RuneCountInString(v.Text))
		return geom.Box{X: v.X, Y: v.Y - v.FontSize, W: n * v.FontSize * TextWidthFactor, H: v.FontSize}
	}
	return geom.Box{}
}

// Center returns the middle of o's bounds. ok is false when the object has
// no geometry or the result is not finite; callers skip rotation and
// selection chrome in that case.
func Center(o Object) (geom.Point, bool) {
	if f, isFreehand := o.(*Freehand); isFreehand && len(f.Points) == 0 {
		return geom.Point{}, false
	}
	b := Bounds(o)
	if !b.Finite() {
		return geom.Point{}, false
	}
	c := b.Center()
	return c, c.Finite()
}

// Resizable reports whether corner handles apply to o. Point clouds only
// move and rotate.
func Resizable(o Object) bool {
	_, isFreehand := o.(*Freehand)
	return !isFreehand
}

// Handle identifies a selection control point.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleRotate
)

var handleNames = [...]string{"none", "tl", "tr", "bl", "br", "rot"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "none"
	}
	return handleNames[h]
}

// HandlePoint pairs a handle with its local-space position.
type HandlePoint struct {
	Handle Handle
	At     geom.Point
}

// Handles lists the control points of o in local space: the four bounds
// corners followed by the rotation handle, rotateOffset above the middle of
// the top edge. Corners are omitted for objects that cannot be resized.
func Handles(o Object, rotateOffset float64) []HandlePoint {
	b := Bounds(o)
	rot := HandlePoint{HandleRotate, geom.Pt(b.X+b.W/2, b.Y-rotateOffset)}
	if !Resizable(o) {
		return []HandlePoint{rot}
	}
	c := b.Corners()
	return []HandlePoint{
		{HandleTopLeft, c[0]},
		{HandleTopRight, c[1]},
		{HandleBottomLeft, c[2]},
		{HandleBottomRight, c[3]},
		rot,
	}
}

// ToWorld maps a local-space point of o to image space.
func ToWorld(o Object, p geom.Point) geom.Point {
	c, ok := Center(o)
	if !ok {
		return p
	}
	return geom.RotatePoint(p, c, o.base().Angle())
}

// ToLocal maps an image-space point into o's unrotated frame.
func ToLocal(o Object, p geom.Point) geom.Point {
	c, ok := Center(o)
	if !ok {
		return p
	}
	return geom.RotatePoint(p, c, -o.base().Angle())
}
