// Package annotation defines the vector shapes drawn over a photo and the
// store that keeps them in commit order.
package annotation

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/example/photomark/internal/geom"
)

// Kind names an annotation variant. The values double as tool names.
type Kind int

const (
	KindFreehand Kind = iota
	KindArrow
	KindRectangle
	KindCircle
	KindText
)

var kindNames = [...]string{"freehand", "arrow", "rectangle", "circle", "text"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Object is one drawn shape. The set of implementations is closed: only the
// types in this package satisfy it.
type Object interface {
	Kind() Kind
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Object
	// Translate shifts every anchor of the object by (dx, dy).
	Translate(dx, dy float64)
	base() *Base
}

// Base carries the fields shared by every variant.
type Base struct {
	ID       string
	Color    color.RGBA
	Rotation float64
}

func (b *Base) base() *Base { return b }

// Angle returns the rotation in radians, treating non-finite values as 0.
func (b *Base) Angle() float64 {
	if !geom.Finite(b.Rotation) {
		return 0
	}
	return b.Rotation
}

// BaseOf exposes the shared fields of o.
func BaseOf(o Object) *Base { return o.base() }

// NewID returns a fresh object identifier.
func NewID() string { return uuid.NewString() }

func newBase(c color.RGBA) Base {
	return Base{ID: NewID(), Color: c}
}

// Freehand is an ink stroke through sampled points.
type Freehand struct {
	Base
	Points []geom.Point
}

// Arrow points from Start to End.
type Arrow struct {
	Base
	Start, End geom.Point
}

// Rectangle spans the corners Start and End, in either order.
type Rectangle struct {
	Base
	Start, End geom.Point
}

// Circle is centred on Start and passes through End.
type Circle struct {
	Base
	Start, End geom.Point
}

// Radius is the distance from the centre to the radius point.
func (c *Circle) Radius() float64 { return geom.Distance(c.Start, c.End) }

// Text is a single line label whose baseline starts at (X, Y).
type Text struct {
	Base
	X, Y     float64
	Text     string
	FontSize float64
}

// NewFreehand starts a stroke at p.
func NewFreehand(c color.RGBA, p geom.Point) *Freehand {
	return &Freehand{Base: newBase(c), Points: []geom.Point{p}}
}

// NewArrow returns a zero length arrow anchored at p.
func NewArrow(c color.RGBA, p geom.Point) *Arrow {
	return &Arrow{Base: newBase(c), Start: p, End: p}
}

// NewRectangle returns an empty rectangle anchored at p.
func NewRectangle(c color.RGBA, p geom.Point) *Rectangle {
	return &Rectangle{Base: newBase(c), Start: p, End: p}
}

// NewCircle returns a zero radius circle centred at p.
func NewCircle(c color.RGBA, p geom.Point) *Circle {
	return &Circle{Base: newBase(c), Start: p, End: p}
}

// NewText returns a label with its baseline origin at p.
func NewText(c color.RGBA, p geom.Point, text string, size float64) *Text {
	return &Text{Base: newBase(c), X: p.X, Y: p.Y, Text: text, FontSize: size}
}

func (*Freehand) Kind() Kind  { return KindFreehand }
func (*Arrow) Kind() Kind     { return KindArrow }
func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Circle) Kind() Kind    { return KindCircle }
func (*Text) Kind() Kind      { return KindText }

func (f *Freehand) Clone() Object {
	out := *f
	out.Points = append([]geom.Point(nil), f.Points...)
	return &out
}

func (a *Arrow) Clone() Object {
	out := *a
	return &out
}

func (r *Rectangle) Clone() Object {
	out := *r
	return &out
}

func (c *Circle) Clone() Object {
	out := *c
	return &out
}

func (t *Text) Clone() Object {
	out := *t
	return &out
}

func (f *Freehand) Translate(dx, dy float64) {
	d := geom.Pt(dx, dy)
	for i := range f.Points {
		f.Points[i] = f.Points[i].Add(d)
	}
}

func (a *Arrow) Translate(dx, dy float64) {
	a.Start, a.End = a.Start.Add(geom.Pt(dx, dy)), a.End.Add(geom.Pt(dx, dy))
}

func (r *Rectangle) Translate(dx, dy float64) {
	r.Start, r.End = r.Start.Add(geom.Pt(dx, dy)), r.End.Add(geom.Pt(dx, dy))
}

func (c *Circle) Translate(dx, dy float64) {
	c.Start, c.End = c.Start.Add(geom.Pt(dx, dy)), c.End.Add(geom.Pt(dx, dy))
}

func (t *Text) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Assign overwrites dst with the state of src while keeping dst's identity,
// so holders of the dst pointer observe the change. Both must share a Kind.
func Assign(dst, src Object) bool {
	switch d := dst.(type) {
	case *Freehand:
		s, ok := src.(*Freehand)
		if !ok {
			return false
		}
		id := d.ID
		*d = *s
		d.ID = id
		d.Points = append(d.Points[:0:0], s.Points...)
	case *Arrow:
		s, ok := src.(*Arrow)
		if !ok {
			return false
		}
		id := d.ID
		*d = *s
		d.ID = id
	case *Rectangle:
		s, ok := src.(*Rectangle)
		if !ok {
			return false
		}
		id := d.ID
		*d = *s
		d.ID = id
	case *Circle:
		s, ok := src.(*Circle)
		if !ok {
			return false
		}
		id := d.ID
		*d = *s
		d.ID = id
	case *Text:
		s, ok := src.(*Text)
		if !ok {
			return false
		}
		id := d.ID
		*d = *s
		d.ID = id
	default:
		return false
	}
	return true
}
