// Package transform applies move, resize and rotate drags to annotations.
// Every update is computed from a snapshot taken when the drag began, so
// repeated pointer events never compound rounding error.
package transform

import (
	"math"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
)

// Mode selects what a drag does.
type Mode int

const (
	ModeMove Mode = iota
	ModeResize
	ModeRotate
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	case ModeRotate:
		return "rotate"
	}
	return "unknown"
}

// DefaultMinFontSize is the smallest size a text resize produces.
const DefaultMinFontSize = 8

// Session is the state held between pointer-down and pointer-up on a
// selected object.
type Session struct {
	Mode   Mode
	Handle annotation.Handle
	Start  geom.Point
	// MinFontSize floors text resizing.
	MinFontSize float64

	initial  annotation.Object
	center   geom.Point
	centerOK bool
}

// ModeFor maps a grabbed handle to its drag mode.
func ModeFor(h annotation.Handle) Mode {
	switch h {
	case annotation.HandleNone:
		return ModeMove
	case annotation.HandleRotate:
		return ModeRotate
	}
	return ModeResize
}

// Begin snapshots o and starts a drag at start.
func Begin(o annotation.Object, h annotation.Handle, start geom.Point) *Session {
	c, ok := annotation.Center(o)
	return &Session{
		Mode:        ModeFor(h),
		Handle:      h,
		Start:       start,
		MinFontSize: DefaultMinFontSize,
		initial:     o.Clone(),
		center:      c,
		centerOK:    ok,
	}
}

// Initial returns the snapshot taken at Begin.
func (s *Session) Initial() annotation.Object { return s.initial }

// Apply updates live, the object being dragged, for the pointer at p. It
// reports whether live changed.
func (s *Session) Apply(live annotation.Object, p geom.Point) bool {
	next := s.initial.Clone()
	var changed bool
	switch s.Mode {
	case ModeMove:
		next.Translate(p.X-s.Start.X, p.Y-s.Start.Y)
		changed = true
	case ModeRotate:
		changed = s.rotate(next, p)
	case ModeResize:
		changed = s.resize(next, p)
	}
	if !changed {
		return false
	}
	return annotation.Assign(live, next)
}

func (s *Session) rotate(next annotation.Object, p geom.Point) bool {
	if !s.centerOK || !p.Finite() {
		return false
	}
	angle := math.Atan2(p.Y-s.center.Y, p.X-s.center.X) + math.Pi/2
	annotation.BaseOf(next).Rotation = angle
	return true
}

func (s *Session) resize(next annotation.Object, p geom.Point) bool {
	if !s.centerOK {
		return false
	}
	switch v := next.(type) {
	case *annotation.Freehand:
		return false
	case *annotation.Text:
		d0 := geom.Distance(s.Start, s.center)
		if d0 == 0 {
			return false
		}
		size := v.FontSize * geom.Distance(p, s.center) / d0
		floor := s.MinFontSize
		if floor <= 0 {
			floor = DefaultMinFontSize
		}
		v.FontSize = math.Max(floor, size)
		return true
	}

	angle := annotation.BaseOf(s.initial).Angle()
	lp := geom.RotatePoint(p, s.center, -angle)
	ls := geom.RotatePoint(s.Start, s.center, -angle)
	ldx, ldy := lp.X-ls.X, lp.Y-ls.Y

	b := annotation.Bounds(s.initial)
	left, top, right, bottom := b.X, b.Y, b.X+b.W, b.Y+b.H
	switch s.Handle {
	case annotation.HandleTopLeft:
		left += ldx
		top += ldy
	case annotation.HandleTopRight:
		right += ldx
		top += ldy
	case annotation.HandleBottomLeft:
		left += ldx
		bottom += ldy
	case annotation.HandleBottomRight:
		right += ldx
		bottom += ldy
	default:
		return false
	}

	switch v := next.(type) {
	case *annotation.Rectangle:
		v.Start, v.End = placeEdges(v.Start, v.End, left, top, right, bottom)
	case *annotation.Arrow:
		v.Start, v.End = placeEdges(v.Start, v.End, left, top, right, bottom)
	case *annotation.Circle:
		c := geom.Pt((left+right)/2, (top+bottom)/2)
		r := (math.Abs(right-left) + math.Abs(bottom-top)) / 4
		dir := v.End.Sub(v.Start)
		l := math.Hypot(dir.X, dir.Y)
		if l == 0 {
			dir, l = geom.Pt(1, 0), 1
		}
		v.Start = c
		v.End = geom.Pt(c.X+dir.X/l*r, c.Y+dir.Y/l*r)
	default:
		return false
	}
	return true
}

// placeEdges writes the resized box back to two anchors, keeping each
// coordinate on the edge it occupied before.
func placeEdges(start, end geom.Point, left, top, right, bottom float64) (geom.Point, geom.Point) {
	if start.X <= end.X {
		start.X, end.X = left, right
	} else {
		start.X, end.X = right, left
	}
	if start.Y <= end.Y {
		start.Y, end.Y = top, bottom
	} else {
		start.Y, end.Y = bottom, top
	}
	return start, end
}
