package annotation

import (
	"image/color"
	"math"
	"testing"

	"github.com/example/photomark/internal/geom"
)

var red = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}

func TestCircleBoundsSurroundCentre(t *testing.T) {
	circle := NewCircle(red, geom.Pt(100, 100))
	circle.End = geom.Pt(150, 100)
	if b := Bounds(circle); b != (geom.Box{X: 50, Y: 50, W: 100, H: 100}) {
		t.Fatalf("circle bounds %+v", b)
	}
	if c, ok := Center(circle); !ok || c != geom.Pt(100, 100) {
		t.Fatalf("circle centre %+v %v", c, ok)
	}
	want := map[Handle]geom.Point{
		HandleTopLeft:     geom.Pt(50, 50),
		HandleBottomRight: geom.Pt(150, 150),
		HandleRotate:      geom.Pt(100, 20),
	}
	for _, h := range Handles(circle, 30) {
		if p, ok := want[h.Handle]; ok && h.At != p {
			t.Errorf("%s handle at %+v, want %+v", h.Handle, h.At, p)
		}
	}
}

func TestBoundsPerKind(t *testing.T) {
	rect := NewRectangle(red, geom.Pt(110, 60))
	rect.End = geom.Pt(10, 10)
	if b := Bounds(rect); b != (geom.Box{X: 10, Y: 10, W: 100, H: 50}) {
		t.Errorf("rectangle bounds %+v", b)
	}

	circle := NewCircle(red, geom.Pt(50, 50))
	circle.End = geom.Pt(50, 70)
	if b := Bounds(circle); b != (geom.Box{X: 30, Y: 30, W: 40, H: 40}) {
		t.Errorf("circle bounds %+v", b)
	}

	text := NewText(red, geom.Pt(5, 40), "hello", 30)
	if b := Bounds(text); b != (geom.Box{X: 5, Y: 10, W: 5 * 30 * TextWidthFactor, H: 30}) {
		t.Errorf("text bounds %+v", b)
	}

	ink := NewFreehand(red, geom.Pt(3, 9))
	ink.Points = append(ink.Points, geom.Pt(1, 4), geom.Pt(8, 2))
	if b := Bounds(ink); b != (geom.Box{X: 1, Y: 2, W: 7, H: 7}) {
		t.Errorf("freehand bounds %+v", b)
	}
}

func TestCenterGuardsEmptyFreehand(t *testing.T) {
	ink := &Freehand{}
	if _, ok := Center(ink); ok {
		t.Fatal("empty freehand reported a center")
	}
	if b := Bounds(ink); b != (geom.Box{}) {
		t.Fatalf("empty freehand bounds %+v", b)
	}
	bad := NewRectangle(red, geom.Pt(math.NaN(), 0))
	if _, ok := Center(bad); ok {
		t.Fatal("NaN rectangle reported a center")
	}
}

func TestAngleTreatsNonFiniteAsZero(t *testing.T) {
	r := NewRectangle(red, geom.Pt(0, 0))
	r.Rotation = math.NaN()
	if r.Angle() != 0 {
		t.Fatalf("Angle() = %v", r.Angle())
	}
	r.Rotation = math.Inf(-1)
	if r.Angle() != 0 {
		t.Fatalf("Angle() = %v", r.Angle())
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewArrow(red, geom.Pt(0, 0)).ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestCloneIsDeep(t *testing.T) {
	ink := NewFreehand(red, geom.Pt(1, 1))
	cp := ink.Clone().(*Freehand)
	cp.Points[0] = geom.Pt(9, 9)
	if ink.Points[0] != geom.Pt(1, 1) {
		t.Fatal("clone shares points with original")
	}
}

func TestAssignKeepsIdentity(t *testing.T) {
	live := NewRectangle(red, geom.Pt(0, 0))
	other := NewRectangle(red, geom.Pt(4, 4))
	other.End = geom.Pt(8, 8)
	if !Assign(live, other) {
		t.Fatal("Assign rejected same kind")
	}
	if live.ID == other.ID || live.End != geom.Pt(8, 8) {
		t.Fatalf("unexpected result %+v", live)
	}
	if Assign(live, NewCircle(red, geom.Pt(0, 0))) {
		t.Fatal("Assign accepted a different kind")
	}
}

func TestHandlesLayout(t *testing.T) {
	rect := NewRectangle(red, geom.Pt(10, 10))
	rect.End = geom.Pt(110, 60)
	hs := Handles(rect, 40)
	if len(hs) != 5 {
		t.Fatalf("got %d handles", len(hs))
	}
	want := map[Handle]geom.Point{
		HandleTopLeft:     geom.Pt(10, 10),
		HandleTopRight:    geom.Pt(110, 10),
		HandleBottomLeft:  geom.Pt(10, 60),
		HandleBottomRight: geom.Pt(110, 60),
		HandleRotate:      geom.Pt(60, -30),
	}
	for _, h := range hs {
		if want[h.Handle] != h.At {
			t.Errorf("%s at %+v, want %+v", h.Handle, h.At, want[h.Handle])
		}
	}

	ink := NewFreehand(red, geom.Pt(0, 0))
	if hs := Handles(ink, 40); len(hs) != 1 || hs[0].Handle != HandleRotate {
		t.Fatalf("freehand handles %+v", hs)
	}
}

func TestStoreUndoEmptiesAndIsNoopWhenEmpty(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		s.Begin(NewArrow(red, geom.Pt(float64(i), 0)))
		s.Commit()
	}
	for i := 0; i < 3; i++ {
		if s.Undo() == nil {
			t.Fatalf("undo %d returned nil", i)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("store not empty: %d", s.Len())
	}
	rev := s.Revision()
	if s.Undo() != nil {
		t.Fatal("undo on empty store returned an object")
	}
	if s.Revision() != rev {
		t.Fatal("undo on empty store changed revision")
	}
}

func TestStorePendingNotListed(t *testing.T) {
	s := NewStore()
	s.Begin(NewCircle(red, geom.Pt(0, 0)))
	if s.Len() != 0 || len(s.Objects()) != 0 {
		t.Fatal("pending object counted as committed")
	}
	if len(s.Snapshot()) != 1 {
		t.Fatal("snapshot should include pending object")
	}
	s.Discard()
	if s.Pending() != nil || s.Commit() != nil {
		t.Fatal("discard left a pending object")
	}
}

func TestStoreRemoveAndClear(t *testing.T) {
	s := NewStore()
	a := NewArrow(red, geom.Pt(0, 0))
	b := NewRectangle(red, geom.Pt(0, 0))
	s.Add(a)
	s.Add(b)
	if !s.Remove(a.ID) {
		t.Fatal("remove failed")
	}
	if s.Find(a.ID) != nil || s.Find(b.ID) == nil {
		t.Fatal("remove touched the wrong object")
	}
	if n := s.Clear(); n != 1 || s.Len() != 0 {
		t.Fatalf("clear returned %d, len %d", n, s.Len())
	}
}
