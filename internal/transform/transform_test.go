package transform

import (
	"image/color"
	"math"
	"testing"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
)

var blue = color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearPt(a, b geom.Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func sampleRect() *annotation.Rectangle {
	r := annotation.NewRectangle(blue, geom.Pt(10, 10))
	r.End = geom.Pt(110, 60)
	return r
}

func TestMoveDoesNotAccumulate(t *testing.T) {
	live := sampleRect()
	s := Begin(live, annotation.HandleNone, geom.Pt(50, 30))
	for _, p := range []geom.Point{geom.Pt(53.3, 31.7), geom.Pt(57.1, 29.9), geom.Pt(62.5, 41.25)} {
		s.Apply(live, p)
	}

	once := sampleRect()
	Begin(once, annotation.HandleNone, geom.Pt(50, 30)).Apply(once, geom.Pt(62.5, 41.25))

	if live.Start != once.Start || live.End != once.End {
		t.Fatalf("incremental %+v/%+v != single %+v/%+v", live.Start, live.End, once.Start, once.End)
	}
	if !nearPt(live.Start, geom.Pt(22.5, 21.25)) {
		t.Fatalf("unexpected start %+v", live.Start)
	}
}

func TestMoveKeepsIdentity(t *testing.T) {
	live := annotation.NewFreehand(blue, geom.Pt(0, 0))
	live.Points = append(live.Points, geom.Pt(5, 5))
	id := live.ID
	Begin(live, annotation.HandleNone, geom.Pt(0, 0)).Apply(live, geom.Pt(3, 4))
	if live.ID != id {
		t.Fatal("move replaced the object id")
	}
	if live.Points[1] != geom.Pt(8, 9) {
		t.Fatalf("points %+v", live.Points)
	}
}

func TestResizeBottomRight(t *testing.T) {
	live := sampleRect()
	s := Begin(live, annotation.HandleBottomRight, geom.Pt(110, 60))
	if s.Mode != ModeResize {
		t.Fatalf("mode %s", s.Mode)
	}
	s.Apply(live, geom.Pt(130, 80))
	if live.Start != geom.Pt(10, 10) {
		t.Errorf("start moved to %+v", live.Start)
	}
	if live.End != geom.Pt(130, 80) {
		t.Errorf("end %+v, want (130,80)", live.End)
	}
}

func TestResizeKeepsAnchorOrientation(t *testing.T) {
	live := annotation.NewRectangle(blue, geom.Pt(110, 60))
	live.End = geom.Pt(10, 10)
	Begin(live, annotation.HandleTopLeft, geom.Pt(10, 10)).Apply(live, geom.Pt(0, 5))
	if live.Start != geom.Pt(110, 60) || live.End != geom.Pt(0, 5) {
		t.Fatalf("got start %+v end %+v", live.Start, live.End)
	}
}

func TestResizeRotatedUsesLocalDelta(t *testing.T) {
	live := sampleRect()
	live.Rotation = math.Pi / 2
	c := geom.Pt(60, 35)
	grab := geom.RotatePoint(geom.Pt(110, 60), c, math.Pi/2)
	drop := geom.RotatePoint(geom.Pt(130, 60), c, math.Pi/2)
	Begin(live, annotation.HandleBottomRight, grab).Apply(live, drop)
	if !nearPt(live.End, geom.Pt(130, 60)) || !nearPt(live.Start, geom.Pt(10, 10)) {
		t.Fatalf("got start %+v end %+v", live.Start, live.End)
	}
	if live.Rotation != math.Pi/2 {
		t.Fatalf("rotation changed to %v", live.Rotation)
	}
}

func TestResizeCircleKeepsDirection(t *testing.T) {
	live := annotation.NewCircle(blue, geom.Pt(50, 50))
	live.End = geom.Pt(50, 70)
	Begin(live, annotation.HandleBottomRight, geom.Pt(70, 70)).Apply(live, geom.Pt(90, 90))
	if !nearPt(live.Start, geom.Pt(60, 60)) {
		t.Fatalf("center %+v", live.Start)
	}
	if !near(live.Radius(), 30) {
		t.Fatalf("radius %v", live.Radius())
	}
	if !near(live.End.X, 60) || live.End.Y <= 60 {
		t.Fatalf("radius point %+v lost its direction", live.End)
	}
}

func TestResizeTextScalesFont(t *testing.T) {
	live := annotation.NewText(blue, geom.Pt(0, 30), "abcd", 30)
	c, _ := annotation.Center(live)
	start := geom.Pt(c.X+10, c.Y)
	s := Begin(live, annotation.HandleBottomRight, start)
	s.Apply(live, geom.Pt(c.X+20, c.Y))
	if !near(live.FontSize, 60) {
		t.Fatalf("font size %v, want 60", live.FontSize)
	}
	s.Apply(live, geom.Pt(c.X+0.1, c.Y))
	if live.FontSize != DefaultMinFontSize {
		t.Fatalf("font size %v not floored", live.FontSize)
	}
}

func TestResizeFreehandIsNoop(t *testing.T) {
	live := annotation.NewFreehand(blue, geom.Pt(0, 0))
	live.Points = append(live.Points, geom.Pt(10, 10))
	if Begin(live, annotation.HandleBottomRight, geom.Pt(10, 10)).Apply(live, geom.Pt(40, 40)) {
		t.Fatal("freehand resize reported a change")
	}
	if live.Points[1] != geom.Pt(10, 10) {
		t.Fatalf("points changed %+v", live.Points)
	}
}

func TestRotateFromHandle(t *testing.T) {
	live := sampleRect()
	s := Begin(live, annotation.HandleRotate, geom.Pt(60, -30))
	if s.Mode != ModeRotate {
		t.Fatalf("mode %s", s.Mode)
	}
	s.Apply(live, geom.Pt(60, -30))
	if !near(live.Rotation, 0) {
		t.Fatalf("handle straight up gave rotation %v", live.Rotation)
	}
	s.Apply(live, geom.Pt(160, 35))
	if !near(live.Rotation, math.Pi/2) {
		t.Fatalf("rotation %v, want pi/2", live.Rotation)
	}
}

func TestRotateSkipsWithoutCenter(t *testing.T) {
	live := &annotation.Freehand{}
	if Begin(live, annotation.HandleRotate, geom.Pt(0, 0)).Apply(live, geom.Pt(5, 5)) {
		t.Fatal("rotation applied to object without a center")
	}
	if live.Rotation != 0 {
		t.Fatalf("rotation %v", live.Rotation)
	}
}
