package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRotatePointQuarterTurn(t *testing.T) {
	got := RotatePoint(Pt(10, 0), Pt(0, 0), math.Pi/2)
	if !near(got.X, 0) || !near(got.Y, 10) {
		t.Fatalf("rotate (10,0) by pi/2 = %+v, want (0,10)", got)
	}
	back := RotatePoint(got, Pt(0, 0), -math.Pi/2)
	if !near(back.X, 10) || !near(back.Y, 0) {
		t.Fatalf("inverse rotation = %+v", back)
	}
}

func TestBoxFromUnordered(t *testing.T) {
	b := BoxFrom(Pt(110, 60), Pt(10, 10))
	if b != (Box{X: 10, Y: 10, W: 100, H: 50}) {
		t.Fatalf("unexpected box %+v", b)
	}
	if c := b.Center(); c != Pt(60, 35) {
		t.Fatalf("center %+v", c)
	}
}

func TestBoxFromDegenerate(t *testing.T) {
	b := BoxFrom(Pt(5, 5), Pt(5, 5))
	if b.W != 0 || b.H != 0 || !b.Finite() {
		t.Fatalf("degenerate box %+v", b)
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	if d := SegmentDistance(Pt(5, 3), a, b); !near(d, 3) {
		t.Errorf("mid distance %v", d)
	}
	if d := SegmentDistance(Pt(13, 4), a, b); !near(d, 5) {
		t.Errorf("past end distance %v", d)
	}
	if d := SegmentDistance(Pt(3, 4), a, a); !near(d, 5) {
		t.Errorf("zero length distance %v", d)
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) || Finite(math.Inf(1)) || !Finite(1) {
		t.Fatal("Finite misclassified values")
	}
	if (Point{X: math.NaN()}).Finite() {
		t.Fatal("NaN point reported finite")
	}
}
