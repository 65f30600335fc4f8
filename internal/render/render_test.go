package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
	"github.com/example/photomark/internal/hittest"
)

var (
	red   = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

func whitePhoto(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return img
}

func render(t *testing.T, sc Scene, opts ...Option) *image.RGBA {
	t.Helper()
	b := sc.Background.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if err := New(opts...).Render(context.Background(), dst, sc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return dst
}

func TestRenderRectangleOutline(t *testing.T) {
	r := annotation.NewRectangle(red, geom.Pt(10, 10))
	r.End = geom.Pt(110, 60)
	out := render(t, Scene{Background: whitePhoto(200, 100), Objects: []annotation.Object{r}})
	if got := out.RGBAAt(60, 10); got != red {
		t.Errorf("top edge pixel %+v, want red", got)
	}
	if got := out.RGBAAt(60, 35); got != white {
		t.Errorf("interior pixel %+v, want white", got)
	}
	if got := out.RGBAAt(150, 80); got != white {
		t.Errorf("outside pixel %+v, want white", got)
	}
}

func TestRenderRotatedRectangle(t *testing.T) {
	r := annotation.NewRectangle(red, geom.Pt(10, 10))
	r.End = geom.Pt(110, 60)
	r.Rotation = math.Pi / 2
	out := render(t, Scene{Background: whitePhoto(200, 200), Objects: []annotation.Object{r}})
	// the top edge midpoint (60,10) rotates to (85,35)
	if got := out.RGBAAt(85, 35); got != red {
		t.Errorf("rotated edge pixel %+v, want red", got)
	}
	if got := out.RGBAAt(60, 10); got != white {
		t.Errorf("unrotated edge pixel still painted: %+v", got)
	}
}

func TestRenderCircleRingOnly(t *testing.T) {
	c := annotation.NewCircle(red, geom.Pt(100, 100))
	c.End = geom.Pt(140, 100)
	out := render(t, Scene{Background: whitePhoto(200, 200), Objects: []annotation.Object{c}})
	if got := out.RGBAAt(140, 100); got != red {
		t.Errorf("ring pixel %+v", got)
	}
	if got := out.RGBAAt(100, 100); got != white {
		t.Errorf("circle centre painted %+v", got)
	}
}

func TestRenderArrowHasBarbs(t *testing.T) {
	a := annotation.NewArrow(red, geom.Pt(20, 50))
	a.End = geom.Pt(150, 50)
	out := render(t, Scene{Background: whitePhoto(200, 100), Objects: []annotation.Object{a}})
	tips := arrowHead(a.Start, a.End, DefaultStrokeWidth)
	for _, tip := range tips {
		if got := out.RGBAAt(int(math.Round(tip.X)), int(math.Round(tip.Y))); got.G == 0xFF {
			t.Errorf("barb tip %v not painted: %+v", tip, got)
		}
	}
}

func TestRenderPendingOnTop(t *testing.T) {
	blue := color.RGBA{B: 0xFF, A: 0xFF}
	under := annotation.NewFreehand(red, geom.Pt(20, 20))
	under.Points = append(under.Points, geom.Pt(80, 20))
	over := annotation.NewFreehand(blue, geom.Pt(50, 0))
	over.Points = append(over.Points, geom.Pt(50, 40))
	out := render(t, Scene{Background: whitePhoto(100, 50), Objects: []annotation.Object{under}, Pending: over})
	if got := out.RGBAAt(50, 20); got != blue {
		t.Fatalf("crossing pixel %+v, want pending colour", got)
	}
}

func TestRenderNilBackgroundAndNaN(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	bad := annotation.NewRectangle(red, geom.Pt(math.NaN(), 0))
	empty := &annotation.Freehand{}
	err := New().Render(context.Background(), dst, Scene{Objects: []annotation.Object{bad, empty}, Selected: empty})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range dst.Pix {
		if p != 0 {
			t.Fatal("expected untouched transparent surface")
		}
	}
}

func TestRenderScalesBackground(t *testing.T) {
	bg := whitePhoto(10, 10)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	if err := New().Render(context.Background(), dst, Scene{Background: bg}); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(39, 39); got != white {
		t.Fatalf("scaled corner %+v", got)
	}
}

func TestRenderSelectionChrome(t *testing.T) {
	r := annotation.NewRectangle(red, geom.Pt(50, 60))
	r.End = geom.Pt(150, 110)
	tol := hittest.NewTolerance(200, 200)
	plain := render(t, Scene{Background: whitePhoto(200, 200), Objects: []annotation.Object{r}})
	chrome := render(t, Scene{Background: whitePhoto(200, 200), Objects: []annotation.Object{r}, Selected: r, Tolerance: tol})
	rot := geom.Pt(100, 60-tol.RotateOffset)
	if plain.RGBAAt(int(rot.X), int(rot.Y)) != white {
		t.Fatal("rotation handle area painted without selection")
	}
	if chrome.RGBAAt(int(rot.X), int(rot.Y)+int(tol.RotateOffset)/2) == white {
		t.Error("rotation stalk not drawn")
	}
	if chrome.RGBAAt(110, 60) == plain.RGBAAt(110, 60) {
		t.Error("dashed selection box not drawn along the top edge")
	}
}

func TestRenderText(t *testing.T) {
	txt := annotation.NewText(red, geom.Pt(10, 40), "Hi", 30)
	out := render(t, Scene{Background: whitePhoto(120, 60), Objects: []annotation.Object{txt}})
	var painted int
	for y := 10; y < 40; y++ {
		for x := 10; x < 60; x++ {
			if c := out.RGBAAt(x, y); c.R > 0xC0 && c.G < 0x80 {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Fatal("no text pixels found")
	}
}

func TestFaceCacheRoundsSizes(t *testing.T) {
	a, err := FaceForSize(30.1)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := FaceForSize(29.9)
	if a != b {
		t.Fatal("expected sizes within a quarter pixel to share a face")
	}
	if _, err := FaceForSize(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestClipPolygonKeepsInside(t *testing.T) {
	sq := []geom.Point{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}}
	out := clipPolygon(sq, geom.Box{W: 5, H: 5})
	if len(out) != 4 {
		t.Fatalf("clipped to %d vertices", len(out))
	}
	for _, p := range out {
		if p.X < 0 || p.X > 5 || p.Y < 0 || p.Y > 5 {
			t.Fatalf("vertex %v outside clip box", p)
		}
	}
}
