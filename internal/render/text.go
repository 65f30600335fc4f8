package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
)

var (
	fontOnce sync.Once
	textFont *opentype.Font
	fontErr  error
	faces    sync.Map // map[float64]font.Face
	// faceMu serialises glyph rasterisation; opentype faces keep scratch
	// buffers and are not safe for concurrent use.
	faceMu sync.Mutex
)

func regularFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		textFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return textFont, fontErr
}

// FaceForSize returns a cached Go Regular face at size pixels. Sizes are
// rounded to half a pixel so dragging a resize handle does not grow the cache
// without bound.
func FaceForSize(size float64) (font.Face, error) {
	if size <= 0 || !geom.Finite(size) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	key := math.Round(size*2) / 2
	if f, ok := faces.Load(key); ok {
		return f.(font.Face), nil
	}
	ft, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: key, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	actual, _ := faces.LoadOrStore(key, face)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width, ascent and descent of text.
func MeasureText(text string, size float64) (width, ascent, descent int, err error) {
	face, err := FaceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	m := face.Metrics()
	width = font.MeasureString(face, text).Ceil()
	return width, m.Ascent.Ceil(), m.Descent.Ceil(), nil
}

// DrawLabel writes text with its top-left corner at (x, y). It is used for
// window chrome and does not rotate.
func DrawLabel(dst *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := FaceForSize(size)
	if err != nil {
		return err
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}

// drawText renders a text annotation, rotated about center by angle.
func (r *Renderer) drawText(dst *image.RGBA, t *annotation.Text, center geom.Point, angle float64) error {
	if t.Text == "" || t.FontSize <= 0 {
		return nil
	}
	face, err := FaceForSize(t.FontSize)
	if err != nil {
		return err
	}
	label, origin := rasterLabel(face, t.Text, t.Color)
	if r.textShadow {
		res := ApplyShadow(label, ShadowForSize(t.FontSize))
		label = res.Image
		origin = origin.Add(res.Offset)
	}

	tx := t.X - float64(origin.X)
	ty := t.Y - float64(origin.Y)
	if angle == 0 {
		at := image.Pt(int(math.Round(tx)), int(math.Round(ty)))
		draw.Draw(dst, label.Bounds().Add(at), label, image.Point{}, draw.Over)
		return nil
	}
	sin, cos := math.Sincos(angle)
	cx, cy := center.X, center.Y
	m3 := f64.Aff3{
		cos, -sin, cx + cos*(tx-cx) - sin*(ty-cy),
		sin, cos, cy + sin*(tx-cx) + cos*(ty-cy),
	}
	xdraw.BiLinear.Transform(dst, m3, label, label.Bounds(), xdraw.Over, nil)
	return nil
}

// rasterLabel draws text onto a tight transparent image and returns it with
// the baseline origin inside that image.
func rasterLabel(face font.Face, text string, col color.Color) (*image.RGBA, image.Point) {
	faceMu.Lock()
	defer faceMu.Unlock()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()
	pad := 2
	label := image.NewRGBA(image.Rect(0, 0, width+2*pad, ascent+descent+2*pad))
	d := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(pad, pad+ascent),
	}
	d.DrawString(text)
	return label, image.Pt(pad, pad+ascent)
}
