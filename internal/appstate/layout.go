package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/photomark/internal/geom"
)

const (
	toolbarWidth  = 92
	captionHeight = 32
	buttonHeight  = 24
	buttonGap     = 4
	swatchSize    = 18
	// maxWindow bounds the initial window so large photos open fitted.
	maxWindowW = 1280
	maxWindowH = 860
)

// layout places every element of a frame. It is a pure function of the
// window size and photo size so the event loop and the painter agree.
type layout struct {
	width, height int
	view          image.Rectangle
	zoom          float64
	tools         []image.Rectangle
	swatches      []image.Rectangle
	undo          image.Rectangle
	del           image.Rectangle
	send          image.Rectangle
	caption       image.Rectangle
}

func computeLayout(width, height int, photo image.Point, tools, swatches int) layout {
	l := layout{width: width, height: height}
	l.zoom = fitZoom(photo, width, height)
	l.view = imageRect(photo, width, height, l.zoom)

	x0, x1 := buttonGap, toolbarWidth-buttonGap
	y := buttonGap
	next := func(h int) image.Rectangle {
		r := image.Rect(x0, y, x1, y+h)
		y += h + buttonGap
		return r
	}
	for i := 0; i < tools; i++ {
		l.tools = append(l.tools, next(buttonHeight))
	}
	y += buttonGap
	perRow := max(1, (x1-x0+buttonGap)/(swatchSize+buttonGap))
	for i := 0; i < swatches; i++ {
		col, row := i%perRow, i/perRow
		sx := x0 + col*(swatchSize+buttonGap)
		sy := y + row*(swatchSize+buttonGap)
		l.swatches = append(l.swatches, image.Rect(sx, sy, sx+swatchSize, sy+swatchSize))
	}
	rows := (swatches + perRow - 1) / perRow
	y += rows*(swatchSize+buttonGap) + buttonGap
	l.undo = next(buttonHeight)
	l.del = next(buttonHeight)
	l.send = next(buttonHeight)
	l.caption = image.Rect(toolbarWidth, height-captionHeight, width, height)
	return l
}

// fitZoom scales the photo to the space right of the toolbar and above the
// caption bar, never enlarging it.
func fitZoom(photo image.Point, winW, winH int) float64 {
	if photo.X <= 0 || photo.Y <= 0 {
		return 1
	}
	availW := winW - toolbarWidth
	availH := winH - captionHeight
	if availW <= 0 || availH <= 0 {
		return 1
	}
	z := math.Min(float64(availW)/float64(photo.X), float64(availH)/float64(photo.Y))
	return math.Min(z, 1)
}

// imageRect centres the scaled photo in the canvas area.
func imageRect(photo image.Point, winW, winH int, zoom float64) image.Rectangle {
	w := int(math.Round(float64(photo.X) * zoom))
	h := int(math.Round(float64(photo.Y) * zoom))
	x0 := toolbarWidth + max(0, (winW-toolbarWidth-w)/2)
	y0 := max(0, (winH-captionHeight-h)/2)
	return image.Rect(x0, y0, x0+w, y0+h)
}

// toImage maps a window position into photo pixels.
func (l layout) toImage(x, y float32) geom.Point {
	if l.zoom == 0 {
		return geom.Pt(float64(x), float64(y))
	}
	return geom.Pt(
		(float64(x)-float64(l.view.Min.X))/l.zoom,
		(float64(y)-float64(l.view.Min.Y))/l.zoom,
	)
}

// fromImage maps photo pixels to window pixels.
func (l layout) fromImage(p geom.Point) image.Point {
	return image.Pt(
		l.view.Min.X+int(math.Round(p.X*l.zoom)),
		l.view.Min.Y+int(math.Round(p.Y*l.zoom)),
	)
}

// inCanvas reports whether a window position is over the drawing area,
// which extends past the photo edges so strokes can start near them.
func (l layout) inCanvas(p image.Point) bool {
	return p.X >= toolbarWidth && p.Y < l.height-captionHeight
}

func initialWindow(photo image.Point) (int, int) {
	w := min(photo.X+toolbarWidth, maxWindowW)
	h := min(photo.Y+captionHeight, maxWindowH)
	return max(w, 480), max(h, 360)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+thick, rect.Min.X+thick, rect.Max.Y-thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y+thick, rect.Max.X, rect.Max.Y-thick), u, image.Point{}, draw.Over)
}
