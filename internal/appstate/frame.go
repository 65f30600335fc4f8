package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"

	"github.com/example/photomark/internal/render"
	"github.com/example/photomark/internal/theme"
)

const (
	uiTextSize      = 15
	toastTextSize   = 22
	captionHint     = "Click to add a caption. Ctrl+Enter sends."
	minPromptSize   = 10
	checkerCellSize = 8
)

// promptState is the open text prompt, in window coordinates.
type promptState struct {
	at    image.Point
	text  string
	color color.RGBA
	size  float64
}

// paintState is everything one frame needs. It is built on the event loop
// and drawn on the paint goroutine, so it holds no live editor objects.
type paintState struct {
	layout       layout
	scene        render.Scene
	buttons      []buttonPaint
	caption      string
	captionFocus bool
	prompt       *promptState
	message      string
	messageUntil time.Time
}

// painter owns the buffers reused across frames. It is used by the paint
// goroutine only.
type painter struct {
	theme    *theme.Theme
	renderer *render.Renderer
	canvas   *image.RGBA
	checker  *image.RGBA
	buttons  *buttonCache
}

func newPainter(t *theme.Theme, r *render.Renderer) *painter {
	return &painter{theme: t, renderer: r, buttons: newButtonCache(t)}
}

// compose draws st onto dst. It returns early with ctx's error when a newer
// frame supersedes this one.
func (p *painter) compose(ctx context.Context, dst *image.RGBA, st paintState) error {
	t := p.theme
	l := st.layout
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(t.Background), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, b.Dy()), image.NewUniform(t.ToolbarBackground), image.Point{}, draw.Src)

	if st.scene.Background != nil && !l.view.Empty() {
		if p.checker == nil || p.checker.Bounds().Size() != l.view.Size() {
			p.checker = image.NewRGBA(image.Rectangle{Max: l.view.Size()})
			drawCheckerboard(p.checker, p.checker.Bounds(), checkerCellSize, t.CheckerLight, t.CheckerDark)
		}
		draw.Draw(dst, l.view, p.checker, image.Point{}, draw.Src)

		size := st.scene.Background.Bounds().Size()
		if p.canvas == nil || p.canvas.Bounds().Size() != size {
			p.canvas = image.NewRGBA(image.Rectangle{Max: size})
		}
		if err := p.renderer.Render(ctx, p.canvas, st.scene); err != nil {
			return err
		}
		if l.zoom == 1 {
			draw.Draw(dst, l.view, p.canvas, image.Point{}, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, l.view, p.canvas, p.canvas.Bounds(), xdraw.Over, nil)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, bp := range st.buttons {
		p.buttons.draw(dst, bp)
	}
	p.drawCaption(dst, st)
	if st.prompt != nil {
		p.drawPrompt(dst, *st.prompt)
	}
	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.drawToast(dst, st.message)
	}
	return ctx.Err()
}

func (p *painter) drawCaption(dst *image.RGBA, st paintState) {
	r := st.layout.caption
	draw.Draw(dst, r, image.NewUniform(p.theme.CaptionBackground), image.Point{}, draw.Src)
	text, col := st.caption, p.theme.CaptionText
	if st.captionFocus {
		text += "|"
	} else if text == "" {
		text = captionHint
		col = mix(col, p.theme.CaptionBackground)
	}
	_, ascent, descent, _ := render.MeasureText(text, uiTextSize)
	y := r.Min.Y + (r.Dy()-ascent-descent)/2
	_ = render.DrawLabel(dst, r.Min.X+8, y, text, col, uiTextSize)
}

func (p *painter) drawPrompt(dst *image.RGBA, ps promptState) {
	size := math.Max(minPromptSize, ps.size)
	text := ps.text + "|"
	w, ascent, descent, err := render.MeasureText(text, size)
	if err != nil {
		return
	}
	// the anchor is the baseline, as for committed labels
	top := ps.at.Y - ascent
	box := image.Rect(ps.at.X-4, top-4, ps.at.X+w+4, ps.at.Y+descent+4)
	draw.Draw(dst, box, image.NewUniform(color.RGBA{0, 0, 0, 0x80}), image.Point{}, draw.Over)
	drawRect(dst, box, p.theme.SelectionPrimary, 1)
	_ = render.DrawLabel(dst, ps.at.X, top, text, ps.color, size)
}

func (p *painter) drawToast(dst *image.RGBA, msg string) {
	w, ascent, descent, err := render.MeasureText(msg, toastTextSize)
	if err != nil {
		return
	}
	b := dst.Bounds()
	px := toolbarWidth + (b.Dx()-toolbarWidth-w)/2
	py := (b.Dy()-ascent-descent)/2 - captionHeight
	rect := image.Rect(px-12, py-8, px+w+12, py+ascent+descent+8)
	draw.Draw(dst, rect, image.NewUniform(p.theme.ToastBackground), image.Point{}, draw.Over)
	drawRect(dst, rect, p.theme.ButtonBorder, 1)
	_ = render.DrawLabel(dst, px, py, msg, p.theme.ToastText, toastTextSize)
}

// mix averages two opaque colours.
func mix(a, b color.RGBA) color.RGBA {
	avg := func(x, y uint8) uint8 { return uint8((uint16(x) + uint16(y)) / 2) }
	return color.RGBA{avg(a.R, b.R), avg(a.G, b.G), avg(a.B, b.B), avg(a.A, b.A)}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, p *painter, st paintState) {
	b, err := s.NewBuffer(image.Point{st.layout.width, st.layout.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if err := p.compose(ctx, b.RGBA(), st); err != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
