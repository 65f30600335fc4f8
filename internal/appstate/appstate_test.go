package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/geom"
	"github.com/example/photomark/internal/palette"
	"github.com/example/photomark/internal/theme"
)

var white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}

// newTestUI opens a 400x300 white photo in an 800x600 window. The photo is
// shown at zoom 1 with its top-left corner at (246,134).
func newTestUI(t *testing.T) *ui {
	t.Helper()
	ed := editor.New()
	bg := image.NewRGBA(image.Rect(0, 0, 400, 300))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	if err := ed.SetBackground(bg); err != nil {
		t.Fatalf("SetBackground: %v", err)
	}
	return newUI(ed, palette.New(), 800, 600)
}

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func click(u *ui, p image.Point) {
	u.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	u.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func dragWindow(u *ui, from, to image.Point) {
	u.handleMouse(mouse.Event{X: float32(from.X), Y: float32(from.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	u.handleMouse(mouse.Event{X: float32(to.X), Y: float32(to.Y), Direction: mouse.DirNone})
	u.handleMouse(mouse.Event{X: float32(to.X), Y: float32(to.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestLayoutMapping(t *testing.T) {
	l := computeLayout(800, 600, image.Pt(400, 300), 6, 5)
	if l.zoom != 1 {
		t.Fatalf("zoom %v, want 1", l.zoom)
	}
	if l.view.Min != image.Pt(246, 134) {
		t.Fatalf("view origin %v", l.view.Min)
	}
	if got := l.toImage(256, 144); got != geom.Pt(10, 10) {
		t.Fatalf("toImage %v", got)
	}
	if got := l.fromImage(geom.Pt(10, 10)); got != image.Pt(256, 144) {
		t.Fatalf("fromImage %v", got)
	}

	big := computeLayout(800, 600, image.Pt(4000, 3000), 6, 5)
	if big.zoom >= 1 || big.view.Max.X > 800 || big.view.Max.Y > 600-captionHeight {
		t.Fatalf("large photo not fitted: zoom %v view %v", big.zoom, big.view)
	}
	p := geom.Pt(2000, 1500)
	back := big.toImage(float32(big.fromImage(p).X), float32(big.fromImage(p).Y))
	if math.Abs(back.X-p.X) > 1/big.zoom || math.Abs(back.Y-p.Y) > 1/big.zoom {
		t.Fatalf("round trip %v -> %v", p, back)
	}
}

func TestFitZoomNeverEnlarges(t *testing.T) {
	if z := fitZoom(image.Pt(50, 40), 1200, 900); z != 1 {
		t.Fatalf("small photo zoom %v", z)
	}
	if z := fitZoom(image.Point{}, 800, 600); z != 1 {
		t.Fatalf("empty photo zoom %v", z)
	}
}

func TestToolbarFitsAndDoesNotOverlap(t *testing.T) {
	l := computeLayout(800, 600, image.Pt(400, 300), 6, 5)
	rects := append(append(append([]image.Rectangle{}, l.tools...), l.swatches...), l.undo, l.del, l.send)
	for i, r := range rects {
		if r.Max.X > toolbarWidth || r.Min.X < 0 {
			t.Errorf("rect %d %v leaves the toolbar", i, r)
		}
		for j := i + 1; j < len(rects); j++ {
			if r.Overlaps(rects[j]) {
				t.Errorf("rects %d and %d overlap: %v %v", i, j, r, rects[j])
			}
		}
	}
	if !l.inCanvas(image.Pt(100, 10)) || l.inCanvas(image.Pt(10, 10)) || l.inCanvas(image.Pt(400, 590)) {
		t.Fatal("unexpected canvas area")
	}
}

func TestTextField(t *testing.T) {
	f := textField{limit: 3}
	for _, r := range "hé" {
		if got := f.handle(press(r, 0, 0)); got != fieldEdited {
			t.Fatalf("typing %q: %v", r, got)
		}
	}
	if got := f.handle(press('a', key.CodeA, key.ModControl)); got != fieldIgnored {
		t.Fatalf("ctrl+a: %v", got)
	}
	f.handle(press('\b', key.CodeDeleteBackspace, 0))
	if f.text != "h" {
		t.Fatalf("after backspace %q", f.text)
	}
	f.handle(press('x', 0, 0))
	f.handle(press('y', 0, 0))
	if got := f.handle(press('z', 0, 0)); got != fieldIgnored || f.text != "hxy" {
		t.Fatalf("limit not applied: %v %q", got, f.text)
	}
	if got := f.handle(press('\r', key.CodeReturnEnter, 0)); got != fieldSubmit {
		t.Fatalf("enter: %v", got)
	}
	if got := f.handle(press(-1, key.CodeEscape, 0)); got != fieldCancel {
		t.Fatalf("escape: %v", got)
	}
}

func TestShortcutOf(t *testing.T) {
	if sc := shortcutOf(press('V', key.CodeV, key.ModShift)); sc.Rune != 'v' || sc.Modifiers != 0 {
		t.Fatalf("shifted letter %+v", sc)
	}
	if sc := shortcutOf(press(0x1a, key.CodeZ, key.ModControl)); sc.Rune != 'z' {
		t.Fatalf("control character %+v", sc)
	}
}

func TestKeymapDispatch(t *testing.T) {
	k := newKeymap()
	var hits []string
	k.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() { hits = append(hits, "undo") })
	k.register("send", shortcutList{{Code: key.CodeReturnEnter, Modifiers: key.ModControl}}, func() { hits = append(hits, "send") })
	if name, ok := k.dispatch(press('z', key.CodeZ, key.ModControl)); !ok || name != "undo" {
		t.Fatalf("ctrl+z: %q %v", name, ok)
	}
	if name, ok := k.dispatch(press('\r', key.CodeReturnEnter, key.ModControl)); !ok || name != "send" {
		t.Fatalf("ctrl+enter: %q %v", name, ok)
	}
	if _, ok := k.dispatch(press('z', key.CodeZ, 0)); ok {
		t.Fatal("plain z should not match")
	}
	if len(hits) != 2 {
		t.Fatalf("actions run %v", hits)
	}
}

func TestButtonState(t *testing.T) {
	active := false
	b := &Button{Label: "x", Active: func() bool { return active }}
	if b.state(true, false) != StateHover || b.state(false, true) != StatePressed {
		t.Fatal("hover or press state wrong")
	}
	active = true
	if b.state(true, false) != StateActive {
		t.Fatal("active should win over hover")
	}
}

func TestButtonCacheRendersOnce(t *testing.T) {
	c := newButtonCache(theme.Default())
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	b := &Button{Label: "Undo", Rect: image.Rect(4, 4, 88, 28)}
	c.draw(dst, b.paint(StateDefault))
	c.draw(dst, b.paint(StateDefault))
	c.draw(dst, b.paint(StateHover))
	if len(c.imgs) != 2 {
		t.Fatalf("cached %d faces, want 2", len(c.imgs))
	}
	if got := dst.RGBAAt(4, 4); got != theme.Default().ButtonBorder {
		t.Fatalf("border pixel %+v", got)
	}
}

func TestUIDrawRectangle(t *testing.T) {
	u := newTestUI(t)
	if !u.handleKey(press('r', key.CodeR, 0)) || u.ed.Tool() != editor.ToolRectangle {
		t.Fatalf("tool %v after r", u.ed.Tool())
	}
	dragWindow(u, image.Pt(256, 144), image.Pt(356, 194))
	objs := u.ed.Store().Objects()
	if len(objs) != 1 {
		t.Fatalf("%d objects", len(objs))
	}
	r, ok := objs[0].(*annotation.Rectangle)
	if !ok {
		t.Fatalf("got %T", objs[0])
	}
	if r.Start != geom.Pt(10, 10) || r.End != geom.Pt(110, 60) {
		t.Fatalf("rectangle %v-%v", r.Start, r.End)
	}
	if u.ed.Selected() == nil || u.ed.Tool() != editor.ToolSelect {
		t.Fatal("new rectangle should be selected with the select tool")
	}
}

func TestUIToolbarButtons(t *testing.T) {
	u := newTestUI(t)
	click(u, center(u.tools[1].Rect))
	if u.ed.Tool() != editor.ToolFreehand {
		t.Fatalf("tool %v", u.ed.Tool())
	}
	click(u, center(u.swatch[3].Rect))
	if u.ed.Color() != palette.Defaults[3].Color {
		t.Fatalf("colour %v", u.ed.Color())
	}
	// a release away from the pressed button does nothing
	u.handleMouse(mouse.Event{X: float32(center(u.tools[2].Rect).X), Y: float32(center(u.tools[2].Rect).Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	u.handleMouse(mouse.Event{X: 400, Y: 300, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if u.ed.Tool() != editor.ToolFreehand {
		t.Fatal("cancelled press still activated")
	}
	if !u.handleMouse(mouse.Event{X: float32(center(u.undo.Rect).X), Y: float32(center(u.undo.Rect).Y), Direction: mouse.DirNone}) {
		t.Fatal("hover change should repaint")
	}
}

func TestUIColourKeys(t *testing.T) {
	u := newTestUI(t)
	u.handleKey(press('2', key.Code2, 0))
	if u.ed.Color() != palette.Defaults[1].Color {
		t.Fatalf("colour %v", u.ed.Color())
	}
}

func TestUITextPrompt(t *testing.T) {
	u := newTestUI(t)
	u.handleKey(press('t', key.CodeT, 0))
	click(u, image.Pt(286, 214))
	if u.ed.State() != editor.StateAwaitingText {
		t.Fatalf("state %v", u.ed.State())
	}
	// tool letters are typed into the prompt, not dispatched
	for _, r := range "Hi v" {
		u.handleKey(press(r, 0, 0))
	}
	st := u.paintState()
	if st.prompt == nil || st.prompt.text != "Hi v" || st.prompt.at != image.Pt(286, 214) {
		t.Fatalf("prompt %+v", st.prompt)
	}
	u.handleKey(press('\r', key.CodeReturnEnter, 0))
	objs := u.ed.Store().Objects()
	if len(objs) != 1 {
		t.Fatalf("%d objects", len(objs))
	}
	txt := objs[0].(*annotation.Text)
	if txt.Text != "Hi v" || txt.X != 40 || txt.Y != 80 {
		t.Fatalf("text %+v", txt)
	}
	if u.paintState().prompt != nil {
		t.Fatal("prompt still open")
	}
}

func TestUICaptionTypingAndSend(t *testing.T) {
	u := newTestUI(t)
	sends := 0
	u.send = func() { sends++ }
	click(u, center(u.layout.caption))
	if !u.captionFocus {
		t.Fatal("caption not focused")
	}
	for _, r := range "ok v" {
		u.handleKey(press(r, 0, 0))
	}
	if u.ed.Caption() != "ok v" || u.ed.Tool() != editor.ToolSelect {
		t.Fatalf("caption %q tool %v", u.ed.Caption(), u.ed.Tool())
	}
	u.handleKey(press('\r', key.CodeReturnEnter, key.ModControl))
	if sends != 1 || u.captionFocus {
		t.Fatalf("sends %d focus %v", sends, u.captionFocus)
	}
	click(u, center(u.sendBtn.Rect))
	if sends != 2 {
		t.Fatalf("send button: %d sends", sends)
	}
	u.sendFinished(nil)
	if u.message != "sent" {
		t.Fatalf("toast %q", u.message)
	}
}

func TestUIDeleteArmsThenConfirms(t *testing.T) {
	u := newTestUI(t)
	u.handleKey(press('r', key.CodeR, 0))
	dragWindow(u, image.Pt(256, 144), image.Pt(356, 194))
	u.handleKey(press('c', key.CodeC, 0))
	dragWindow(u, image.Pt(500, 300), image.Pt(540, 300))
	click(u, image.Pt(600, 420))
	if u.ed.Selected() != nil {
		t.Fatal("click on empty space should clear the selection")
	}
	u.handleKey(press(-1, key.CodeDeleteForward, 0))
	if !u.ed.ClearArmed() || u.message != editor.ClearNeedsConfirm.String() {
		t.Fatalf("armed %v toast %q", u.ed.ClearArmed(), u.message)
	}
	var label string
	for _, bp := range u.paintState().buttons {
		if bp.at == u.del.Rect.Min {
			label = bp.face.label
		}
	}
	if label != "Clear all?" {
		t.Fatalf("delete label %q", label)
	}
	u.handleKey(press(-1, key.CodeEscape, 0))
	if u.ed.ClearArmed() {
		t.Fatal("escape should disarm")
	}
	u.handleKey(press(-1, key.CodeDeleteForward, 0))
	u.handleKey(press('\r', key.CodeReturnEnter, 0))
	if u.ed.Store().Len() != 0 {
		t.Fatalf("%d objects left", u.ed.Store().Len())
	}
}

func TestUIUndoToast(t *testing.T) {
	u := newTestUI(t)
	now := time.Unix(1000, 0)
	u.now = func() time.Time { return now }
	u.handleKey(press('z', key.CodeZ, key.ModControl))
	if !u.toastVisible() || u.message != "nothing to undo" {
		t.Fatalf("toast %q", u.message)
	}
	now = now.Add(toastDuration + time.Millisecond)
	if u.toastVisible() {
		t.Fatal("toast should expire")
	}
}

func TestComposeFrame(t *testing.T) {
	u := newTestUI(t)
	th := theme.Default()
	p := newPainter(th, u.ed.Renderer())
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if err := p.compose(context.Background(), dst, u.paintState()); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := dst.RGBAAt(446, 284); got != white {
		t.Errorf("photo pixel %+v", got)
	}
	if got := dst.RGBAAt(100, 10); got != th.Background {
		t.Errorf("backdrop pixel %+v", got)
	}
	if got := dst.RGBAAt(1, 590); got != th.ToolbarBackground {
		t.Errorf("toolbar pixel %+v", got)
	}
	if got := dst.RGBAAt(center(u.swatch[0].Rect).X, center(u.swatch[0].Rect).Y); got != palette.Defaults[0].Color {
		t.Errorf("swatch pixel %+v", got)
	}
	if got := dst.RGBAAt(700, 590); got != th.CaptionBackground {
		t.Errorf("caption bar pixel %+v", got)
	}
}

func TestComposeCancelled(t *testing.T) {
	u := newTestUI(t)
	p := newPainter(theme.Default(), u.ed.Renderer())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if err := p.compose(ctx, dst, u.paintState()); err == nil {
		t.Fatal("expected cancellation error")
	}
}
