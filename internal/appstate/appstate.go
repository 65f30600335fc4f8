// Package appstate is the desktop window around an editing session. It maps
// window input onto the editor and draws the editor's scene with a toolbar
// and a caption bar.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/palette"
	"github.com/example/photomark/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a frame is allowed to finish.
const frameDropThreshold = 10

const (
	toastDuration = 2 * time.Second
	captionLimit  = 280
	promptLimit   = 200
)

// AppState holds the window configuration for one editing session.
type AppState struct {
	Editor  *editor.Editor
	Palette *palette.Palette
	Theme   *theme.Theme
	Title   string

	onResult    func(error)
	onClose     func()
	closeOnSend bool
	closeOnce   sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEditor sets the session shown in the window.
func WithEditor(ed *editor.Editor) Option { return func(a *AppState) { a.Editor = ed } }

// WithPalette sets the toolbar swatches.
func WithPalette(p *palette.Palette) Option { return func(a *AppState) { a.Palette = p } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithSendResult registers a callback run on the UI goroutine after every
// send finishes.
func WithSendResult(fn func(error)) Option { return func(a *AppState) { a.onResult = fn } }

// WithCloseOnSend closes the window after a successful send.
func WithCloseOnSend(on bool) Option { return func(a *AppState) { a.closeOnSend = on } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{Title: "Photomark"}
	for _, o := range opts {
		o(a)
	}
	if a.Editor == nil {
		a.Editor = editor.New()
	}
	if a.Palette == nil {
		a.Palette = palette.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.Editor.Close()
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// sendDoneEvent carries a finished send back onto the event loop.
type sendDoneEvent struct{ err error }

// closeEvent asks the event loop to stop.
type closeEvent struct{}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window until it is closed.
func (a *AppState) Main(s screen.Screen) {
	ed := a.Editor
	if !ed.Ready() {
		log.Printf("appstate: %v", editor.ErrNotReady)
		a.notifyClose()
		return
	}
	width, height := initialWindow(ed.Size())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ed.Frames().C():
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	ctx, cancelSends := context.WithCancel(context.Background())
	defer cancelSends()

	u := newUI(ed, a.Palette, width, height)
	u.send = func() {
		ch := ed.Send(ctx)
		go func() { w.Send(sendDoneEvent{err: <-ch}) }()
	}
	u.close = func() { w.Send(closeEvent{}) }

	p := newPainter(a.Theme, ed.Renderer())
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, p, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case closeEvent:
			return
		case size.Event:
			u.relayout(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := u.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case sendDoneEvent:
			u.sendFinished(e.err)
			if a.onResult != nil {
				a.onResult(e.err)
			}
			if e.err == nil && a.closeOnSend {
				return
			}
			w.Send(paint.Event{})
		case mouse.Event:
			if u.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if u.handleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

// ui is the window state that sits on top of the editor: buttons, focus,
// typed text and toasts. It is only touched from the event loop.
type ui struct {
	ed      *editor.Editor
	layout  layout
	buttons []*Button
	tools   []*Button
	swatch  []*Button
	undo    *Button
	del     *Button
	sendBtn *Button
	keys    *keymap

	hover, pressed int
	dragging       bool
	caption        textField
	captionFocus   bool
	prompt         textField

	message      string
	messageUntil time.Time

	send  func()
	close func()
	now   func() time.Time
}

var toolLabels = map[editor.Tool]string{
	editor.ToolSelect:    "V:Select",
	editor.ToolFreehand:  "P:Pen",
	editor.ToolArrow:     "A:Arrow",
	editor.ToolRectangle: "R:Rect",
	editor.ToolCircle:    "C:Circle",
	editor.ToolText:      "T:Text",
}

var toolKeys = map[editor.Tool]rune{
	editor.ToolSelect:    'v',
	editor.ToolFreehand:  'p',
	editor.ToolArrow:     'a',
	editor.ToolRectangle: 'r',
	editor.ToolCircle:    'c',
	editor.ToolText:      't',
}

func newUI(ed *editor.Editor, pal *palette.Palette, width, height int) *ui {
	u := &ui{
		ed:      ed,
		keys:    newKeymap(),
		hover:   -1,
		pressed: -1,
		caption: textField{text: ed.Caption(), limit: captionLimit},
		prompt:  textField{limit: promptLimit},
		now:     time.Now,
	}
	for _, t := range editor.Tools {
		b := &Button{
			Label:  toolLabels[t],
			Action: func() { u.ed.SetTool(t) },
			Active: func() bool { return u.ed.Tool() == t },
		}
		u.tools = append(u.tools, b)
		u.keys.register("tool-"+t.String(), shortcutList{{Rune: toolKeys[t]}}, b.Activate)
	}
	for i, entry := range pal.Entries() {
		col := entry.Color
		b := &Button{
			Label:  entry.Name,
			Swatch: col,
			swatch: true,
			Action: func() { u.ed.SetColor(col) },
			Active: func() bool { return u.ed.Color() == col },
		}
		u.swatch = append(u.swatch, b)
		if i < 9 {
			u.keys.register("color-"+entry.Name, shortcutList{{Rune: rune('1' + i)}}, b.Activate)
		}
	}
	u.undo = &Button{Label: "Undo", Action: u.undoLast}
	u.del = &Button{Label: "Delete", Action: u.deleteSelected, Active: ed.ClearArmed}
	u.sendBtn = &Button{Label: "Send", Action: u.requestSend}

	u.buttons = append(append(append([]*Button{}, u.tools...), u.swatch...), u.undo, u.del, u.sendBtn)

	u.keys.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, u.undoLast)
	u.keys.register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, u.deleteSelected)
	u.keys.register("confirm", shortcutList{{Code: key.CodeReturnEnter}, {Code: key.CodeKeypadEnter}}, u.confirm)
	u.keys.register("send", shortcutList{
		{Code: key.CodeReturnEnter, Modifiers: key.ModControl},
		{Code: key.CodeKeypadEnter, Modifiers: key.ModControl},
	}, u.requestSend)
	u.keys.register("cancel", shortcutList{{Code: key.CodeEscape}}, u.cancel)
	u.keys.register("caption", shortcutList{{Rune: 'e'}}, func() { u.captionFocus = true })
	u.keys.register("close", shortcutList{{Rune: 'q', Modifiers: key.ModControl}, {Rune: 'w', Modifiers: key.ModControl}}, func() {
		if u.close != nil {
			u.close()
		}
	})
	u.relayout(width, height)
	return u
}

func (u *ui) relayout(width, height int) {
	u.layout = computeLayout(width, height, u.ed.Size(), len(u.tools), len(u.swatch))
	for i, b := range u.tools {
		b.Rect = u.layout.tools[i]
	}
	for i, b := range u.swatch {
		b.Rect = u.layout.swatches[i]
	}
	u.undo.Rect = u.layout.undo
	u.del.Rect = u.layout.del
	u.sendBtn.Rect = u.layout.send
}

func (u *ui) toast(msg string) {
	u.message = msg
	u.messageUntil = u.now().Add(toastDuration)
	log.Print(msg)
}

func (u *ui) toastVisible() bool {
	return u.message != "" && u.now().Before(u.messageUntil)
}

func (u *ui) undoLast() {
	if !u.ed.Undo() {
		u.toast("nothing to undo")
	}
}

func (u *ui) deleteSelected() {
	if out := u.ed.DeleteSelected(); out != editor.DeletedSelected {
		u.toast(out.String())
	}
}

func (u *ui) confirm() {
	if u.ed.ConfirmClear() {
		u.toast(editor.ClearedAll.String())
	}
}

func (u *ui) cancel() {
	switch {
	case u.ed.ClearArmed():
		u.ed.CancelClear()
	case u.toastVisible():
		u.messageUntil = time.Time{}
	}
}

func (u *ui) requestSend() {
	u.captionFocus = false
	u.toast("sending")
	if u.send != nil {
		u.send()
	}
}

func (u *ui) sendFinished(err error) {
	if err != nil {
		u.toast("send failed: " + err.Error())
		return
	}
	u.toast("sent")
}

func (u *ui) buttonAt(p image.Point) int {
	for i, b := range u.buttons {
		if p.In(b.Rect) {
			return i
		}
	}
	return -1
}

// handleMouse applies a pointer event and reports whether the window needs
// repainting for reasons the editor does not track.
func (u *ui) handleMouse(e mouse.Event) bool {
	pt := image.Pt(int(e.X), int(e.Y))
	switch e.Direction {
	case mouse.DirNone:
		redraw := false
		if h := u.buttonAt(pt); h != u.hover {
			u.hover = h
			redraw = true
		}
		if u.dragging {
			if err := u.ed.PointerMove(u.layout.toImage(e.X, e.Y)); err != nil {
				log.Printf("pointer move: %v", err)
			}
		}
		return redraw
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if u.toastVisible() && u.message != "sending" {
			u.messageUntil = time.Time{}
		}
		if i := u.buttonAt(pt); i >= 0 {
			u.pressed = i
			return true
		}
		if pt.In(u.layout.caption) {
			u.captionFocus = true
			return true
		}
		u.captionFocus = false
		if !u.layout.inCanvas(pt) {
			return true
		}
		if u.ed.State() == editor.StateAwaitingText {
			u.ed.CancelText()
		}
		if err := u.ed.PointerDown(u.layout.toImage(e.X, e.Y)); err != nil {
			log.Printf("pointer down: %v", err)
			return true
		}
		u.dragging = true
		if u.ed.State() == editor.StateAwaitingText {
			u.prompt.reset()
		}
		return true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if u.pressed >= 0 {
			b := u.buttons[u.pressed]
			u.pressed = -1
			if pt.In(b.Rect) {
				b.Activate()
			}
			return true
		}
		if u.dragging {
			u.dragging = false
			if err := u.ed.PointerUp(u.layout.toImage(e.X, e.Y)); err != nil {
				log.Printf("pointer up: %v", err)
			}
		}
		return true
	}
	return false
}

// handleKey routes a key press to the text prompt, the caption bar or the
// shortcut map, in that order.
func (u *ui) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if u.ed.State() == editor.StateAwaitingText {
		switch u.prompt.handle(e) {
		case fieldSubmit:
			if err := u.ed.SubmitText(u.prompt.text); err != nil {
				log.Printf("text: %v", err)
			}
			u.prompt.reset()
		case fieldCancel:
			u.ed.CancelText()
			u.prompt.reset()
		case fieldIgnored:
			return false
		}
		return true
	}
	if u.captionFocus {
		if e.Modifiers&key.ModControl != 0 && (e.Code == key.CodeReturnEnter || e.Code == key.CodeKeypadEnter) {
			u.requestSend()
			return true
		}
		switch u.caption.handle(e) {
		case fieldSubmit, fieldCancel:
			u.captionFocus = false
		case fieldEdited:
			u.ed.SetCaption(u.caption.text)
		case fieldIgnored:
			return false
		}
		return true
	}
	_, ok := u.keys.dispatch(e)
	return ok
}

func (u *ui) paintState() paintState {
	st := paintState{
		layout:       u.layout,
		scene:        u.ed.SnapshotScene(),
		caption:      u.caption.text,
		captionFocus: u.captionFocus,
		message:      u.message,
		messageUntil: u.messageUntil,
	}
	for i, b := range u.buttons {
		bp := b.paint(b.state(i == u.hover, i == u.pressed))
		if b == u.del && u.ed.ClearArmed() {
			bp.face.label = "Clear all?"
		}
		st.buttons = append(st.buttons, bp)
	}
	if anchor, ok := u.ed.TextAnchor(); ok {
		st.prompt = &promptState{
			at:    u.layout.fromImage(anchor),
			text:  u.prompt.text,
			color: u.ed.Color(),
			size:  u.ed.TextSize() * u.layout.zoom,
		}
	}
	return st
}
