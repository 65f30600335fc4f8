package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/photomark/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateActive
)

// Button is a clickable toolbar element. Swatch buttons show a colour
// instead of a label.
type Button struct {
	Label  string
	Swatch color.RGBA
	swatch bool
	Rect   image.Rectangle
	Action func()
	// Active reports whether the button shows as selected.
	Active func() bool
}

// Activate performs the button's action.
func (b *Button) Activate() {
	if b.Action != nil {
		b.Action()
	}
}

func (b *Button) state(hover, pressed bool) ButtonState {
	switch {
	case pressed:
		return StatePressed
	case b.Active != nil && b.Active():
		return StateActive
	case hover:
		return StateHover
	}
	return StateDefault
}

// buttonFace is a comparable description of how a button looks. The painter
// caches rendered buttons by it.
type buttonFace struct {
	label  string
	swatch color.RGBA
	isSwat bool
	size   image.Point
	state  ButtonState
}

type buttonPaint struct {
	face buttonFace
	at   image.Point
}

func (b *Button) paint(state ButtonState) buttonPaint {
	return buttonPaint{
		face: buttonFace{label: b.Label, swatch: b.Swatch, isSwat: b.swatch, size: b.Rect.Size(), state: state},
		at:   b.Rect.Min,
	}
}

// buttonCache renders each distinct button face once.
type buttonCache struct {
	theme *theme.Theme
	imgs  map[buttonFace]*image.RGBA
}

func newButtonCache(t *theme.Theme) *buttonCache {
	return &buttonCache{theme: t, imgs: make(map[buttonFace]*image.RGBA)}
}

func (c *buttonCache) draw(dst *image.RGBA, bp buttonPaint) {
	img, ok := c.imgs[bp.face]
	if !ok {
		img = renderButton(bp.face, c.theme)
		c.imgs[bp.face] = img
	}
	r := image.Rectangle{Min: bp.at, Max: bp.at.Add(bp.face.size)}
	draw.Draw(dst, r, img, image.Point{}, draw.Over)
}

func renderButton(f buttonFace, t *theme.Theme) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: f.size})
	b := img.Bounds()
	if f.isSwat {
		draw.Draw(img, b, image.NewUniform(f.swatch), image.Point{}, draw.Src)
		border, thick := t.ButtonBorder, 1
		switch f.state {
		case StateActive, StatePressed:
			border, thick = t.ButtonTextActive, 3
		case StateHover:
			thick = 2
		}
		drawRect(img, b, border, thick)
		return img
	}
	bg, fg := t.ButtonBackground, t.ButtonText
	switch f.state {
	case StateHover:
		bg = t.ButtonBackgroundHover
	case StatePressed, StateActive:
		bg, fg = t.ButtonBackgroundActive, t.ButtonTextActive
	}
	draw.Draw(img, b, image.NewUniform(bg), image.Point{}, draw.Src)
	drawRect(img, b, t.ButtonBorder, 1)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: basicfont.Face7x13}
	w := d.MeasureString(f.label).Ceil()
	d.Dot = fixed.P(max(4, (b.Dx()-w)/2), (b.Dy()+basicfont.Face7x13.Ascent)/2)
	d.DrawString(f.label)
	return img
}

// KeyShortcut is one key combination bound to an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutOf normalises a key event for lookup. Letter case is folded so
// shifted letters match, and the shift modifier is dropped for runes.
func shortcutOf(e key.Event) KeyShortcut {
	mods := e.Modifiers
	r := e.Rune
	if r > 0 {
		r = unicode.ToLower(r)
		mods &^= key.ModShift
	}
	if mods&key.ModControl != 0 && r > 0 && r < 0x20 {
		// some drivers report control characters for ctrl+letter
		r += 'a' - 1
	}
	return KeyShortcut{Rune: r, Code: e.Code, Modifiers: mods}
}

// keymap binds shortcuts to named actions.
type keymap struct {
	actions  map[string]func()
	bindings map[KeyShortcut]string
}

func newKeymap() *keymap {
	return &keymap{actions: map[string]func(){}, bindings: map[KeyShortcut]string{}}
}

func (k *keymap) register(name string, keys KeyboardShortcuts, fn func()) {
	k.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		k.bindings[sc] = name
	}
}

// dispatch runs the action bound to e and reports whether one matched.
// A rune binding is tried first, then the key code alone.
func (k *keymap) dispatch(e key.Event) (string, bool) {
	sc := shortcutOf(e)
	name, ok := k.bindings[sc]
	if !ok && sc.Rune != 0 {
		name, ok = k.bindings[KeyShortcut{Rune: sc.Rune, Modifiers: sc.Modifiers}]
	}
	if !ok {
		name, ok = k.bindings[KeyShortcut{Code: sc.Code, Modifiers: sc.Modifiers}]
	}
	if !ok {
		return "", false
	}
	if fn := k.actions[name]; fn != nil {
		fn()
	}
	return name, true
}
