// Package editor implements the annotation tool state machine. An Editor is
// owned by a single goroutine: every pointer, tool and history call must come
// from the same caller. Rendering for display is signalled through Frames and
// exporting runs on its own goroutine from a deep snapshot.
package editor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/geom"
	"github.com/example/photomark/internal/hittest"
	"github.com/example/photomark/internal/palette"
	"github.com/example/photomark/internal/render"
	"github.com/example/photomark/internal/transform"
)

var (
	// ErrNotReady is returned for input received before a background is set.
	ErrNotReady = errors.New("editor: background image not loaded")
	// ErrNoBackground is returned by SetBackground for a nil or empty image.
	ErrNoBackground = errors.New("editor: background image is empty")
	// ErrNoTextPending is returned by SubmitText outside the text prompt.
	ErrNoTextPending = errors.New("editor: no text placement pending")
)

const (
	// DefaultMinShapeSize is the extent at or below which arrows, rectangles and
	// circles are treated as accidental taps and discarded.
	DefaultMinShapeSize = 5
	// DefaultFontSize is the smallest automatic text size.
	DefaultFontSize = 30
	// fontSizeRatio scales the automatic text size with the photo.
	fontSizeRatio = 0.04
)

// Editor holds one editing session over one photo.
type Editor struct {
	store    *annotation.Store
	tool     Tool
	color    color.RGBA
	selected string
	state    State
	session  *transform.Session

	textAnchor   geom.Point
	confirmClear bool
	caption      string

	background image.Image
	size       image.Point
	scale      hittest.Scale
	tol        hittest.Tolerance

	minShapeSize     float64
	minPointDistance float64
	fontSize         float64
	minFontSize      float64

	renderer *render.Renderer
	exportOp export.Options
	frames   *Frames
	onSend   func(*export.Result, string) error
	onClose  func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithColor sets the initial drawing colour.
func WithColor(c color.RGBA) Option { return func(e *Editor) { e.color = c } }

// WithScale sets how hit tolerances grow with the photo.
func WithScale(s hittest.Scale) Option { return func(e *Editor) { e.scale = s } }

// WithMinShapeSize sets the tap rejection threshold. Zero keeps every shape.
func WithMinShapeSize(v float64) Option { return func(e *Editor) { e.minShapeSize = v } }

// WithMinPointDistance drops freehand samples closer than v to the previous
// one. Zero keeps every sample.
func WithMinPointDistance(v float64) Option { return func(e *Editor) { e.minPointDistance = v } }

// WithFontSize fixes the text size. Zero scales it with the photo.
func WithFontSize(v float64) Option { return func(e *Editor) { e.fontSize = v } }

// WithMinFontSize floors text resizing.
func WithMinFontSize(v float64) Option { return func(e *Editor) { e.minFontSize = v } }

// WithRenderer sets the renderer used for display and export.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Editor) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithExport sets the encoding used by Send.
func WithExport(o export.Options) Option { return func(e *Editor) { e.exportOp = o } }

// WithFrames shares a frame scheduler with the caller.
func WithFrames(f *Frames) Option {
	return func(e *Editor) {
		if f != nil {
			e.frames = f
		}
	}
}

// WithOnSend sets the callback receiving the flattened result and caption.
func WithOnSend(fn func(*export.Result, string) error) Option {
	return func(e *Editor) { e.onSend = fn }
}

// WithOnClose sets the callback run when the user abandons the edit.
func WithOnClose(fn func()) Option { return func(e *Editor) { e.onClose = fn } }

// New returns an Editor that becomes interactive once SetBackground
// succeeds.
func New(opts ...Option) *Editor {
	e := &Editor{
		store:        annotation.NewStore(),
		tool:         ToolSelect,
		color:        palette.Defaults[0].Color,
		scale:        hittest.DefaultScale,
		minShapeSize: DefaultMinShapeSize,
		minFontSize:  transform.DefaultMinFontSize,
		renderer:     render.New(),
		exportOp:     export.DefaultOptions(),
		frames:       NewFrames(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetBackground installs the photo and sizes the surface to its native
// resolution. The editor is not interactive until this succeeds.
func (e *Editor) SetBackground(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrNoBackground
	}
	e.background = img
	e.size = img.Bounds().Size()
	e.tol = e.scale.For(e.size.X, e.size.Y)
	e.changed()
	return nil
}

// Ready reports whether pointer input is accepted.
func (e *Editor) Ready() bool { return e.background != nil }

// Background returns the photo being annotated.
func (e *Editor) Background() image.Image { return e.background }

// Size is the native surface size.
func (e *Editor) Size() image.Point { return e.size }

// Tolerance returns the hit tolerances for the current photo.
func (e *Editor) Tolerance() hittest.Tolerance { return e.tol }

// Store exposes the annotation store for inspection.
func (e *Editor) Store() *annotation.Store { return e.store }

// Frames returns the redraw scheduler.
func (e *Editor) Frames() *Frames { return e.frames }

// Renderer returns the renderer used by the editor.
func (e *Editor) Renderer() *render.Renderer { return e.renderer }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// State returns the phase of the state machine.
func (e *Editor) State() State { return e.state }

// Color returns the colour used for the next object.
func (e *Editor) Color() color.RGBA { return e.color }

// Caption returns the caption typed by the user.
func (e *Editor) Caption() string { return e.caption }

// SetCaption stores the caption passed to the send callback.
func (e *Editor) SetCaption(s string) {
	e.caption = s
	e.changed()
}

// Selected returns the selected object, or nil.
func (e *Editor) Selected() annotation.Object { return e.store.Find(e.selected) }

// ClearArmed reports whether the next delete clears everything.
func (e *Editor) ClearArmed() bool { return e.confirmClear }

// TextAnchor returns where the prompted text will be placed.
func (e *Editor) TextAnchor() (geom.Point, bool) {
	return e.textAnchor, e.state == StateAwaitingText
}

// SetTool switches tools, finishing any open interaction first.
func (e *Editor) SetTool(t Tool) {
	e.confirmClear = false
	e.finish()
	e.tool = t
	e.changed()
}

// SetColor changes the colour for new objects and repaints the selection.
func (e *Editor) SetColor(c color.RGBA) {
	e.confirmClear = false
	e.color = c
	if o := e.Selected(); o != nil {
		annotation.BaseOf(o).Color = c
		e.store.Touch()
	}
	e.changed()
}

// TextSize is the size new labels get, in image pixels.
func (e *Editor) TextSize() float64 {
	if e.fontSize > 0 {
		return e.fontSize
	}
	return math.Max(DefaultFontSize, fontSizeRatio*float64(max(e.size.X, e.size.Y)))
}

// PointerDown starts a draw, a transform or a text placement at p, given in
// image pixels.
func (e *Editor) PointerDown(p geom.Point) error {
	if !e.Ready() {
		return ErrNotReady
	}
	if !p.Finite() {
		return fmt.Errorf("pointer position %v is not finite", p)
	}
	e.confirmClear = false
	if e.state == StateDrawing || e.state == StateTransforming {
		e.finish()
	}
	switch {
	case e.tool == ToolSelect:
		hit := hittest.Pick(p, e.store.Objects(), e.Selected(), e.tol)
		if hit.Object == nil {
			e.selected = ""
			break
		}
		e.selected = annotation.BaseOf(hit.Object).ID
		e.session = transform.Begin(hit.Object, hit.Handle, p)
		if e.minFontSize > 0 {
			e.session.MinFontSize = e.minFontSize
		}
		e.state = StateTransforming
	case e.tool == ToolText:
		e.selected = ""
		e.textAnchor = p
		e.state = StateAwaitingText
	case e.tool.Draws():
		e.selected = ""
		e.store.Begin(e.newObject(p))
		e.state = StateDrawing
	}
	e.changed()
	return nil
}

func (e *Editor) newObject(p geom.Point) annotation.Object {
	switch e.tool {
	case ToolFreehand:
		return annotation.NewFreehand(e.color, p)
	case ToolArrow:
		return annotation.NewArrow(e.color, p)
	case ToolRectangle:
		return annotation.NewRectangle(e.color, p)
	case ToolCircle:
		return annotation.NewCircle(e.color, p)
	}
	return nil
}

// PointerMove extends the pending object or updates the active transform.
// Moves outside a draw or drag are ignored.
func (e *Editor) PointerMove(p geom.Point) error {
	if !e.Ready() {
		return ErrNotReady
	}
	if !p.Finite() {
		return nil
	}
	switch e.state {
	case StateDrawing:
		if e.extend(p) {
			e.changed()
		}
	case StateTransforming:
		if o := e.Selected(); o != nil && e.session.Apply(o, p) {
			e.changed()
		}
	}
	return nil
}

func (e *Editor) extend(p geom.Point) bool {
	switch v := e.store.Pending().(type) {
	case *annotation.Freehand:
		last := v.Points[len(v.Points)-1]
		if last == p || (e.minPointDistance > 0 && geom.Distance(last, p) < e.minPointDistance) {
			return false
		}
		v.Points = append(v.Points, p)
	case *annotation.Arrow:
		v.End = p
	case *annotation.Rectangle:
		v.End = p
	case *annotation.Circle:
		v.End = p
	default:
		return false
	}
	return true
}

// PointerUp commits whatever the pointer was doing. It completes
// synchronously. An open text prompt stays open.
func (e *Editor) PointerUp(p geom.Point) error {
	if !e.Ready() {
		return ErrNotReady
	}
	if e.state == StateAwaitingText {
		return nil
	}
	if p.Finite() {
		switch e.state {
		case StateDrawing:
			e.extend(p)
		case StateTransforming:
			if o := e.Selected(); o != nil {
				e.session.Apply(o, p)
			}
		}
	}
	e.finish()
	e.changed()
	return nil
}

// finish closes an open draw or drag, committing its result, and cancels a
// pending text prompt.
func (e *Editor) finish() {
	switch e.state {
	case StateDrawing:
		e.commitPending()
	case StateTransforming:
		e.session = nil
		e.store.Touch()
	case StateAwaitingText:
		e.textAnchor = geom.Point{}
	}
	e.state = StateIdle
}

func (e *Editor) commitPending() {
	pending := e.store.Pending()
	if pending == nil {
		return
	}
	if _, isFreehand := pending.(*annotation.Freehand); isFreehand {
		e.store.Commit()
		return
	}
	if e.minShapeSize > 0 && shapeExtent(pending) <= e.minShapeSize {
		e.store.Discard()
		return
	}
	o := e.store.Commit()
	e.selected = annotation.BaseOf(o).ID
	e.tool = ToolSelect
}

func shapeExtent(o annotation.Object) float64 {
	switch v := o.(type) {
	case *annotation.Arrow:
		return geom.Distance(v.Start, v.End)
	case *annotation.Rectangle:
		return geom.Distance(v.Start, v.End)
	case *annotation.Circle:
		return v.Radius()
	}
	return math.Inf(1)
}

// SubmitText answers the text prompt. Blank input cancels it. Otherwise the
// label is committed verbatim at the anchor and selected, and the tool
// returns to select.
func (e *Editor) SubmitText(s string) error {
	if e.state != StateAwaitingText {
		return ErrNoTextPending
	}
	e.confirmClear = false
	if strings.TrimSpace(s) == "" {
		e.CancelText()
		return nil
	}
	o := annotation.NewText(e.color, e.textAnchor, s, e.TextSize())
	e.store.Add(o)
	e.selected = o.ID
	e.tool = ToolSelect
	e.state = StateIdle
	e.textAnchor = geom.Point{}
	e.changed()
	return nil
}

// CancelText dismisses the text prompt without creating anything.
func (e *Editor) CancelText() {
	if e.state != StateAwaitingText {
		return
	}
	e.state = StateIdle
	e.textAnchor = geom.Point{}
	e.changed()
}

// Undo removes the most recently committed object. It reports false when
// there was nothing to undo.
func (e *Editor) Undo() bool {
	e.confirmClear = false
	e.finish()
	o := e.store.Undo()
	if o == nil {
		return false
	}
	if annotation.BaseOf(o).ID == e.selected {
		e.selected = ""
	}
	e.changed()
	return true
}

// DeleteSelected removes the selected object. Without a selection the first
// call arms a clear-all and a second call, or ConfirmClear, performs it.
func (e *Editor) DeleteSelected() DeleteOutcome {
	e.finish()
	if o := e.Selected(); o != nil {
		e.confirmClear = false
		e.store.Remove(annotation.BaseOf(o).ID)
		e.selected = ""
		e.changed()
		return DeletedSelected
	}
	if e.store.Len() == 0 {
		e.confirmClear = false
		return DeleteNothing
	}
	if e.confirmClear {
		e.ConfirmClear()
		return ClearedAll
	}
	e.confirmClear = true
	e.changed()
	return ClearNeedsConfirm
}

// ConfirmClear performs an armed clear-all and reports whether it ran.
func (e *Editor) ConfirmClear() bool {
	if !e.confirmClear {
		return false
	}
	e.confirmClear = false
	e.store.Clear()
	e.selected = ""
	e.changed()
	return true
}

// CancelClear disarms a pending clear-all.
func (e *Editor) CancelClear() {
	if e.confirmClear {
		e.confirmClear = false
		e.changed()
	}
}

// Scene describes the current display frame. The objects are live; the
// scene must be drawn before the next mutation.
func (e *Editor) Scene() render.Scene {
	return render.Scene{
		Background: e.background,
		Objects:    e.store.Objects(),
		Pending:    e.store.Pending(),
		Selected:   e.Selected(),
		Tolerance:  e.tol,
	}
}

// SnapshotScene is Scene with every object deep-copied, for drawing on
// another goroutine while the editor keeps changing. The pending object is
// the last entry of Objects.
func (e *Editor) SnapshotScene() render.Scene {
	sc := render.Scene{Background: e.background, Objects: e.store.Snapshot(), Tolerance: e.tol}
	if e.selected == "" {
		return sc
	}
	for _, o := range sc.Objects {
		if annotation.BaseOf(o).ID == e.selected {
			sc.Selected = o
			break
		}
	}
	return sc
}

func (e *Editor) changed() {
	e.frames.Invalidate()
}
