// Package script replays a line-oriented annotation session against an
// editor without a window. Each line is one command:
//
//	tool rectangle
//	color #EF4444
//	drag 10 10 110 60
//	text Look here
//	send
//
// Blank lines and lines starting with # are ignored.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/geom"
	"github.com/example/photomark/internal/palette"
)

// ErrSyntax marks malformed commands.
var ErrSyntax = errors.New("script: syntax error")

// LineError locates a failure in a script.
type LineError struct {
	Line    int
	Command string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Command, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Runner executes commands against one editor.
type Runner struct {
	ed      *editor.Editor
	palette *palette.Palette
	out     io.Writer
	sends   int
}

// Option configures a Runner.
type Option func(*Runner)

// WithPalette sets the presets color names resolve against.
func WithPalette(p *palette.Palette) Option {
	return func(r *Runner) {
		if p != nil {
			r.palette = p
		}
	}
}

// WithOutput receives the messages the window would show as toasts.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// New returns a Runner driving ed.
func New(ed *editor.Editor, opts ...Option) *Runner {
	r := &Runner{ed: ed, palette: palette.New(), out: io.Discard}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Sends reports how many send commands completed.
func (r *Runner) Sends() int { return r.sends }

// Run executes every line of src, stopping at the first failure, which is
// returned as a *LineError.
func (r *Runner) Run(ctx context.Context, src io.Reader) error {
	scanner := bufio.NewScanner(src)
	n := 0
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.Exec(ctx, line); err != nil {
			name, _, _ := strings.Cut(line, " ")
			return &LineError{Line: n, Command: name, Err: err}
		}
	}
	return scanner.Err()
}

// Exec runs a single command.
func (r *Runner) Exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	ed := r.ed
	cmd := strings.ToLower(name)

	switch cmd {
	case "tool":
		if len(args) != 1 {
			return syntax("tool expects a tool name")
		}
		t, err := editor.ParseTool(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		ed.SetTool(t)
	case "color", "colour":
		if rest == "" {
			return syntax("color expects a name or #hex value")
		}
		c, err := r.palette.Parse(rest)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		ed.SetColor(c)
	case "down", "move", "up":
		p, err := expectPoints(args, 1, cmd)
		if err != nil {
			return err
		}
		switch cmd {
		case "down":
			return ed.PointerDown(p[0])
		case "move":
			return ed.PointerMove(p[0])
		}
		return ed.PointerUp(p[0])
	case "drag":
		return r.drag(args)
	case "text":
		if rest == "" {
			return syntax("text expects a string")
		}
		return ed.SubmitText(unquote(rest))
	case "cancel":
		ed.CancelText()
		ed.CancelClear()
	case "undo":
		if !ed.Undo() {
			r.say("nothing to undo")
		}
	case "delete":
		r.say(ed.DeleteSelected().String())
	case "confirm":
		if ed.ConfirmClear() {
			r.say(editor.ClearedAll.String())
		}
	case "caption":
		ed.SetCaption(unquote(rest))
	case "send":
		if len(args) != 0 {
			return syntax("send takes no arguments")
		}
		select {
		case err := <-ed.Send(ctx):
			if err != nil {
				return err
			}
			r.sends++
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("%w: unknown command %q", ErrSyntax, name)
	}
	return nil
}

// drag presses at the first point, moves in steps along the straight line
// and releases at the second point.
func (r *Runner) drag(args []string) error {
	if len(args) != 4 && len(args) != 5 {
		return syntax("drag expects x0 y0 x1 y1 [steps]")
	}
	pts, err := expectPoints(args[:4], 2, "drag")
	if err != nil {
		return err
	}
	steps := 1
	if len(args) == 5 {
		steps, err = strconv.Atoi(args[4])
		if err != nil || steps < 1 {
			return syntax("drag steps must be a positive integer")
		}
	}
	from, to := pts[0], pts[1]
	if err := r.ed.PointerDown(from); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := geom.Pt(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t)
		if err := r.ed.PointerMove(p); err != nil {
			return err
		}
	}
	return r.ed.PointerUp(to)
}

func (r *Runner) say(msg string) {
	fmt.Fprintln(r.out, msg)
}

func syntax(msg string) error {
	return fmt.Errorf("%w: %s", ErrSyntax, msg)
}

func expectPoints(args []string, n int, name string) ([]geom.Point, error) {
	if len(args) != 2*n {
		return nil, fmt.Errorf("%w: %s expects %d coordinates", ErrSyntax, name, 2*n)
	}
	pts := make([]geom.Point, n)
	for i := range pts {
		x, err := strconv.ParseFloat(args[2*i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid coordinate %q", ErrSyntax, args[2*i])
		}
		y, err := strconv.ParseFloat(args[2*i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid coordinate %q", ErrSyntax, args[2*i+1])
		}
		pts[i] = geom.Pt(x, y)
	}
	return pts, nil
}

// unquote strips one level of Go-style double quotes, keeping the raw text
// when it is not a valid quoted string.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
