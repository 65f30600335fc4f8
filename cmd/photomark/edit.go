package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/photomark/internal/appstate"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/source"
)

var (
	captureScreenFn = source.Screen
	openFileFn      = source.Open
	fromClipboardFn = source.FromClipboard
	runWindowFn     = func(st *appstate.AppState) { st.Run() }
)

// editCmd opens the desktop editor.
type editCmd struct {
	*root
	fs *flag.FlagSet

	file          string
	fromClipboard bool
	capture       bool
	monitor       string
	interactive   bool
	output        string
	toClipboard   bool
	keepOpen      bool
}

func (e *editCmd) Program() string { return e.root.subcommand("edit") }

func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.StringVar(&e.file, "file", "", "image file to annotate")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "annotate the image on the clipboard")
	fs.BoolVar(&e.capture, "capture", false, "annotate a fresh screen capture")
	fs.StringVar(&e.monitor, "monitor", "", "monitor to capture: index, primary or name")
	fs.BoolVar(&e.interactive, "select", false, "let the desktop ask for the capture region")
	fs.StringVar(&e.output, "output", export.DefaultBaseName+".jpg", "file the sent image is written to; empty skips the file")
	fs.StringVar(&e.output, "o", export.DefaultBaseName+".jpg", "alias of -output")
	fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the sent image to the clipboard")
	fs.BoolVar(&e.keepOpen, "keep-open", false, "keep the editor open after sending")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	sources := 0
	for _, on := range []bool{e.file != "", e.fromClipboard, e.capture} {
		if on {
			sources++
		}
	}
	if sources == 0 && fs.NArg() > 0 {
		e.file = fs.Arg(0)
		sources = 1
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of -file, -from-clipboard or -capture is required")
	}
	if e.output == "" && !e.toClipboard {
		return nil, fmt.Errorf("nothing to send to: set -output or -to-clipboard")
	}
	return e, nil
}

func (e *editCmd) load(ctx context.Context) (*source.Photo, error) {
	switch {
	case e.capture:
		p, err := captureScreenFn(ctx, source.ScreenOptions{Monitor: e.monitor, Interactive: e.interactive})
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		return p, nil
	case e.fromClipboard:
		return fromClipboardFn()
	}
	return openFileFn(e.file)
}

func (e *editCmd) Run() error {
	ctx := context.Background()
	photo, err := e.load(ctx)
	if err != nil {
		return err
	}
	output := resolveOutput(e.config, e.output)
	opts, err := exportFor(e.config, output)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(output); output != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	d := &delivery{
		output:      output,
		toClipboard: e.toClipboard,
		notifier:    e.notifier,
		preview:     e.sendAlerts,
		stdout:      os.Stdout,
	}

	var sendErr error
	ed := newEditor(e.config, opts, editor.WithOnSend(d.deliver))
	if err := ed.SetBackground(photo.Image); err != nil {
		return err
	}
	title := "Photomark"
	if photo.Name != "" {
		title = "Photomark - " + filepath.Base(photo.Name)
	}
	st := appstate.New(
		appstate.WithEditor(ed),
		appstate.WithPalette(e.config.NewPalette()),
		appstate.WithTheme(e.activeTheme),
		appstate.WithTitle(title),
		appstate.WithCloseOnSend(!e.keepOpen),
		appstate.WithSendResult(func(err error) {
			sendErr = err
			if err != nil {
				log.Printf("send: %v", err)
			}
		}),
	)
	runWindowFn(st)
	if sendErr != nil && !errors.Is(sendErr, context.Canceled) {
		return sendErr
	}
	return nil
}
