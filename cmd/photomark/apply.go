package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/script"
)

// applyCmd replays a script without opening a window.
type applyCmd struct {
	*root
	fs *flag.FlagSet

	script      string
	file        string
	output      string
	toClipboard bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *applyCmd) Program() string { return a.root.subcommand("apply") }

func (a *applyCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	a := &applyCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.StringVar(&a.script, "script", "-", "script file to replay, - for stdin")
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.StringVar(&a.output, "output", export.DefaultBaseName+".jpg", "file the result is written to")
	fs.StringVar(&a.output, "o", export.DefaultBaseName+".jpg", "alias of -output")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" && fs.NArg() > 0 {
		a.file = fs.Arg(0)
	}
	if a.file == "" {
		return nil, &UsageError{of: a}
	}
	if a.output == "" && !a.toClipboard {
		return nil, fmt.Errorf("nothing to write to: set -output or -to-clipboard")
	}
	return a, nil
}

func (a *applyCmd) openScript() (io.ReadCloser, error) {
	if a.script == "" || a.script == "-" {
		return io.NopCloser(a.stdin), nil
	}
	f, err := os.Open(a.script)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, nil
}

func (a *applyCmd) Run() error {
	ctx := context.Background()
	photo, err := openFileFn(a.file)
	if err != nil {
		return err
	}
	output := resolveOutput(a.config, a.output)
	opts, err := exportFor(a.config, output)
	if err != nil {
		return err
	}
	d := &delivery{
		output:      output,
		toClipboard: a.toClipboard,
		notifier:    a.notifier,
		preview:     a.sendAlerts,
		stdout:      a.stdout,
	}
	ed := newEditor(a.config, opts, editor.WithOnSend(d.deliver))
	if err := ed.SetBackground(photo.Image); err != nil {
		return err
	}

	src, err := a.openScript()
	if err != nil {
		return err
	}
	defer src.Close()

	runner := script.New(ed, script.WithPalette(a.config.NewPalette()), script.WithOutput(a.stderr))
	if err := runner.Run(ctx, src); err != nil {
		return fmt.Errorf("%s: %w", a.script, err)
	}
	if runner.Sends() > 0 {
		return nil
	}
	// no explicit send: deliver the final state once
	return <-ed.Send(ctx)
}

