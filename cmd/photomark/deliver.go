package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/photomark/internal/clipboard"
	"github.com/example/photomark/internal/config"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/notify"
	"github.com/example/photomark/internal/render"
	"github.com/example/photomark/internal/source"
)

// writeClipboardFn is replaced in tests.
var writeClipboardFn = clipboard.WriteEncoded

// delivery hands a sent image to its destinations.
type delivery struct {
	output      string
	toClipboard bool
	notifier    *notify.Notifier
	preview     bool
	stdout      io.Writer
}

func (d *delivery) deliver(res *export.Result, caption string) error {
	if d.output != "" {
		if err := os.WriteFile(d.output, res.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", d.output, err)
		}
		d.notifier.Save(d.output)
	}
	if d.toClipboard {
		if err := writeClipboardFn(res.Data, res.ContentType); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		d.notifier.Copy(res.Filename)
	}
	if caption != "" && d.stdout != nil {
		fmt.Fprintln(d.stdout, caption)
	}
	if d.preview {
		if p, err := source.FromBytes(res.Data); err == nil {
			d.notifier.Send(caption, p.Image)
		} else {
			d.notifier.Send(caption, nil)
		}
	}
	return nil
}

// exportFor picks the encoding from the output extension, falling back to
// the configured one.
func exportFor(cfg *config.Config, output string) (export.Options, error) {
	opts, err := cfg.ExportOptions()
	if err != nil {
		return opts, err
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		opts.Format = export.FormatPNG
	case ".jpg", ".jpeg":
		opts.Format = export.FormatJPEG
	}
	return opts, nil
}

// newEditor builds an editor from the configuration.
func newEditor(cfg *config.Config, opts export.Options, extra ...editor.Option) *editor.Editor {
	var ropts []render.Option
	if cfg.StrokeWidth > 0 {
		ropts = append(ropts, render.WithStrokeWidth(cfg.StrokeWidth))
	}
	base := []editor.Option{
		editor.WithScale(cfg.Scale()),
		editor.WithExport(opts),
		editor.WithRenderer(render.New(ropts...)),
		editor.WithColor(cfg.NewPalette().At(0).Color),
	}
	if cfg.FontSize > 0 {
		base = append(base, editor.WithFontSize(cfg.FontSize))
	}
	if cfg.MinShapeSize != nil {
		base = append(base, editor.WithMinShapeSize(*cfg.MinShapeSize))
	}
	return editor.New(append(base, extra...)...)
}

// resolveOutput places a bare file name under the configured save directory.
func resolveOutput(cfg *config.Config, output string) string {
	if output == "" || cfg.SaveDir == "" || filepath.IsAbs(output) || strings.ContainsRune(output, filepath.Separator) {
		return output
	}
	return filepath.Join(cfg.SaveDir, output)
}
