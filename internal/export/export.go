// Package export encodes a flattened annotation surface for hand-off.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

// ErrEmptySurface is returned for a nil or zero-size image.
var ErrEmptySurface = errors.New("export: surface is empty")

// Format selects the encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// DefaultQuality is the JPEG quality used when Options.Quality is unset.
const DefaultQuality = 85

// DefaultBaseName is the file name stem offered for the result.
const DefaultBaseName = "annotated_image"

// Options configures Encode.
type Options struct {
	Format  Format
	Quality int
}

// DefaultOptions encodes JPEG at DefaultQuality.
func DefaultOptions() Options {
	return Options{Format: FormatJPEG, Quality: DefaultQuality}
}

// ParseFormat accepts jpeg, jpg or png, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Result is an encoded image ready for the send callback.
type Result struct {
	Data        []byte
	ContentType string
	Filename    string
	Bounds      image.Rectangle
}

// Encode compresses img. It refuses empty surfaces rather than producing an
// empty image.
func Encode(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptySurface
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = FormatJPEG
	}
	var buf bytes.Buffer
	res := &Result{Bounds: img.Bounds()}
	switch opts.Format {
	case FormatJPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		res.ContentType = "image/jpeg"
		res.Filename = DefaultBaseName + ".jpg"
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		res.ContentType = "image/png"
		res.Filename = DefaultBaseName + ".png"
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}
	res.Data = buf.Bytes()
	return res, nil
}
