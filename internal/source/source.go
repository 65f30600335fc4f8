// Package source loads the photo to annotate from a file, raw bytes, the
// clipboard or the screen. Every loader returns a zero-origin RGBA copy.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/photomark/internal/clipboard"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("source: image has no pixels")

// Photo is a decoded source image.
type Photo struct {
	Image  *image.RGBA
	Format string
	// Name is the file the photo came from, if any.
	Name string
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (*Photo, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	rgba, err := ToRGBA(img)
	if err != nil {
		return nil, err
	}
	return &Photo{Image: rgba, Format: format}, nil
}

// FromBytes decodes an in-memory image.
func FromBytes(data []byte) (*Photo, error) {
	return Decode(bytes.NewReader(data))
}

// Open decodes the image file at path.
func Open(path string) (*Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", path, cerr)
		}
	}()
	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Name = path
	return p, nil
}

// FromClipboard decodes the image currently on the clipboard.
func FromClipboard() (*Photo, error) {
	img, err := clipboard.ReadImage()
	if err != nil {
		return nil, fmt.Errorf("clipboard image: %w", err)
	}
	rgba, err := ToRGBA(img)
	if err != nil {
		return nil, err
	}
	return &Photo{Image: rgba, Format: "png"}, nil
}

// ToRGBA copies img into a new RGBA whose bounds start at the origin.
func ToRGBA(img image.Image) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}
