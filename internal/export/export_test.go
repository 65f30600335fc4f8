package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetRGBA(3, 3, color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF})
	return img
}

func TestEncodeJPEGDefaults(t *testing.T) {
	res, err := Encode(context.Background(), sample(), Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.ContentType != "image/jpeg" || res.Filename != "annotated_image.jpg" {
		t.Fatalf("unexpected metadata %+v", res)
	}
	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	res, err := Encode(context.Background(), sample(), Options{Format: FormatPNG})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(3, 3).RGBA(); r>>8 != 0xEF {
		t.Fatalf("lossless pixel changed: %v", img.At(3, 3))
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode(context.Background(), nil, DefaultOptions()); !errors.Is(err, ErrEmptySurface) {
		t.Fatalf("nil image: %v", err)
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if _, err := Encode(context.Background(), empty, DefaultOptions()); !errors.Is(err, ErrEmptySurface) {
		t.Fatalf("zero width: %v", err)
	}
}

func TestEncodeHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Encode(ctx, sample(), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JPG"); err != nil || f != FormatJPEG {
		t.Fatalf("JPG -> %v %v", f, err)
	}
	if f, err := ParseFormat("png"); err != nil || f != FormatPNG {
		t.Fatalf("png -> %v %v", f, err)
	}
	if _, err := ParseFormat("svg"); err == nil {
		t.Fatal("svg accepted")
	}
}
