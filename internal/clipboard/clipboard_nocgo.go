//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import "image"

func ensureInit() error {
	if !hasDisplay() {
		return ErrNoDisplay
	}
	return ErrUnsupported
}

func WriteImage(image.Image) error { return ensureInit() }

func WriteEncoded([]byte, string) error { return ensureInit() }

func ReadImage() (image.Image, error) { return nil, ensureInit() }

func WriteText(string) error { return ensureInit() }

func ReadText() (string, error) { return "", ensureInit() }
