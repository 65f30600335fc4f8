//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "image"

func WriteImage(image.Image) error { return ErrUnsupported }

func WriteEncoded([]byte, string) error { return ErrUnsupported }

func ReadImage() (image.Image, error) { return nil, ErrUnsupported }

func WriteText(string) error { return ErrUnsupported }

func ReadText() (string, error) { return "", ErrUnsupported }
