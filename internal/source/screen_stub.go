//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"errors"
	"image"
)

var errNoScreen = errors.New("screen capture is not supported on this platform")

func portalScreenshot(context.Context, ScreenOptions) (*image.RGBA, error) {
	return nil, errNoScreen
}

func rootScreenshot() (*image.RGBA, error) { return nil, errNoScreen }

// ListMonitors is unsupported on this platform.
func ListMonitors() ([]MonitorInfo, error) { return nil, errNoScreen }
