package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

var errNoMonitors = errors.New("no monitors available")

// ScreenOptions controls a screen grab.
type ScreenOptions struct {
	// Monitor crops the grab to one output: an index, "primary" or part of
	// the output name. Empty keeps the whole desktop.
	Monitor string
	// Interactive lets the desktop portal ask the user for a region.
	Interactive   bool
	IncludeCursor bool
}

// MonitorInfo describes one output of the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Screen grabs the desktop through the screenshot portal and falls back to
// reading the X11 root window when the portal is unavailable.
func Screen(ctx context.Context, opts ScreenOptions) (*Photo, error) {
	img, portalErr := portalScreenshot(ctx, opts)
	if portalErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		img, err = rootScreenshot()
		if err != nil {
			return nil, fmt.Errorf("screen capture: portal: %v; x11: %w", portalErr, err)
		}
	}
	if opts.Monitor != "" && !opts.Interactive {
		monitors, err := ListMonitors()
		if err != nil {
			return nil, err
		}
		mon, err := FindMonitor(monitors, opts.Monitor)
		if err != nil {
			return nil, err
		}
		if img, err = cropToRect(img, mon.Rect); err != nil {
			return nil, err
		}
	}
	return &Photo{Image: img, Format: "png"}, nil
}

// FindMonitor resolves a monitor selector against monitors.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
