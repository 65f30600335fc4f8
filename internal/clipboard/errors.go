package clipboard

import (
	"errors"
	"os"
)

var (
	// ErrEmpty means the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard: no data of the requested kind")
	// ErrNoDisplay means there is no X11 or Wayland session to talk to.
	ErrNoDisplay = errors.New("clipboard: requires DISPLAY or WAYLAND_DISPLAY")
	// ErrUnsupported is returned by builds without clipboard support.
	ErrUnsupported = errors.New("clipboard: not supported in this build")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
