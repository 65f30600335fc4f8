package editor

// Frames coalesces invalidations into at most one pending frame. Any number
// of Invalidate calls between two receives on C yield a single redraw.
type Frames struct {
	ch chan struct{}
}

// NewFrames returns an idle scheduler.
func NewFrames() *Frames {
	return &Frames{ch: make(chan struct{}, 1)}
}

// Invalidate requests a redraw without blocking.
func (f *Frames) Invalidate() {
	if f == nil {
		return
	}
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// C delivers one value per pending frame.
func (f *Frames) C() <-chan struct{} {
	return f.ch
}

// Pending reports whether a frame is waiting to be drawn, consuming it.
func (f *Frames) Pending() bool {
	select {
	case <-f.ch:
		return true
	default:
		return false
	}
}
