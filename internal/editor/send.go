package editor

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/render"
)

// Flatten renders the committed objects over the background at native
// resolution, without selection chrome.
func (e *Editor) Flatten(ctx context.Context) (*image.RGBA, error) {
	if !e.Ready() {
		return nil, ErrNotReady
	}
	e.finish()
	return flatten(ctx, e.renderer, e.size, e.exportScene())
}

func (e *Editor) exportScene() render.Scene {
	return render.Scene{Background: e.background, Objects: e.store.Snapshot()}
}

func flatten(ctx context.Context, r *render.Renderer, size image.Point, sc render.Scene) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	if err := r.Render(ctx, dst, sc); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return dst, nil
}

// Send force-commits any open interaction, snapshots the scene and then
// flattens, encodes and hands the result to the send callback on another
// goroutine. The returned channel yields exactly one value: nil on success
// or the first error. The editor may keep being used while Send runs.
func (e *Editor) Send(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if !e.Ready() {
		done <- ErrNotReady
		close(done)
		return done
	}
	e.finish()
	e.changed()

	sc := e.exportScene()
	size := e.size
	r := e.renderer
	opts := e.exportOp
	caption := strings.TrimSpace(e.caption)
	onSend := e.onSend

	go func() {
		defer close(done)
		img, err := flatten(ctx, r, size, sc)
		if err != nil {
			done <- err
			return
		}
		res, err := export.Encode(ctx, img, opts)
		if err != nil {
			done <- err
			return
		}
		if onSend != nil {
			if err := onSend(res, caption); err != nil {
				done <- fmt.Errorf("send: %w", err)
				return
			}
		}
		done <- nil
	}()
	return done
}

// Close abandons the edit and runs the close callback.
func (e *Editor) Close() {
	e.finish()
	if e.onClose != nil {
		e.onClose()
	}
}
