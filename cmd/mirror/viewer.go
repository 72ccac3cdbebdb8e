package main

import (
	"context"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexaflex/canvasdemo/gfx"
	"github.com/hexaflex/canvasdemo/mirror"
	"github.com/hexaflex/canvasdemo/store"
)

// scrollStep is the number of pixels scrolled per wheel notch.
const scrollStep = 20

// viewer is one window showing a mirrored canvas. Each viewer is its own
// drawing context with its own GL context and store handle.
type viewer struct {
	window  *glfw.Window
	view    *gfx.CanvasView
	mirror  *mirror.Mirror
	store   store.Store
	changes <-chan store.Change
	layout  mirror.Layout
	margin  int
	dirty   bool // Canvas changed since the last texture upload.
	log     *logrus.Entry
}

func newViewer(s store.Store, c *Config) *viewer {
	return &viewer{
		view:   gfx.NewCanvasView(),
		mirror: mirror.New(mirror.NewCanvas(c.Width, c.Height), s, c.Key),
		store:  s,
		layout: mirror.Layout{Origin: mirror.Point{X: float64(c.Margin), Y: float64(c.Margin)}},
		margin: c.Margin,
		dirty:  true,
		log: logrus.WithFields(logrus.Fields{
			"component": "viewer",
			"origin":    s.Origin(),
		}),
	}
}

// open creates the window and initializes GL resources and the store
// subscription. The window's context is left current. loadGL must be set
// for the first window, once a context exists to resolve GL functions.
func (v *viewer) open(ctx context.Context, title string, loadGL bool) error {
	canvas := v.mirror.Canvas()
	width := canvas.Width() + 2*v.margin
	height := canvas.Height() + 2*v.margin

	var err error
	v.window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	v.window.MakeContextCurrent()
	v.window.SetMouseButtonCallback(v.mouseButtonCallback)
	v.window.SetScrollCallback(v.scrollCallback)

	if loadGL {
		if err := gl.Init(); err != nil {
			return errors.Wrapf(err, "gl.Init failed")
		}
	}

	if err := v.view.Startup(); err != nil {
		return err
	}

	loaded, err := v.mirror.Load(ctx)
	if err != nil {
		return err
	}
	v.log.WithField("loaded", loaded).Info("canvas ready")

	v.changes, err = v.mirror.Subscribe(ctx)
	return err
}

// poll applies pending changes from other contexts without blocking.
func (v *viewer) poll() {
	for {
		select {
		case c, ok := <-v.changes:
			if !ok {
				v.changes = nil
				return
			}
			if err := v.mirror.Apply(c); err != nil {
				v.log.Warn(err)
				continue
			}
			v.dirty = true
		default:
			return
		}
	}
}

// draw renders the canvas into the window and presents it.
func (v *viewer) draw() {
	v.window.MakeContextCurrent()

	if v.dirty {
		v.view.Upload(v.mirror.Canvas().RGBA())
		v.dirty = false
	}

	fbw, fbh := v.window.GetFramebufferSize()
	ww, _ := v.window.GetSize()
	scale := 1
	if ww > 0 && fbw > ww {
		scale = fbw / ww
	}

	canvas := v.mirror.Canvas()
	clearWindow()
	v.view.Draw(gfx.Viewport{
		X:      v.margin * scale,
		Y:      v.margin * scale,
		Width:  canvas.Width() * scale,
		Height: canvas.Height() * scale,
	}, fbh)
	v.window.SwapBuffers()
}

// close releases GL resources and the window.
func (v *viewer) close() error {
	var errs gfx.ErrorSet

	if v.window != nil {
		v.window.MakeContextCurrent()
		errs.Append(v.view.Shutdown())
		v.window.Destroy()
		v.window = nil
	}

	errs.Append(v.store.Close())
	return errs.Err()
}

func (v *viewer) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}

	// Cursor positions are window relative; make them canvas relative.
	x, y := w.GetCursorPos()
	local := mirror.Point{X: x - float64(v.margin), Y: y - float64(v.margin)}

	at, err := v.mirror.Click(context.Background(), local, v.layout)
	if err != nil {
		v.log.Error(err)
		return
	}

	v.dirty = true
	v.log.WithFields(logrus.Fields{"x": at.X, "y": at.Y}).Debug("click")
}

func (v *viewer) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	// Wheel down scrolls the page down, growing the offset.
	v.layout.Scroll.X -= xoff * scrollStep
	v.layout.Scroll.Y -= yoff * scrollStep
	if v.layout.Scroll.X < 0 {
		v.layout.Scroll.X = 0
	}
	if v.layout.Scroll.Y < 0 {
		v.layout.Scroll.Y = 0
	}
}
