package mirror

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexaflex/canvasdemo/store"
)

// DefaultKey is the store key holding the shared snapshot.
const DefaultKey = "canvas"

// Mirror binds a canvas to one key of a shared store.
// It is not safe for concurrent use; drive it from the UI thread.
type Mirror struct {
	canvas *Canvas
	store  store.Store
	key    string
	log    *logrus.Entry
}

// New creates a mirror for canvas, sharing it through s under key.
// An empty key selects DefaultKey.
func New(canvas *Canvas, s store.Store, key string) *Mirror {
	if key == "" {
		key = DefaultKey
	}
	return &Mirror{
		canvas: canvas,
		store:  s,
		key:    key,
		log: logrus.WithFields(logrus.Fields{
			"component": "mirror",
			"origin":    s.Origin(),
			"key":       key,
		}),
	}
}

// Canvas returns the mirrored canvas.
func (m *Mirror) Canvas() *Canvas {
	return m.canvas
}

// Click draws a square at the page position of local, then publishes
// a snapshot of the whole canvas. It returns the page position drawn at.
func (m *Mirror) Click(ctx context.Context, local Point, layout Layout) (Point, error) {
	at := layout.Page(local)

	if err := m.canvas.DrawSquare(at.X, at.Y); err != nil {
		return at, err
	}

	snap, err := m.canvas.Snapshot()
	if err != nil {
		return at, errors.Wrap(err, "snapshot canvas")
	}

	if err := m.store.Set(ctx, m.key, snap); err != nil {
		return at, errors.Wrap(err, "publish snapshot")
	}

	m.log.WithFields(logrus.Fields{"x": at.X, "y": at.Y}).Debug("square drawn")
	return at, nil
}

// Load repaints the canvas from the stored snapshot. It reports false,
// leaving the canvas untouched, when nothing is stored yet.
func (m *Mirror) Load(ctx context.Context) (bool, error) {
	snap, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return false, errors.Wrap(err, "load snapshot")
	}

	if !ok {
		return false, nil
	}

	if err := m.canvas.Restore(snap); err != nil {
		return false, errors.Wrap(err, "restore snapshot")
	}
	return true, nil
}

// Subscribe returns changes to the mirrored key made by other contexts.
// Pass each one to Apply on the UI thread.
func (m *Mirror) Subscribe(ctx context.Context) (<-chan store.Change, error) {
	return m.store.Subscribe(ctx, m.key)
}

// Apply repaints the canvas from a change notification.
// Changes to other keys are ignored.
func (m *Mirror) Apply(c store.Change) error {
	if c.Key != m.key {
		return nil
	}

	if err := m.canvas.Restore(c.Value); err != nil {
		return errors.Wrapf(err, "apply snapshot from %s", c.Origin)
	}

	m.log.WithField("from", c.Origin).Debug("canvas repainted")
	return nil
}
