package mirror

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/canvasdemo/store"
)

func isRed(c [4]uint8) bool {
	return c[0] >= 250 && c[1] <= 5 && c[2] <= 5 && c[3] == 0xff
}

func isBackground(c [4]uint8) bool {
	return c == [4]uint8{0xff, 0xff, 0xff, 0xff}
}

func pixel(img *image.RGBA, x, y int) [4]uint8 {
	c := img.RGBAAt(x, y)
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func TestLayoutPage(t *testing.T) {
	l := Layout{Origin: Point{10, 20}, Scroll: Point{3, 4}}
	assert.Equal(t, Point{63, 74}, l.Page(Point{50, 50}))
}

func TestNewCanvasIsCleared(t *testing.T) {
	img := NewCanvas(16, 8).RGBA()
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			require.True(t, isBackground(pixel(img, x, y)), "pixel %d,%d", x, y)
		}
	}
}

func TestClickDrawsAtPagePosition(t *testing.T) {
	ctx := context.Background()
	m := New(NewCanvas(200, 200), store.NewBus().Open("a"), "")

	at, err := m.Click(ctx, Point{50, 50}, Layout{Origin: Point{10, 20}})
	require.NoError(t, err)
	assert.Equal(t, Point{60, 70}, at)

	// The square spans [55,65) x [65,75).
	img := m.Canvas().RGBA()
	for y := 66; y < 74; y++ {
		for x := 56; x < 64; x++ {
			require.True(t, isRed(pixel(img, x, y)), "pixel %d,%d: %v", x, y, pixel(img, x, y))
		}
	}

	for _, p := range [][2]int{{53, 70}, {67, 70}, {60, 63}, {60, 77}, {50, 50}} {
		assert.True(t, isBackground(pixel(img, p[0], p[1])), "pixel %v", p)
	}
}

func TestClickStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := store.NewBus().Open("a")
	m := New(NewCanvas(32, 32), s, "board")

	_, err := m.Click(ctx, Point{16, 16}, Layout{})
	require.NoError(t, err)

	v, ok, err := s.Get(ctx, "board")
	require.NoError(t, err)
	require.True(t, ok)

	snap, err := m.Canvas().Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap, v)
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := NewCanvas(64, 48)
	require.NoError(t, src.DrawSquare(10, 10))
	require.NoError(t, src.DrawSquare(40, 30))

	snap, err := src.Snapshot()
	require.NoError(t, err)

	dst := NewCanvas(64, 48)
	require.NoError(t, dst.Restore(snap))

	assert.Equal(t, src.RGBA().Pix, dst.RGBA().Pix)
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	_, err := DecodeDataURL("hello")
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, err = DecodeDataURL(dataURLPrefix + "!!!")
	assert.Error(t, err)
}

func TestLoadWithoutSnapshot(t *testing.T) {
	m := New(NewCanvas(8, 8), store.NewBus().Open("a"), "")
	before := m.Canvas().RGBA().Pix

	ok, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, m.Canvas().RGBA().Pix)
}

func TestLoadRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	bus := store.NewBus()

	a := New(NewCanvas(40, 40), bus.Open("a"), "")
	_, err := a.Click(ctx, Point{20, 20}, Layout{})
	require.NoError(t, err)

	b := New(NewCanvas(40, 40), bus.Open("b"), "")
	ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, a.Canvas().RGBA().Pix, b.Canvas().RGBA().Pix)
}

func TestTwoContextsMirror(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := store.NewBus()
	a := New(NewCanvas(100, 80), bus.Open("a"), "")
	b := New(NewCanvas(100, 80), bus.Open("b"), "")

	subA, err := a.Subscribe(ctx)
	require.NoError(t, err)
	subB, err := b.Subscribe(ctx)
	require.NoError(t, err)

	_, err = a.Click(ctx, Point{30, 30}, Layout{Origin: Point{5, 5}})
	require.NoError(t, err)
	assert.NotEqual(t, a.Canvas().RGBA().Pix, b.Canvas().RGBA().Pix)

	select {
	case c := <-subB:
		require.NoError(t, b.Apply(c))
	case <-time.After(time.Second):
		t.Fatal("no change delivered to b")
	}

	assert.Equal(t, a.Canvas().RGBA().Pix, b.Canvas().RGBA().Pix)

	select {
	case c := <-subA:
		t.Fatalf("writer notified of its own change: %+v", c.Origin)
	default:
	}
}

func TestApplyIgnoresOtherKeys(t *testing.T) {
	m := New(NewCanvas(8, 8), store.NewBus().Open("a"), "")
	assert.NoError(t, m.Apply(store.Change{Key: "other", Value: "garbage"}))
	assert.Error(t, m.Apply(store.Change{Key: DefaultKey, Value: "garbage"}))
}
