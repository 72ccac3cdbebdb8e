// Package scene holds the state drawn by the square renderer: an ordered
// list of colored squares placed in normalized device coordinates.
package scene

import (
	"math/rand"
	"time"
)

// DefaultSize defines the on-screen width and height of a square, in pixels.
const DefaultSize = 3

// Color defines an RGB color with components in the range [0,1).
type Color struct {
	R, G, B float32
}

// Square defines a single recorded click.
type Square struct {
	X, Y  float32 // Center in normalized device coordinates.
	Color Color
}

// Scene is the ordered set of squares recorded so far.
// Squares are never modified or removed once added.
type Scene struct {
	squares []Square
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add converts the pixel position (px, py) on a surface of the given
// dimensions to normalized device coordinates and appends a square
// with color c. It returns the recorded square.
func (s *Scene) Add(px, py, width, height float64, c Color) Square {
	x, y := ToNDC(px, py, width, height)
	sq := Square{X: x, Y: y, Color: c}
	s.squares = append(s.squares, sq)
	return sq
}

// Len returns the number of recorded squares.
func (s *Scene) Len() int {
	return len(s.squares)
}

// Squares returns a copy of all squares in the order they were added.
func (s *Scene) Squares() []Square {
	out := make([]Square, len(s.squares))
	copy(out, s.squares)
	return out
}

// Each calls fn for every square in insertion order without copying.
func (s *Scene) Each(fn func(Square)) {
	for _, sq := range s.squares {
		fn(sq)
	}
}

// Palette yields random square colors.
type Palette struct {
	rng *rand.Rand
}

// NewPalette creates a palette seeded with seed.
// A seed of 0 selects a time based seed.
func NewPalette(seed int64) *Palette {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Palette{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a color with each component uniformly distributed in [0,1).
func (p *Palette) Next() Color {
	return Color{
		R: p.rng.Float32(),
		G: p.rng.Float32(),
		B: p.rng.Float32(),
	}
}
