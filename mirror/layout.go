package mirror

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Layout describes where a canvas sits on its page: Origin is the top-left
// corner of the canvas bounding box, Scroll the current scroll offset.
type Layout struct {
	Origin Point
	Scroll Point
}

// Page converts a position relative to the canvas into an absolute page
// position.
func (l Layout) Page(local Point) Point {
	return local.Add(l.Origin).Add(l.Scroll)
}
