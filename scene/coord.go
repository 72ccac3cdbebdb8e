package scene

// ToNDC converts a pixel position on a surface of the given dimensions
// into normalized device coordinates. The y axis is flipped: pixel row 0
// is the top of the surface and maps to +1.
func ToNDC(px, py, width, height float64) (x, y float32) {
	x = float32(2*px/width - 1)
	y = float32(1 - 2*py/height)
	return
}

// Quad returns the corners of sq as a 4-vertex triangle fan in the order
// top-left, top-right, bottom-right, bottom-left. Each vertex is an (x, y)
// pair. The quad covers size pixels in both dimensions on a surface of
// the given dimensions.
func Quad(sq Square, width, height, size float64) [8]float32 {
	// One pixel spans 2/width units, so half of size pixels spans size/width.
	hx := float32(size / width)
	hy := float32(size / height)

	return [8]float32{
		sq.X - hx, sq.Y + hy,
		sq.X + hx, sq.Y + hy,
		sq.X + hx, sq.Y - hy,
		sq.X - hx, sq.Y - hy,
	}
}
