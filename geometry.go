package main

// Point is a position in viewport or content space
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Size is a width/height pair
type Size struct {
	W, H float64
}

// IsEmpty reports whether the size has no area
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) Scale(k float64) Size {
	return Size{s.W * k, s.H * k}
}

// IsLandscape reports whether the size is wider than it is tall
func (s Size) IsLandscape() bool {
	return s.W > s.H
}

// Rect is a viewport rectangle: origin plus size
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect creates a Rect from origin and dimensions
func NewRect(x, y, w, h float64) Rect {
	return Rect{Origin: Point{x, y}, Size: Size{w, h}}
}

func (r Rect) IsEmpty() bool {
	return r.Size.IsEmpty()
}

func (r Rect) Center() Point {
	return Point{r.Origin.X + r.Size.W/2, r.Origin.Y + r.Size.H/2}
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.Origin.X+r.Size.W &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+r.Size.H
}

// sizeOf returns the pixel size of an image-like value
func sizeOf(b Bitmap) Size {
	if b == nil {
		return Size{}
	}
	r := b.Bounds()
	return Size{float64(r.Dx()), float64(r.Dy())}
}

