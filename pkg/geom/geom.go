// Package geom provides the 2-D primitives shared by the grid, group, and
// constraint packages.
//
// All values are expressed in logical diagram coordinates: a single plane
// already adjusted for viewport pan and zoom by the caller. Positions and
// rectangles are plain value types with no ownership semantics - they are
// always passed and returned by value.
package geom

import "math"

// Point is a position in logical diagram coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns the point translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// IsFinite reports whether both coordinates are finite numbers.
// NaN or infinite coordinates indicate corrupt gesture data and must not
// be propagated into layout or rendering.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size is the width and height of a rectangular node or container.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// RectAt builds a rectangle from a top-left position and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether other lies entirely within r.
// Edges count as inside, so a rectangle contains itself.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Union returns the minimal rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset returns the rectangle shrunk by d on all four sides.
// A negative d grows the rectangle instead.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Expand returns the rectangle grown by d on all four sides.
func (r Rect) Expand(d float64) Rect { return r.Inset(-d) }

// UnionAll returns the minimal rectangle covering every rectangle in rects.
// The second return value is false for an empty input.
func UnionAll(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out, true
}
