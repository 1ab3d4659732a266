package geom

import (
	"math"
	"testing"
)

func TestPointIsFinite(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{}, true},
		{"negative", Point{X: -120.5, Y: -3}, true},
		{"nan x", Point{X: math.NaN(), Y: 0}, false},
		{"nan y", Point{X: 0, Y: math.NaN()}, false},
		{"pos inf", Point{X: math.Inf(1), Y: 0}, false},
		{"neg inf", Point{X: 0, Y: math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsFinite(); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	if !outer.Contains(outer) {
		t.Error("rectangle should contain itself")
	}
	if !outer.Contains(Rect{X: 10, Y: 10, Width: 50, Height: 50}) {
		t.Error("interior rectangle should be contained")
	}
	if outer.Contains(Rect{X: 60, Y: 60, Width: 50, Height: 50}) {
		t.Error("overhanging rectangle should not be contained")
	}
	if outer.Contains(Rect{X: -1, Y: 0, Width: 10, Height: 10}) {
		t.Error("rectangle crossing the left edge should not be contained")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 50, Height: 30}
	b := Rect{X: 100, Y: 60, Width: 20, Height: 20}

	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 120, Height: 80}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}

	// Union with a contained rectangle is a no-op.
	if got := a.Union(Rect{X: 10, Y: 10, Width: 5, Height: 5}); got != a {
		t.Errorf("Union with contained rect = %+v, want %+v", got, a)
	}
}

func TestRectInsetExpand(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 80}

	in := r.Inset(10)
	want := Rect{X: 20, Y: 30, Width: 80, Height: 60}
	if in != want {
		t.Errorf("Inset(10) = %+v, want %+v", in, want)
	}

	if got := in.Expand(10); got != r {
		t.Errorf("Expand should invert Inset, got %+v, want %+v", got, r)
	}
}

func TestUnionAll(t *testing.T) {
	if _, ok := UnionAll(nil); ok {
		t.Error("UnionAll(nil) should report no rectangle")
	}

	single := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	if got, ok := UnionAll([]Rect{single}); !ok || got != single {
		t.Errorf("UnionAll single = %+v (%v), want %+v", got, ok, single)
	}

	got, ok := UnionAll([]Rect{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 50, Y: -20, Width: 10, Height: 10},
		{X: 20, Y: 40, Width: 10, Height: 10},
	})
	want := Rect{X: 0, Y: -20, Width: 60, Height: 70}
	if !ok || got != want {
		t.Errorf("UnionAll = %+v (%v), want %+v", got, ok, want)
	}
}

func TestRectAt(t *testing.T) {
	r := RectAt(Point{X: 3, Y: 4}, Size{Width: 10, Height: 20})
	if r.Origin() != (Point{X: 3, Y: 4}) {
		t.Errorf("Origin = %+v", r.Origin())
	}
	if r.MaxX() != 13 || r.MaxY() != 24 {
		t.Errorf("MaxX/MaxY = %v/%v, want 13/24", r.MaxX(), r.MaxY())
	}
}
