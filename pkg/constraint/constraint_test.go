package constraint

import (
	"testing"

	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/group"
)

// testConstraint binds a 60x40 node to a 400x300 container at (100,100)
// with 10px padding, giving the interior (110,110)-(490,390).
func testConstraint() *Constraint {
	g := &group.Group{
		ID:     "group-1",
		Bounds: geom.Rect{X: 100, Y: 100, Width: 400, Height: 300},
	}
	return New("n1", g, geom.Size{Width: 60, Height: 40}, 10)
}

func TestApply(t *testing.T) {
	c := testConstraint()

	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{"interior untouched", geom.Point{X: 200, Y: 200}, geom.Point{X: 200, Y: 200}},
		{"past right edge", geom.Point{X: 460, Y: 200}, geom.Point{X: 430, Y: 200}},
		{"past bottom edge", geom.Point{X: 200, Y: 380}, geom.Point{X: 200, Y: 350}},
		{"past top-left", geom.Point{X: 0, Y: 0}, geom.Point{X: 110, Y: 110}},
		{"far outside", geom.Point{X: 99999, Y: -99999}, geom.Point{X: 430, Y: 110}},
		{"exactly at max", geom.Point{X: 430, Y: 350}, geom.Point{X: 430, Y: 350}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Apply(tt.in)
			if got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !c.Within(got) {
				t.Errorf("Apply(%v) = %v lies outside the padded bounds", tt.in, got)
			}
		})
	}
}

func TestApplyOversizedNode(t *testing.T) {
	g := &group.Group{
		ID:     "group-1",
		Bounds: geom.Rect{X: 100, Y: 100, Width: 100, Height: 100},
	}
	// Node larger than the interior on both axes.
	c := New("n1", g, geom.Size{Width: 500, Height: 500}, 10)

	got := c.Apply(geom.Point{X: 300, Y: 300})
	want := geom.Point{X: 110, Y: 110}
	if got != want {
		t.Errorf("oversized node = %v, want pinned to padded top-left %v", got, want)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g := &group.Group{
		ID:     "group-1",
		Bounds: geom.Rect{X: 100, Y: 100, Width: 400, Height: 300},
	}
	c := New("n1", g, geom.Size{Width: 60, Height: 40}, 10)

	// Mutating the group mid-gesture must not move the clamp target.
	g.Bounds = geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}

	got := c.Apply(geom.Point{X: 0, Y: 0})
	if got != (geom.Point{X: 110, Y: 110}) {
		t.Errorf("clamp target drifted after group mutation: %v", got)
	}
}

func TestCheck(t *testing.T) {
	c := testConstraint()

	tests := []struct {
		name string
		p    geom.Point
		want Violation
	}{
		{"inside", geom.Point{X: 200, Y: 200}, Violation{}},
		{"left", geom.Point{X: 50, Y: 200}, Violation{Left: true}},
		{"right", geom.Point{X: 460, Y: 200}, Violation{Right: true}},
		{"top", geom.Point{X: 200, Y: 50}, Violation{Top: true}},
		{"bottom", geom.Point{X: 200, Y: 380}, Violation{Bottom: true}},
		{"corner", geom.Point{X: 50, Y: 50}, Violation{Left: true, Top: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Check(tt.p)
			if got != tt.want {
				t.Errorf("Check(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
			if got.Any() != (tt.want != Violation{}) {
				t.Errorf("Any() inconsistent for %+v", got)
			}
		})
	}
}

func TestExpandBounds(t *testing.T) {
	bounds := geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	// A node hanging past the right edge grows the container rightwards only.
	nodeRect := geom.Rect{X: 480, Y: 200, Width: 60, Height: 40}
	got := ExpandBounds(bounds, nodeRect, 10)
	want := geom.Rect{X: 100, Y: 100, Width: 450, Height: 300}
	if got != want {
		t.Errorf("ExpandBounds = %+v, want %+v", got, want)
	}

	// A node well inside leaves the bounds unchanged.
	inside := geom.Rect{X: 200, Y: 200, Width: 60, Height: 40}
	if got := ExpandBounds(bounds, inside, 10); got != bounds {
		t.Errorf("ExpandBounds moved for interior node: %+v", got)
	}
}

func TestModeString(t *testing.T) {
	if ModeClamp.String() != "clamp" || ModeExpand.String() != "expand" {
		t.Errorf("mode names = %q, %q", ModeClamp, ModeExpand)
	}
}
