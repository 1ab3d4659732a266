// Package constraint keeps a dragged node consistent with its group.
//
// A Constraint is a transient value captured once per drag gesture: it
// snapshots the owning group's bounds at drag start so the clamp target
// does not drift while the pointer moves. The gesture state machine that
// creates and discards constraints lives in the engine package; this
// package holds the pure geometry.
//
// Two behaviors exist for a node pushed against its container:
//
//   - clamp: the node's rectangle is held inside the padded bounds
//     (Constraint.Apply)
//   - expand: the container grows to accept the node's prospective
//     rectangle (ExpandBounds), leaving the node position untouched
//
// The active behavior is a per-call-site mode flag, chosen by the engine.
package constraint

import (
	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/group"
)

// DefaultPadding is the interior margin kept between a constrained node
// and its container edges.
const DefaultPadding = 10.0

// Mode selects what happens when a dragged node crosses its group bounds.
type Mode int

const (
	// ModeClamp holds the node inside the group container.
	ModeClamp Mode = iota
	// ModeExpand grows the container to fit the node.
	ModeExpand
)

// String returns the mode name used in configuration files.
func (m Mode) String() string {
	if m == ModeExpand {
		return "expand"
	}
	return "clamp"
}

// Violation flags which container edges a position would cross.
// The host uses it to direct transient visual feedback.
type Violation struct {
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
}

// Any reports whether any edge is violated.
func (v Violation) Any() bool { return v.Left || v.Right || v.Top || v.Bottom }

// Constraint binds a dragged node to its group's bounds snapshot.
type Constraint struct {
	NodeID  string
	GroupID string

	interior geom.Rect // padded clamp target, fixed for the gesture
	size     geom.Size // node dimensions
}

// New captures a constraint for a node inside the given group.
// The group's current bounds are snapshotted and inset by padding; they are
// not re-read during the gesture unless the caller creates a new constraint.
func New(nodeID string, g *group.Group, size geom.Size, padding float64) *Constraint {
	return &Constraint{
		NodeID:   nodeID,
		GroupID:  g.ID,
		interior: g.Bounds.Inset(padding),
		size:     size,
	}
}

// Apply clamps a position so the node's full rectangle stays within the
// padded bounds. Each axis is clamped independently; a node too large to
// fit is pinned to the padded top-left corner.
func (c *Constraint) Apply(p geom.Point) geom.Point {
	maxX := c.interior.MaxX() - c.size.Width
	maxY := c.interior.MaxY() - c.size.Height

	x := p.X
	if x > maxX {
		x = maxX
	}
	if x < c.interior.X {
		x = c.interior.X
	}
	y := p.Y
	if y > maxY {
		y = maxY
	}
	if y < c.interior.Y {
		y = c.interior.Y
	}
	return geom.Point{X: x, Y: y}
}

// Within reports whether the node rectangle at p lies entirely inside the
// padded bounds. It drives the "constraint active" feedback indicator.
func (c *Constraint) Within(p geom.Point) bool {
	return c.interior.Contains(geom.RectAt(p, c.size))
}

// Check returns the set of container edges the node rectangle at p would
// cross. A zero Violation means the position is acceptable as-is.
func (c *Constraint) Check(p geom.Point) Violation {
	r := geom.RectAt(p, c.size)
	return Violation{
		Left:   r.X < c.interior.X,
		Right:  r.MaxX() > c.interior.MaxX(),
		Top:    r.Y < c.interior.Y,
		Bottom: r.MaxY() > c.interior.MaxY(),
	}
}

// ExpandBounds grows container bounds to accept a node's prospective
// rectangle plus padding. Used in ModeExpand instead of clamping; the
// node's position is left untouched.
func ExpandBounds(bounds geom.Rect, nodeRect geom.Rect, padding float64) geom.Rect {
	return bounds.Union(nodeRect.Expand(padding))
}
