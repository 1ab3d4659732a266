// Package group maintains visual node groups for the block-diagram editor.
//
// A group is a named, bounded collection of diagram nodes treated as one
// selectable unit. The package owns group membership and derives container
// bounds from member node geometry; the nodes themselves belong to the host
// canvas framework and are only read here.
//
// # Invariants
//
//   - A group has at least two members at creation time. Removing members
//     may later leave it empty; deletion is a separate, caller-driven step.
//   - A node belongs to at most one group. The State keeps a reverse index
//     from node ID to group ID and every mutation goes through it, so
//     exclusivity is a hard invariant rather than an ad-hoc check.
//   - Bounds are derived data. Every mutating operation recomputes them;
//     after member nodes move, the caller refreshes them explicitly with
//     Manager.RefreshBounds.
//
// All validation happens before any mutation: an operation either fully
// succeeds or leaves the state untouched.
package group

import (
	"slices"
	"time"

	"github.com/matzehuels/blockgrid/pkg/geom"
)

// Default bounds configuration values.
const (
	// DefaultPadding is the margin added around member nodes.
	DefaultPadding = 20.0

	// DefaultMinWidth is the minimum container width.
	DefaultMinWidth = 100.0

	// DefaultMinHeight is the minimum container height.
	DefaultMinHeight = 80.0
)

// Node is the engine's read-only view of a diagram node: an opaque ID plus
// its rectangle. Nodes are owned by the host canvas framework and passed in
// per call; the engine never stores them inside groups.
type Node struct {
	ID       string     `json:"id" bson:"id"`
	Position geom.Point `json:"position" bson:"position"`
	Size     geom.Size  `json:"size" bson:"size"`
}

// Rect returns the node's rectangle at its current position.
func (n Node) Rect() geom.Rect { return geom.RectAt(n.Position, n.Size) }

// Style holds the visual appearance of a group container.
// The engine carries it for the host to render; it never interprets it.
type Style struct {
	Fill    string  `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke  string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	Opacity float64 `json:"opacity,omitempty" bson:"opacity,omitempty"`
}

// Group is a named collection of node IDs with a derived container rectangle.
type Group struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	NodeIDs   []string  `json:"node_ids" bson:"node_ids"`
	Bounds    geom.Rect `json:"bounds" bson:"bounds"`
	Style     Style     `json:"style,omitempty" bson:"style,omitempty"`
	ZIndex    int       `json:"z_index" bson:"z_index"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Contains reports whether the node ID is a member of the group.
func (g *Group) Contains(nodeID string) bool {
	for _, id := range g.NodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}

// BoundsConfig controls how container bounds are derived from members.
type BoundsConfig struct {
	// Padding is the margin added on all sides of the member union.
	Padding float64 `json:"padding" bson:"padding" toml:"padding"`

	// MinWidth and MinHeight are lower limits for the container. When the
	// padded union is smaller, the bounds are centered and grown to the
	// minimum.
	MinWidth  float64 `json:"min_width" bson:"min_width" toml:"min_width"`
	MinHeight float64 `json:"min_height" bson:"min_height" toml:"min_height"`
}

// DefaultBoundsConfig returns the bounds defaults: 20px padding, 100x80 minimum.
func DefaultBoundsConfig() BoundsConfig {
	return BoundsConfig{
		Padding:   DefaultPadding,
		MinWidth:  DefaultMinWidth,
		MinHeight: DefaultMinHeight,
	}
}

// ComputeBounds derives the container rectangle for the given member nodes:
// the minimal axis-aligned rectangle covering all member rectangles,
// expanded by the padding, then centered out to the minimum dimensions if
// smaller. The second return value is false for an empty member list.
func ComputeBounds(nodes []Node, cfg BoundsConfig) (geom.Rect, bool) {
	rects := make([]geom.Rect, len(nodes))
	for i, n := range nodes {
		rects[i] = n.Rect()
	}
	union, ok := geom.UnionAll(rects)
	if !ok {
		return geom.Rect{}, false
	}
	b := union.Expand(cfg.Padding)
	if b.Width < cfg.MinWidth {
		b.X -= (cfg.MinWidth - b.Width) / 2
		b.Width = cfg.MinWidth
	}
	if b.Height < cfg.MinHeight {
		b.Y -= (cfg.MinHeight - b.Height) / 2
		b.Height = cfg.MinHeight
	}
	return b, true
}

// State is the process-wide grouping state for one editor instance.
//
// Groups preserves creation order so the host can render containers with a
// stable stacking baseline. The membership index is the authoritative
// node-to-group mapping; it is rebuilt on load and kept in sync by every
// Manager mutation.
type State struct {
	Groups   []*Group `json:"groups" bson:"groups"`
	Selected []string `json:"selected_group_ids" bson:"selected_group_ids"`

	// Counter feeds default titles ("Group 3") and generated IDs.
	Counter int `json:"group_counter" bson:"group_counter"`

	membership map[string]string // node ID -> group ID
}

// NewState returns an empty grouping state, as at editor start or after
// a "new document" reset.
func NewState() *State {
	return &State{membership: make(map[string]string)}
}

// Reindex rebuilds the membership index from the group list. Call it after
// deserializing a State, when the unexported index is empty.
func (s *State) Reindex() {
	s.membership = make(map[string]string)
	for _, g := range s.Groups {
		for _, id := range g.NodeIDs {
			s.membership[id] = g.ID
		}
	}
}

// Clone returns a deep copy of the state. Groups, node ID lists, the
// selection set, and the membership index are all independent of the
// receiver, so mutations on either side stay on that side.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		Groups:   make([]*Group, len(s.Groups)),
		Selected: slices.Clone(s.Selected),
		Counter:  s.Counter,
	}
	for i, g := range s.Groups {
		copied := *g
		copied.NodeIDs = slices.Clone(g.NodeIDs)
		out.Groups[i] = &copied
	}
	out.Reindex()
	return out
}

// Group returns the group with the given ID, or nil.
func (s *State) Group(id string) *Group {
	for _, g := range s.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GroupOf returns the group containing the node, or nil if ungrouped.
func (s *State) GroupOf(nodeID string) *Group {
	if s.membership == nil {
		s.Reindex()
	}
	gid, ok := s.membership[nodeID]
	if !ok {
		return nil
	}
	return s.Group(gid)
}

// IsSelected reports whether the group ID is in the selection set.
func (s *State) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}
