// Package engine composes the grid, group, constraint, and ident packages
// into the host-facing spatial-consistency engine.
//
// The host canvas framework owns the visual nodes and dispatches gesture
// callbacks; the engine decides where dragged nodes actually land, which
// container constrains them, and how duplicated nodes receive identifiers.
//
// # Drag lifecycle
//
// Each drag gesture walks a small state machine:
//
//	idle → DragStart (captures the constraint snapshot)
//	     → Drag (repeated, applies clamp or expand per the configured mode)
//	     → DragStop / CancelDrag (commits the snap, discards the snapshot)
//
// Cancellation must always reach CancelDrag or DragStop; a snapshot that
// survives its gesture would leak a stale clamp target into the next one.
//
// The engine is single-threaded and synchronous: every call runs to
// completion within one event-handling turn, and the design assumes one
// logical caller per editor instance.
package engine

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgrid/pkg/constraint"
	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/group"
	"github.com/matzehuels/blockgrid/pkg/ident"
	"github.com/matzehuels/blockgrid/pkg/observability"
)

// =============================================================================
// Options and Results
// =============================================================================

// Options configure a new engine instance.
// Zero-value fields fall back to package defaults.
type Options struct {
	Grid   grid.Config
	Bounds group.BoundsConfig

	// ConstraintPadding is the interior margin between a constrained node
	// and its container edges.
	ConstraintPadding float64

	// Mode selects clamp or expand behavior for constrained drags.
	Mode constraint.Mode

	Logger *log.Logger
}

// Result reports the outcome of a drag callback: the corrected position the
// host must apply, plus the transient feedback signals it may render.
type Result struct {
	Position geom.Point `json:"position"`

	// Snapped is true when the position was committed to a grid
	// intersection (DragStop with the grid enabled).
	Snapped bool `json:"snapped"`

	// SnapPreview is true when the position is close enough to an
	// intersection that a snap indicator should be shown.
	SnapPreview bool `json:"snap_preview"`

	// Constrained is true when a group constraint moved the node or grew
	// the container.
	Constrained bool `json:"constrained"`

	// Violation flags the container edges the raw position crossed.
	Violation constraint.Violation `json:"violation,omitempty"`

	// GroupID names the constraining group, if any.
	GroupID string `json:"group_id,omitempty"`
}

// Document is the engine's serializable state: node geometry, grouping
// state, and grid settings. Persistence of the external diagram format is
// out of scope; this is the wholesale snapshot the session store holds.
type Document struct {
	Nodes  []group.Node `json:"nodes" bson:"nodes"`
	Groups *group.State `json:"groups" bson:"groups"`
	Grid   grid.Config  `json:"grid" bson:"grid"`
}

// Clone returns a deep copy of the document. Store backends hold clones so
// a running engine cannot write through a saved session.
func (d Document) Clone() Document {
	return Document{
		Nodes:  slices.Clone(d.Nodes),
		Groups: d.Groups.Clone(),
		Grid:   d.Grid,
	}
}

// gesture is the transient per-drag state. It is created by DragStart and
// discarded by DragStop or CancelDrag, never persisted.
type gesture struct {
	nodeID string
	cons   *constraint.Constraint // nil when the node is ungrouped
	last   geom.Point             // last valid position seen
	start  time.Time
}

// =============================================================================
// Engine
// =============================================================================

// Engine is the spatial-consistency engine for one editor instance.
type Engine struct {
	grid   *grid.Manager
	groups *group.Manager
	nodes  map[string]group.Node
	logger *log.Logger

	pad  float64
	mode constraint.Mode
	drag *gesture
}

// New creates an engine with the given options.
// Returns an error if the grid configuration is invalid.
func New(opts Options) (*Engine, error) {
	if opts.Grid == (grid.Config{}) {
		opts.Grid = grid.DefaultConfig()
	}
	gm, err := grid.NewManager(opts.Grid)
	if err != nil {
		return nil, err
	}
	if opts.ConstraintPadding <= 0 {
		opts.ConstraintPadding = constraint.DefaultPadding
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{
		grid:   gm,
		groups: group.NewManager(nil, opts.Bounds),
		nodes:  make(map[string]group.Node),
		logger: opts.Logger,
		pad:    opts.ConstraintPadding,
		mode:   opts.Mode,
	}, nil
}

// Grid returns the grid manager.
func (e *Engine) Grid() *grid.Manager { return e.grid }

// Groups returns the group manager.
func (e *Engine) Groups() *group.Manager { return e.groups }

// Mode returns the active constraint mode.
func (e *Engine) Mode() constraint.Mode { return e.mode }

// SetMode switches between clamp and expand drag behavior.
func (e *Engine) SetMode(m constraint.Mode) { e.mode = m }

// =============================================================================
// Node Registry
// =============================================================================

// SetNodes replaces the node registry with the host's current node list.
func (e *Engine) SetNodes(nodes []group.Node) {
	e.nodes = make(map[string]group.Node, len(nodes))
	for _, n := range nodes {
		e.nodes[n.ID] = n
	}
}

// UpsertNode adds or updates a single node. Non-finite positions are
// rejected so corrupt geometry never enters the registry.
func (e *Engine) UpsertNode(n group.Node) error {
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "node ID must not be empty")
	}
	if err := e.grid.ValidatePosition(n.Position); err != nil {
		return err
	}
	e.nodes[n.ID] = n
	return nil
}

// RemoveNode drops a node from the registry. If the node is grouped its
// membership is released first so the exclusivity index stays consistent.
func (e *Engine) RemoveNode(id string) {
	if g := e.groups.State().GroupOf(id); g != nil {
		_, _ = e.groups.RemoveNodes(g.ID, []string{id}, e.nodes)
	}
	delete(e.nodes, id)
}

// Node returns a node by ID.
func (e *Engine) Node(id string) (group.Node, bool) {
	n, ok := e.nodes[id]
	return n, ok
}

// Nodes returns the current node list in unspecified order.
func (e *Engine) Nodes() []group.Node {
	out := make([]group.Node, 0, len(e.nodes))
	for _, n := range e.nodes {
		out = append(out, n)
	}
	return out
}

// =============================================================================
// Drag Lifecycle
// =============================================================================

// DragStart begins a gesture for the node. If the node belongs to a group,
// the group's current bounds are snapshotted as the clamp target for the
// whole gesture. Starting a new gesture cancels any stale one.
func (e *Engine) DragStart(ctx context.Context, nodeID string, p geom.Point) error {
	n, ok := e.nodes[nodeID]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q does not exist", nodeID)
	}
	if e.drag != nil {
		// Previous gesture never reached DragStop; discard its snapshot.
		e.logger.Warn("discarding stale drag gesture", "node", e.drag.nodeID)
		e.drag = nil
	}
	if err := e.grid.ValidatePosition(p); err != nil {
		p = n.Position
	}

	g := &gesture{nodeID: nodeID, last: p, start: time.Now()}
	if owner := e.groups.State().GroupOf(nodeID); owner != nil {
		g.cons = constraint.New(nodeID, owner, n.Size, e.pad)
	}
	e.drag = g

	observability.Engine().OnDragStart(ctx, nodeID, g.cons != nil)
	e.logger.Debug("drag started", "node", nodeID, "constrained", g.cons != nil)
	return nil
}

// Drag processes a pointer-move callback and returns the corrected
// position. Non-finite input leaves the node at its last valid position.
func (e *Engine) Drag(ctx context.Context, nodeID string, p geom.Point) (Result, error) {
	g, err := e.activeGesture(nodeID)
	if err != nil {
		return Result{}, err
	}
	res := e.applyConstraint(g, p)
	res.SnapPreview = e.grid.ShouldSnap(res.Position)

	g.last = res.Position
	e.setPosition(nodeID, res.Position)
	return res, nil
}

// DragStop ends the gesture: the constraint is applied one last time, the
// position is committed through grid snapping, the owning group's bounds
// are refreshed, and the constraint snapshot is discarded.
func (e *Engine) DragStop(ctx context.Context, nodeID string, p geom.Point) (Result, error) {
	g, err := e.activeGesture(nodeID)
	if err != nil {
		return Result{}, err
	}
	defer func() { e.drag = nil }()

	res := e.applyConstraint(g, p)

	snap, err := e.grid.Snap(res.Position)
	if err == nil {
		res.Position = snap.Position
		res.Snapped = snap.Snapped
	}
	// Re-apply the clamp in case snapping nudged the node across the
	// container edge.
	if g.cons != nil && e.mode == constraint.ModeClamp {
		res.Position = g.cons.Apply(res.Position)
	}

	e.setPosition(nodeID, res.Position)
	if owner := e.groups.State().GroupOf(nodeID); owner != nil {
		_, _ = e.groups.RefreshBounds(owner.ID, e.nodes)
	}

	observability.Engine().OnDragEnd(ctx, nodeID, res.Snapped, time.Since(g.start))
	e.logger.Debug("drag stopped", "node", nodeID,
		"x", res.Position.X, "y", res.Position.Y, "snapped", res.Snapped)
	return res, nil
}

// CancelDrag aborts the gesture and discards the constraint snapshot
// without committing a position. Safe to call when no gesture is active.
func (e *Engine) CancelDrag(ctx context.Context) {
	if e.drag == nil {
		return
	}
	observability.Engine().OnDragEnd(ctx, e.drag.nodeID, false, time.Since(e.drag.start))
	e.drag = nil
}

// Dragging returns the node ID of the active gesture, or "".
func (e *Engine) Dragging() string {
	if e.drag == nil {
		return ""
	}
	return e.drag.nodeID
}

// activeGesture returns the gesture for nodeID or an error if none matches.
func (e *Engine) activeGesture(nodeID string) (*gesture, error) {
	if e.drag == nil || e.drag.nodeID != nodeID {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no active drag gesture for node %q", nodeID)
	}
	return e.drag, nil
}

// applyConstraint resolves the raw pointer position against the gesture's
// constraint snapshot per the configured mode. Invalid geometry falls back
// to the last valid position.
func (e *Engine) applyConstraint(g *gesture, p geom.Point) Result {
	if !p.IsFinite() {
		p = g.last
	}
	res := Result{Position: p}
	if g.cons == nil {
		return res
	}
	res.GroupID = g.cons.GroupID
	res.Violation = g.cons.Check(p)
	if !res.Violation.Any() {
		return res
	}

	switch e.mode {
	case constraint.ModeExpand:
		if owner := e.groups.State().Group(g.cons.GroupID); owner != nil {
			n := e.nodes[g.nodeID]
			owner.Bounds = constraint.ExpandBounds(owner.Bounds, geom.RectAt(p, n.Size), e.pad)
			res.Constrained = true
		}
	default:
		res.Position = g.cons.Apply(p)
		res.Constrained = true
	}
	return res
}

// setPosition updates the registry copy of a node's position.
func (e *Engine) setPosition(nodeID string, p geom.Point) {
	if n, ok := e.nodes[nodeID]; ok {
		n.Position = p
		e.nodes[nodeID] = n
	}
}

// =============================================================================
// Cloning
// =============================================================================

// Clone duplicates a node's data with collision-free identifiers.
//
// The caller owns the used-identifier indexes and passes them in; the
// engine never rescans the document. The clone is offset from its source
// and, when the grid is enabled, snapped afterwards - the allocator itself
// never snaps.
func (e *Engine) Clone(ctx context.Context, src ident.NodeData, usedIDs, usedNames map[string]struct{}) (ident.NodeData, error) {
	newID, err := ident.NextID(usedIDs)
	if err != nil {
		observability.Engine().OnClone(ctx, src.ID, "", err)
		return ident.NodeData{}, errors.Wrap(errors.ErrCodeIDExhausted, err,
			"cannot clone node %q", src.ID)
	}
	newName := ident.UniqueOutputName(src.OutputName, usedNames)

	out := ident.Clone(src, newID, newName)
	if snap, err := e.grid.Snap(out.Position); err == nil && snap.Snapped {
		out.Position = snap.Position
	}

	observability.Engine().OnClone(ctx, src.ID, newID, nil)
	e.logger.Debug("cloned node", "source", src.ID, "id", newID, "output", newName)
	return out, nil
}

// =============================================================================
// Group Facade
// =============================================================================

// CreateGroup creates a group from nodes in the registry.
func (e *Engine) CreateGroup(ctx context.Context, params group.CreateParams) (*group.Group, error) {
	g, err := e.groups.Create(params, e.nodes)
	if err != nil {
		return nil, err
	}
	observability.Engine().OnGroupCreated(ctx, g.ID, len(g.NodeIDs))
	e.logger.Info("created group", "id", g.ID, "members", len(g.NodeIDs))
	return g, nil
}

// DeleteGroup deletes a group, releasing its members.
func (e *Engine) DeleteGroup(ctx context.Context, groupID string) error {
	if err := e.groups.Delete(groupID); err != nil {
		return err
	}
	observability.Engine().OnGroupDeleted(ctx, groupID)
	e.logger.Info("deleted group", "id", groupID)
	return nil
}

// AddToGroup adds registry nodes to a group.
func (e *Engine) AddToGroup(groupID string, nodeIDs []string) (*group.Group, error) {
	return e.groups.AddNodes(groupID, nodeIDs, e.nodes)
}

// RemoveFromGroup removes nodes from a group.
func (e *Engine) RemoveFromGroup(groupID string, nodeIDs []string) (*group.Group, error) {
	return e.groups.RemoveNodes(groupID, nodeIDs, e.nodes)
}

// RefreshGroupBounds recomputes a group's container from the registry.
func (e *Engine) RefreshGroupBounds(groupID string) (*group.Group, error) {
	return e.groups.RefreshBounds(groupID, e.nodes)
}

// =============================================================================
// Snapshots
// =============================================================================

// Snapshot captures the engine state for the session store. The returned
// document is detached: later engine mutations do not write through it.
func (e *Engine) Snapshot() Document {
	return Document{
		Nodes:  e.Nodes(),
		Groups: e.groups.State().Clone(),
		Grid:   e.grid.Config(),
	}
}

// Restore replaces the engine state from a snapshot. The document is copied
// on the way in, so the caller keeps ownership of its value. Any active
// gesture is discarded. Returns an error if the snapshot's grid config is
// invalid.
func (e *Engine) Restore(doc Document) error {
	if err := e.grid.SetConfig(doc.Grid); err != nil {
		return err
	}
	e.SetNodes(doc.Nodes)
	st := doc.Groups.Clone()
	if st == nil {
		st = group.NewState()
	}
	e.groups = group.NewManager(st, e.groups.BoundsConfig())
	e.drag = nil
	return nil
}
