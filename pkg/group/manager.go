package group

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// CreateParams are the inputs for creating a group.
type CreateParams struct {
	// NodeIDs are the initial members. At least two are required, all must
	// exist, and none may belong to another group.
	NodeIDs []string

	// Title is optional; a default "Group N" title is generated when empty.
	Title string

	// Style is optional; the zero value means host defaults.
	Style Style
}

// Manager applies grouping operations to a State.
//
// The manager validates every operation fully before mutating anything, so
// a failed call never leaves partial membership behind. It is not safe for
// concurrent use; the editor model is a single logical caller per instance.
type Manager struct {
	state  *State
	bounds BoundsConfig
}

// NewManager creates a manager over the given state. A nil state starts
// empty. The zero BoundsConfig is replaced by the defaults.
func NewManager(state *State, bounds BoundsConfig) *Manager {
	if state == nil {
		state = NewState()
	}
	if state.membership == nil {
		state.Reindex()
	}
	if bounds == (BoundsConfig{}) {
		bounds = DefaultBoundsConfig()
	}
	return &Manager{state: state, bounds: bounds}
}

// State returns the managed state.
func (m *Manager) State() *State { return m.state }

// BoundsConfig returns the active bounds configuration.
func (m *Manager) BoundsConfig() BoundsConfig { return m.bounds }

// Reset replaces the state with an empty one, as on "new document".
func (m *Manager) Reset() {
	m.state = NewState()
}

// Create validates and creates a new group from existing nodes.
//
// Fails with GROUP_TOO_SMALL for fewer than two members, NODE_NOT_FOUND
// when an ID has no node, and NODE_ALREADY_GROUPED when a node is already
// a member elsewhere. On success the group's bounds cover the current
// member rectangles plus padding.
func (m *Manager) Create(params CreateParams, nodes map[string]Node) (*Group, error) {
	if len(params.NodeIDs) < 2 {
		return nil, errors.New(errors.ErrCodeGroupTooSmall,
			"a group needs at least 2 nodes, got %d", len(params.NodeIDs))
	}
	if res := validateUnique(params.NodeIDs); !res.IsValid {
		return nil, res.Err(errors.ErrCodeInvalidInput)
	}
	if res := ValidateNodesExist(params.NodeIDs, nodes); !res.IsValid {
		return nil, res.Err(errors.ErrCodeNodeNotFound)
	}
	if res := ValidateNodesUngrouped(params.NodeIDs, m.state, ""); !res.IsValid {
		return nil, res.Err(errors.ErrCodeNodeAlreadyGrouped)
	}

	m.state.Counter++
	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = fmt.Sprintf("Group %d", m.state.Counter)
	}

	now := time.Now().UTC()
	g := &Group{
		ID:        fmt.Sprintf("group-%d", m.state.Counter),
		Title:     title,
		NodeIDs:   slices.Clone(params.NodeIDs),
		Style:     params.Style,
		ZIndex:    len(m.state.Groups),
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.Bounds, _ = ComputeBounds(members(g.NodeIDs, nodes), m.bounds)

	m.state.Groups = append(m.state.Groups, g)
	for _, id := range g.NodeIDs {
		m.state.membership[id] = g.ID
	}
	return g, nil
}

// RefreshBounds recomputes a group's container from current node geometry.
// Call it after any member node moves; bounds are derived data and are
// never updated implicitly. A group whose members are all missing from
// nodes keeps its previous bounds.
func (m *Manager) RefreshBounds(groupID string, nodes map[string]Node) (*Group, error) {
	g := m.state.Group(groupID)
	if g == nil {
		return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	if b, ok := ComputeBounds(members(g.NodeIDs, nodes), m.bounds); ok {
		g.Bounds = b
		g.UpdatedAt = time.Now().UTC()
	}
	return g, nil
}

// AddNodes adds nodes to an existing group with the same validation as
// Create: every node must exist and must not belong to a different group.
// IDs already in this group are rejected as duplicates.
func (m *Manager) AddNodes(groupID string, nodeIDs []string, nodes map[string]Node) (*Group, error) {
	g := m.state.Group(groupID)
	if g == nil {
		return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	if len(nodeIDs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no nodes to add")
	}
	if res := validateUnique(nodeIDs); !res.IsValid {
		return nil, res.Err(errors.ErrCodeInvalidInput)
	}
	if res := ValidateNodesExist(nodeIDs, nodes); !res.IsValid {
		return nil, res.Err(errors.ErrCodeNodeNotFound)
	}
	dup := Result{IsValid: true}
	for _, id := range nodeIDs {
		if g.Contains(id) {
			dup.add("node %q is already in group %q", id, g.ID)
		}
	}
	if !dup.IsValid {
		return nil, dup.Err(errors.ErrCodeInvalidInput)
	}
	if res := ValidateNodesUngrouped(nodeIDs, m.state, g.ID); !res.IsValid {
		return nil, res.Err(errors.ErrCodeNodeAlreadyGrouped)
	}

	g.NodeIDs = append(g.NodeIDs, nodeIDs...)
	for _, id := range nodeIDs {
		m.state.membership[id] = g.ID
	}
	if b, ok := ComputeBounds(members(g.NodeIDs, nodes), m.bounds); ok {
		g.Bounds = b
	}
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

// RemoveNodes removes nodes from a group. Every requested ID must be a
// current member; otherwise nothing changes. Removing the last member
// leaves an empty group - deleting it is a separate caller decision.
func (m *Manager) RemoveNodes(groupID string, nodeIDs []string, nodes map[string]Node) (*Group, error) {
	g := m.state.Group(groupID)
	if g == nil {
		return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	if len(nodeIDs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no nodes to remove")
	}
	missing := Result{IsValid: true}
	for _, id := range nodeIDs {
		if !g.Contains(id) {
			missing.add("node %q is not in group %q", id, g.ID)
		}
	}
	if !missing.IsValid {
		return nil, missing.Err(errors.ErrCodeNodeNotFound)
	}

	g.NodeIDs = slices.DeleteFunc(g.NodeIDs, func(id string) bool {
		return slices.Contains(nodeIDs, id)
	})
	for _, id := range nodeIDs {
		delete(m.state.membership, id)
	}
	if b, ok := ComputeBounds(members(g.NodeIDs, nodes), m.bounds); ok {
		g.Bounds = b
	}
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

// SetTitle renames a group. The trimmed title must be non-empty.
func (m *Manager) SetTitle(groupID, title string) (*Group, error) {
	g := m.state.Group(groupID)
	if g == nil {
		return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New(errors.ErrCodeEmptyTitle, "group title cannot be empty")
	}
	g.Title = title
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

// Delete removes a group from the state and from the selection set.
// Member nodes are released but otherwise unaffected.
func (m *Manager) Delete(groupID string) error {
	g := m.state.Group(groupID)
	if g == nil {
		return errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	for _, id := range g.NodeIDs {
		delete(m.state.membership, id)
	}
	m.state.Groups = slices.DeleteFunc(m.state.Groups, func(other *Group) bool {
		return other.ID == groupID
	})
	m.state.Selected = slices.DeleteFunc(m.state.Selected, func(id string) bool {
		return id == groupID
	})
	return nil
}

// Select adds a group to the selection set.
func (m *Manager) Select(groupID string) error {
	if m.state.Group(groupID) == nil {
		return errors.New(errors.ErrCodeGroupNotFound, "group %q does not exist", groupID)
	}
	if !m.state.IsSelected(groupID) {
		m.state.Selected = append(m.state.Selected, groupID)
	}
	return nil
}

// Deselect removes a group from the selection set. Unknown IDs are ignored.
func (m *Manager) Deselect(groupID string) {
	m.state.Selected = slices.DeleteFunc(m.state.Selected, func(id string) bool {
		return id == groupID
	})
}

// ClearSelection empties the selection set.
func (m *Manager) ClearSelection() {
	m.state.Selected = nil
}

// members collects the Node values for the given IDs, skipping unknown ones.
func members(nodeIDs []string, nodes map[string]Node) []Node {
	out := make([]Node, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if n, ok := nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}
