package group

import (
	"fmt"
	"strings"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// Result is the outcome of a pre-mutation validation pass.
// Errors holds one human-readable message per violation so the editor can
// surface all problems at once instead of failing on the first.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// add records a violation and marks the result invalid.
func (r *Result) add(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err converts the result into a structured error with the given code,
// or nil when the result is valid.
func (r Result) Err(code errors.Code) error {
	if r.IsValid {
		return nil
	}
	return errors.New(code, "%s", strings.Join(r.Errors, "; "))
}

// ValidateNodesExist checks that every requested ID corresponds to a node
// known to the host framework.
func ValidateNodesExist(nodeIDs []string, nodes map[string]Node) Result {
	res := Result{IsValid: true}
	for _, id := range nodeIDs {
		if _, ok := nodes[id]; !ok {
			res.add("node %q does not exist", id)
		}
	}
	return res
}

// ValidateNodesUngrouped checks that none of the requested nodes already
// belong to a group other than excludeGroupID. Pass an empty excludeGroupID
// for group creation.
func ValidateNodesUngrouped(nodeIDs []string, s *State, excludeGroupID string) Result {
	res := Result{IsValid: true}
	for _, id := range nodeIDs {
		g := s.GroupOf(id)
		if g != nil && g.ID != excludeGroupID {
			res.add("node %q already belongs to group %q", id, g.ID)
		}
	}
	return res
}

// validateUnique checks that the requested ID list has no duplicates.
func validateUnique(nodeIDs []string) Result {
	res := Result{IsValid: true}
	seen := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		if seen[id] {
			res.add("node %q requested more than once", id)
		}
		seen[id] = true
	}
	return res
}
