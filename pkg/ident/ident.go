// Package ident allocates collision-free identifiers for duplicated nodes.
//
// Diagram nodes carry two identifiers that must be globally unique across
// the document: a 4-digit numeric ID ("0001".."9999") and a symbolic
// output-variable name. When a node is cloned, both are re-allocated here.
//
// The allocator never caches used identifiers. Callers own the index of
// identifiers in use and pass it in per call, so allocation cost is always
// explicit and the allocator cannot drift out of sync with the document.
package ident

import (
	"errors"
	"fmt"
	"maps"

	"github.com/matzehuels/blockgrid/pkg/geom"
)

// Numeric identifier space, inclusive.
const (
	MinID = 1
	MaxID = 9999
)

// CloneOffset is the positional offset applied to a cloned node, so the
// copy never lands exactly on its source. Snapping a pasted node to the
// grid is a caller decision applied afterwards.
var CloneOffset = geom.Point{X: 50, Y: 50}

// ErrExhausted is returned by NextID when all 9999 numeric identifiers are
// taken. It must be surfaced to the user; retrying would mint a duplicate.
var ErrExhausted = errors.New("identifier space exhausted")

// NextID returns the lowest 4-digit identifier not present in used.
// IDs are scanned in ascending order from "0001" to "9999".
func NextID(used map[string]struct{}) (string, error) {
	for n := MinID; n <= MaxID; n++ {
		id := fmt.Sprintf("%04d", n)
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}

// UniqueOutputName returns base if it is unused, otherwise the first free
// name among base_1, base_2, and so on.
func UniqueOutputName(base string, used map[string]struct{}) string {
	if _, taken := used[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

// UsedSet builds an identifier set from a list, for callers holding plain
// slices of IDs or names.
func UsedSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// NodeData is the cloneable payload of a diagram node. The engine treats
// Kind and Params as opaque - they belong to the host's block catalog.
type NodeData struct {
	ID         string         `json:"id" bson:"id"`
	OutputName string         `json:"output_name" bson:"output_name"`
	Kind       string         `json:"kind,omitempty" bson:"kind,omitempty"`
	Position   geom.Point     `json:"position" bson:"position"`
	Size       geom.Size      `json:"size" bson:"size"`
	Params     map[string]any `json:"params,omitempty" bson:"params,omitempty"`

	// Connections references attached connection entities. Connections are
	// never cloned, so this is cleared on the copy.
	Connections []string `json:"connections,omitempty" bson:"connections,omitempty"`
}

// Clone copies a node's data with freshly allocated identifiers.
// All fields carry over except the identifier, the output name, and the
// connection references; the position is shifted by CloneOffset. The copy
// is independent of the source - Params is shallow-copied per key.
func Clone(src NodeData, newID, newOutputName string) NodeData {
	out := src
	out.ID = newID
	out.OutputName = newOutputName
	out.Position = src.Position.Add(CloneOffset.X, CloneOffset.Y)
	out.Connections = nil
	if src.Params != nil {
		out.Params = maps.Clone(src.Params)
	}
	return out
}
