// Package entities defines the node and edge records that make up an
// exploration's knowledge graph. Field names and JSON tags match the wire
// format the renderer consumes, so these types round-trip unchanged through
// the persistence blobs.
package entities

import (
	"strings"

	"nodal-backend/domain/core/valueobjects"
	pkgerrors "nodal-backend/pkg/errors"
)

// NodeType tags the renderer variant for a node. Only NodeTypeDefault is in
// use today; the backend treats the value opaquely.
type NodeType string

const (
	NodeTypeDefault NodeType = "default"
)

// Source is a citation attached to a node
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NodeData holds the AI-generated content of a node. All fields are opaque
// pass-through text as far as the backend is concerned.
type NodeData struct {
	Label       string   `json:"label"`
	Details     string   `json:"details"`
	Sources     []Source `json:"sources"`
	Reasoning   string   `json:"reasoning"`
	Description string   `json:"description"`
}

// Node is a single concept unit in an exploration's graph
type Node struct {
	ID       string                `json:"id"`
	Type     NodeType              `json:"type"`
	Data     NodeData              `json:"data"`
	Position valueobjects.Position `json:"position"`
}

// NewNode creates a node with validated content
func NewNode(id string, data NodeData, position valueobjects.Position) (*Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("node id is required")
	}
	if strings.TrimSpace(data.Label) == "" {
		return nil, pkgerrors.NewValidationError("node label is required")
	}
	return &Node{
		ID:       id,
		Type:     NodeTypeDefault,
		Data:     data,
		Position: position,
	}, nil
}
