package aggregates

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"nodal-backend/domain/core/entities"
	"nodal-backend/domain/layout"
	pkgerrors "nodal-backend/pkg/errors"
)

// Exploration is the aggregate root for one user-owned knowledge graph.
// It owns the node/edge sequences and enforces the structural invariants:
// nodes[0] is the root and is never deletable, node ids are unique, and no
// edge may reference a node that is not present.
type Exploration struct {
	id          string
	slug        string
	ownerID     string
	title       string
	description string
	nodes       []entities.Node
	edges       []entities.Edge
	version     int
	createdAt   time.Time
}

// NewExploration creates an exploration from freshly generated content.
// Edges referencing unknown node ids are dropped rather than stored, so the
// referential integrity invariant holds from the first write.
func NewExploration(ownerID, slug, title, description string, nodes []entities.Node, edges []entities.Edge) (*Exploration, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, pkgerrors.NewValidationError("ownerID is required")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.NewValidationError("slug is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, pkgerrors.NewValidationError("title is required")
	}

	known := make(map[string]struct{}, len(nodes))
	for i := range nodes {
		known[nodes[i].ID] = struct{}{}
	}
	kept := make([]entities.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
	}

	return &Exploration{
		id:          uuid.NewString(),
		slug:        slug,
		ownerID:     ownerID,
		title:       title,
		description: description,
		nodes:       append([]entities.Node(nil), nodes...),
		edges:       kept,
		version:     1,
		createdAt:   time.Now(),
	}, nil
}

// ReconstructExploration recreates an exploration from stored data
func ReconstructExploration(
	id string,
	slug string,
	ownerID string,
	title string,
	description string,
	nodes []entities.Node,
	edges []entities.Edge,
	version int,
	createdAt time.Time,
) *Exploration {
	return &Exploration{
		id:          id,
		slug:        slug,
		ownerID:     ownerID,
		title:       title,
		description: description,
		nodes:       nodes,
		edges:       edges,
		version:     version,
		createdAt:   createdAt,
	}
}

// ID returns the row identifier
func (e *Exploration) ID() string {
	return e.id
}

// Slug returns the URL-safe identifier
func (e *Exploration) Slug() string {
	return e.slug
}

// OwnerID returns the owning principal's id
func (e *Exploration) OwnerID() string {
	return e.ownerID
}

// Title returns the polished question text
func (e *Exploration) Title() string {
	return e.title
}

// Description returns the topic description
func (e *Exploration) Description() string {
	return e.description
}

// Version returns the optimistic concurrency version
func (e *Exploration) Version() int {
	return e.version
}

// CreatedAt returns the creation timestamp
func (e *Exploration) CreatedAt() time.Time {
	return e.createdAt
}

// IsOwnedBy checks whether the given principal owns this exploration
func (e *Exploration) IsOwnedBy(userID string) bool {
	return e.ownerID == userID
}

// Nodes returns a copy of the node sequence
func (e *Exploration) Nodes() []entities.Node {
	return append([]entities.Node(nil), e.nodes...)
}

// Edges returns a copy of the edge sequence
func (e *Exploration) Edges() []entities.Edge {
	return append([]entities.Edge(nil), e.edges...)
}

// NodeCount returns the number of nodes
func (e *Exploration) NodeCount() int {
	return len(e.nodes)
}

// EdgeCount returns the number of edges
func (e *Exploration) EdgeCount() int {
	return len(e.edges)
}

// RootNode returns the root (question) node, or nil for an empty graph
func (e *Exploration) RootNode() *entities.Node {
	if len(e.nodes) == 0 {
		return nil
	}
	root := e.nodes[0]
	return &root
}

// FindNode looks up a node by id
func (e *Exploration) FindNode(nodeID string) (*entities.Node, error) {
	for i := range e.nodes {
		if e.nodes[i].ID == nodeID {
			node := e.nodes[i]
			return &node, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("node")
}

// ExpandNode attaches one new child node under parentID. The operation is
// purely additive: existing nodes and edges are never touched. The new node's
// id is the highest numeric id plus one and its position comes from the
// layout engine.
func (e *Exploration) ExpandNode(parentID string, content entities.NodeData) (*entities.Node, *entities.Edge, error) {
	parent, err := e.FindNode(parentID)
	if err != nil {
		return nil, nil, pkgerrors.NewNotFoundError("parent node")
	}

	position := layout.PlaceNewNode(e.nodes, parent)
	node, err := entities.NewNode(e.nextNodeID(), content, position)
	if err != nil {
		return nil, nil, err
	}
	edge := entities.NewEdge(parentID, node.ID)

	e.nodes = append(e.nodes, *node)
	e.edges = append(e.edges, *edge)

	return node, edge, nil
}

// nextNodeID allocates the next id as max(numeric ids) + 1. Ids that do not
// parse as integers are skipped instead of poisoning the maximum, so a graph
// that ever held a non-numeric id still expands.
func (e *Exploration) nextNodeID() string {
	maxID := 0
	for i := range e.nodes {
		if n, err := strconv.Atoi(e.nodes[i].ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

// DeleteSubtree computes the node and edge ids that deleting nodeID removes:
// the node itself, everything reachable from it via outgoing edges, and every
// edge touching a removed node. A visited set keeps the traversal terminating
// even if persisted data contains a cycle. The receiver is not mutated; apply
// the result with ApplyDeletion.
func (e *Exploration) DeleteSubtree(nodeID string) (map[string]struct{}, map[string]struct{}, error) {
	if root := e.RootNode(); root != nil && root.ID == nodeID {
		return nil, nil, pkgerrors.NewValidationError("the root node cannot be deleted")
	}
	if _, err := e.FindNode(nodeID); err != nil {
		return nil, nil, err
	}

	deletedNodes := map[string]struct{}{nodeID: {}}
	deletedEdges := make(map[string]struct{})

	stack := []string{nodeID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range e.edges {
			edge := &e.edges[i]
			if edge.Source == current {
				deletedEdges[edge.ID] = struct{}{}
				if _, seen := deletedNodes[edge.Target]; !seen {
					deletedNodes[edge.Target] = struct{}{}
					stack = append(stack, edge.Target)
				}
			}
			if edge.Target == current {
				// Edges into the subtree would dangle once it is gone.
				deletedEdges[edge.ID] = struct{}{}
			}
		}
	}

	return deletedNodes, deletedEdges, nil
}

// ApplyDeletion filters out the given node and edge ids, preserving order
func (e *Exploration) ApplyDeletion(nodeIDs, edgeIDs map[string]struct{}) {
	nodes := e.nodes[:0]
	for _, n := range e.nodes {
		if _, gone := nodeIDs[n.ID]; !gone {
			nodes = append(nodes, n)
		}
	}
	e.nodes = nodes

	edges := e.edges[:0]
	for _, edge := range e.edges {
		if _, gone := edgeIDs[edge.ID]; !gone {
			edges = append(edges, edge)
		}
	}
	e.edges = edges
}

// Validate checks the structural invariants, used by tests and the store
// before persisting
func (e *Exploration) Validate() error {
	seen := make(map[string]struct{}, len(e.nodes))
	for i := range e.nodes {
		if _, dup := seen[e.nodes[i].ID]; dup {
			return pkgerrors.NewValidationError("duplicate node id: " + e.nodes[i].ID)
		}
		seen[e.nodes[i].ID] = struct{}{}
	}
	for i := range e.edges {
		if _, ok := seen[e.edges[i].Source]; !ok {
			return pkgerrors.NewValidationError("edge references missing source: " + e.edges[i].Source)
		}
		if _, ok := seen[e.edges[i].Target]; !ok {
			return pkgerrors.NewValidationError("edge references missing target: " + e.edges[i].Target)
		}
	}
	return nil
}
