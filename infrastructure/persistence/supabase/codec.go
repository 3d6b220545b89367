package supabase

import (
	"encoding/json"

	"go.uber.org/zap"

	"nodal-backend/domain/core/entities"
)

// encodeNodes serializes a node slice to the JSON text stored in the
// knowledge_maps row. An empty graph encodes as "[]", never "null".
func encodeNodes(nodes []entities.Node) (string, error) {
	if nodes == nil {
		nodes = []entities.Node{}
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeEdges(edges []entities.Edge) (string, error) {
	if edges == nil {
		edges = []entities.Edge{}
	}
	data, err := json.Marshal(edges)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeNodes parses the stored node blob. A corrupt blob degrades to an
// empty slice so a single bad row cannot make the whole exploration
// unreadable; the incident is logged for operators.
func decodeNodes(raw string, slug string, logger *zap.Logger) []entities.Node {
	if raw == "" {
		return []entities.Node{}
	}
	var nodes []entities.Node
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		logger.Warn("corrupt node blob, treating as empty",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return []entities.Node{}
	}
	if nodes == nil {
		return []entities.Node{}
	}
	return nodes
}

func decodeEdges(raw string, slug string, logger *zap.Logger) []entities.Edge {
	if raw == "" {
		return []entities.Edge{}
	}
	var edges []entities.Edge
	if err := json.Unmarshal([]byte(raw), &edges); err != nil {
		logger.Warn("corrupt edge blob, treating as empty",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return []entities.Edge{}
	}
	if edges == nil {
		return []entities.Edge{}
	}
	return edges
}
