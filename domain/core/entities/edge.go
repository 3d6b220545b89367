package entities

import "fmt"

// Edge is a directed link from a parent concept node to a child concept node.
// The Animated flag is a display hint the backend passes through untouched.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated"`
}

// NewEdge creates an edge between two node ids using the "{source}-{target}"
// id convention
func NewEdge(sourceID, targetID string) *Edge {
	return &Edge{
		ID:       EdgeID(sourceID, targetID),
		Source:   sourceID,
		Target:   targetID,
		Animated: false,
	}
}

// EdgeID builds the canonical edge identifier for a source/target pair
func EdgeID(sourceID, targetID string) string {
	return fmt.Sprintf("%s-%s", sourceID, targetID)
}
