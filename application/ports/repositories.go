// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations.
package ports

import (
	"context"

	"nodal-backend/domain/core/aggregates"
	"nodal-backend/domain/core/entities"
)

// ExplorationRepository persists explorations in the hosted data store
type ExplorationRepository interface {
	// Create inserts a new exploration row
	Create(ctx context.Context, exploration *aggregates.Exploration) error

	// FindBySlug loads one exploration; NOT_FOUND when absent
	FindBySlug(ctx context.Context, slug string) (*aggregates.Exploration, error)

	// FindByOwner lists an owner's explorations newest first
	FindByOwner(ctx context.Context, ownerID string) ([]*aggregates.Exploration, error)

	// CountByOwner counts an owner's explorations, used for the quota gate
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// UpdateGraphData writes the node/edge blobs back, guarded by the
	// expected version; CONFLICT when another writer got there first
	UpdateGraphData(ctx context.Context, slug string, nodes []entities.Node, edges []entities.Edge, expectedVersion int) error

	// Delete removes the exploration row
	Delete(ctx context.Context, slug string) error
}
