// Package supabase persists explorations in the hosted knowledge_maps table
// through the PostgREST API.
package supabase

import (
	"context"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"nodal-backend/domain/core/aggregates"
	"nodal-backend/domain/core/entities"
	pkgerrors "nodal-backend/pkg/errors"
)

// explorationRow mirrors the knowledge_maps table. Nodes and edges are
// stored as JSON text blobs, not foreign-keyed rows.
type explorationRow struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Nodes       string    `json:"nodes"`
	Edges       string    `json:"edges"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExplorationRepository implements ports.ExplorationRepository on Supabase.
type ExplorationRepository struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

func NewExplorationRepository(client *supa.Client, table string, logger *zap.Logger) *ExplorationRepository {
	return &ExplorationRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Create inserts a new exploration row. A duplicate slug surfaces as a
// conflict rather than a generic database error.
func (r *ExplorationRepository) Create(ctx context.Context, exploration *aggregates.Exploration) error {
	row, err := r.toRow(exploration)
	if err != nil {
		return pkgerrors.NewDatabaseError("create exploration", err)
	}

	_, _, err = r.client.From(r.table).
		Insert(row, false, "", "minimal", "").
		ExecuteWithContext(ctx)
	if err != nil {
		r.logger.Error("failed to insert exploration",
			zap.String("slug", exploration.Slug()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("create exploration", err)
	}
	return nil
}

// FindBySlug loads a single exploration or a not-found error.
func (r *ExplorationRepository) FindBySlug(ctx context.Context, slug string) (*aggregates.Exploration, error) {
	var rows []explorationRow
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("slug", slug).
		Limit(1, "").
		ExecuteToWithContext(ctx, &rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("find exploration", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("exploration")
	}
	return r.fromRow(rows[0]), nil
}

// FindByOwner returns the owner's explorations, newest first.
func (r *ExplorationRepository) FindByOwner(ctx context.Context, ownerID string) ([]*aggregates.Exploration, error) {
	var rows []explorationRow
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteToWithContext(ctx, &rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list explorations", err)
	}

	explorations := make([]*aggregates.Exploration, 0, len(rows))
	for _, row := range rows {
		explorations = append(explorations, r.fromRow(row))
	}
	return explorations, nil
}

// CountByOwner counts the owner's explorations for quota enforcement.
func (r *ExplorationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	_, count, err := r.client.From(r.table).
		Select("id", "exact", false).
		Eq("user_id", ownerID).
		ExecuteWithContext(ctx)
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("count explorations", err)
	}
	return int(count), nil
}

// UpdateGraphData writes new node and edge blobs, guarded by the row
// version. The filter matches only the version the caller read; when a
// concurrent writer got there first no row matches and the caller gets a
// conflict to retry against fresh state.
func (r *ExplorationRepository) UpdateGraphData(ctx context.Context, slug string, nodes []entities.Node, edges []entities.Edge, expectedVersion int) error {
	nodeBlob, err := encodeNodes(nodes)
	if err != nil {
		return pkgerrors.NewDatabaseError("update exploration", err)
	}
	edgeBlob, err := encodeEdges(edges)
	if err != nil {
		return pkgerrors.NewDatabaseError("update exploration", err)
	}

	patch := map[string]any{
		"nodes":   nodeBlob,
		"edges":   edgeBlob,
		"version": expectedVersion + 1,
	}

	var updated []explorationRow
	_, err = r.client.From(r.table).
		Update(patch, "representation", "").
		Eq("slug", slug).
		Eq("version", strconv.Itoa(expectedVersion)).
		ExecuteToWithContext(ctx, &updated)
	if err != nil {
		r.logger.Error("failed to update exploration",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("update exploration", err)
	}
	if len(updated) == 0 {
		return pkgerrors.NewConflictError("exploration was modified concurrently")
	}
	return nil
}

// Delete removes an exploration row by slug.
func (r *ExplorationRepository) Delete(ctx context.Context, slug string) error {
	var deleted []explorationRow
	_, err := r.client.From(r.table).
		Delete("representation", "").
		Eq("slug", slug).
		ExecuteToWithContext(ctx, &deleted)
	if err != nil {
		return pkgerrors.NewDatabaseError("delete exploration", err)
	}
	if len(deleted) == 0 {
		return pkgerrors.NewNotFoundError("exploration")
	}
	return nil
}

func (r *ExplorationRepository) toRow(exploration *aggregates.Exploration) (explorationRow, error) {
	nodes, err := encodeNodes(exploration.Nodes())
	if err != nil {
		return explorationRow{}, err
	}
	edges, err := encodeEdges(exploration.Edges())
	if err != nil {
		return explorationRow{}, err
	}
	return explorationRow{
		ID:          exploration.ID(),
		Slug:        exploration.Slug(),
		UserID:      exploration.OwnerID(),
		Title:       exploration.Title(),
		Description: exploration.Description(),
		Nodes:       nodes,
		Edges:       edges,
		Version:     exploration.Version(),
		CreatedAt:   exploration.CreatedAt(),
	}, nil
}

func (r *ExplorationRepository) fromRow(row explorationRow) *aggregates.Exploration {
	return aggregates.ReconstructExploration(
		row.ID,
		row.Slug,
		row.UserID,
		row.Title,
		row.Description,
		decodeNodes(row.Nodes, row.Slug, r.logger),
		decodeEdges(row.Edges, row.Slug, r.logger),
		row.Version,
		row.CreatedAt,
	)
}
