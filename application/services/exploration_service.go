// Package services contains the use-case layer: question validation and the
// orchestration of LLM calls, graph mutation and persistence.
package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"nodal-backend/application/ports"
	"nodal-backend/domain/core/aggregates"
	"nodal-backend/domain/core/entities"
	pkgerrors "nodal-backend/pkg/errors"
	"nodal-backend/pkg/observability"
)

// mutationRetryAttempts bounds the read-mutate-write loop when a concurrent
// writer bumps the exploration's version between our read and our write.
const mutationRetryAttempts = 3

// graphPayload is the JSON shape the graph-creation prompt asks the model for
type graphPayload struct {
	Question    string          `json:"question"`
	Description string          `json:"description"`
	Nodes       []entities.Node `json:"nodes"`
	Edges       []entities.Edge `json:"edges"`
}

// ExplorationService orchestrates validation, content generation and graph
// mutation for one request at a time. It holds no per-request state; every
// operation reads the full exploration, mutates it in memory and writes it
// back under an optimistic version check.
type ExplorationService struct {
	repo      ports.ExplorationRepository
	provider  ports.LLMProvider
	validator *QuestionValidator
	settings  ports.Settings
	metrics   *observability.Collector
	tracer    *observability.TracerProvider
	logger    *zap.Logger
}

// NewExplorationService creates the orchestrator
func NewExplorationService(
	repo ports.ExplorationRepository,
	provider ports.LLMProvider,
	validator *QuestionValidator,
	settings ports.Settings,
	metrics *observability.Collector,
	tracer *observability.TracerProvider,
	logger *zap.Logger,
) *ExplorationService {
	return &ExplorationService{
		repo:      repo,
		provider:  provider,
		validator: validator,
		settings:  settings,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// ValidateQuestion runs the quota gate and then the classifier. The quota is
// checked first so a user at the limit is told before any LLM spend.
func (s *ExplorationService) ValidateQuestion(ctx context.Context, userID, question string) (bool, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.ValidateQuestion")
	defer span.End()

	if err := s.checkQuota(ctx, userID); err != nil {
		return false, err
	}

	isValid, err := s.validator.Validate(ctx, question)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if !isValid {
		s.metrics.QuestionsRejected.Inc()
	}
	return isValid, nil
}

// GenerateGraph turns a question into a persisted exploration: derive the
// slug, ask the model for an initial 3-5 node graph, parse the first JSON
// object out of the reply and insert the row. The generation call is not
// retried; a transient failure surfaces to the caller.
func (s *ExplorationService) GenerateGraph(ctx context.Context, userID, question string) (*aggregates.Exploration, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.GenerateGraph")
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pkgerrors.NewValidationError("question is required")
	}

	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	slug := generateSlug(question)

	content, err := s.provider.Complete(ctx, graphCreationSystemPrompt, question, ports.CompletionOptions{
		Model: s.settings.Model(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, pkgerrors.NewExternalError("generator", err)
	}

	var payload graphPayload
	if err := extractJSONObject(content, &payload); err != nil {
		span.RecordError(err)
		return nil, err
	}
	for i := range payload.Nodes {
		if payload.Nodes[i].Type == "" {
			payload.Nodes[i].Type = entities.NodeTypeDefault
		}
	}

	title := payload.Question
	if title == "" {
		title = question
	}

	exploration, err := aggregates.NewExploration(userID, slug, title, payload.Description, payload.Nodes, payload.Edges)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, exploration); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.GraphsGenerated.Inc()
	s.logger.Info("exploration generated",
		zap.String("slug", exploration.Slug()),
		zap.String("userID", userID),
		zap.Int("nodes", exploration.NodeCount()),
		zap.Int("edges", exploration.EdgeCount()),
	)
	return exploration, nil
}

// ExpandNode generates one child node for parentNodeID and attaches it. The
// LLM is called exactly once; only the persistence step loops on version
// conflicts, re-reading the exploration before each retry.
func (s *ExplorationService) ExpandNode(ctx context.Context, userID, slug, parentNodeID, parentContent string) (*entities.Node, *entities.Edge, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.ExpandNode")
	defer span.End()

	if parentNodeID == "" || slug == "" {
		return nil, nil, pkgerrors.NewValidationError("missing required parameters")
	}

	exploration, err := s.loadOwned(ctx, slug, userID)
	if err != nil {
		return nil, nil, err
	}

	parent, err := exploration.FindNode(parentNodeID)
	if err != nil {
		return nil, nil, pkgerrors.NewNotFoundError("parent node")
	}

	detail := parentContent
	if detail == "" {
		detail = parent.Data.Details
	}

	content, err := s.provider.Complete(ctx, nodeExpansionSystemPrompt, buildExpansionPrompt(parent.Data.Label, detail), ports.CompletionOptions{
		Model: s.settings.Model(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, nil, pkgerrors.NewExternalError("generator", err)
	}

	var nodeContent entities.NodeData
	if err := extractJSONObject(content, &nodeContent); err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	var newNode *entities.Node
	var newEdge *entities.Edge
	for attempt := 1; ; attempt++ {
		newNode, newEdge, err = exploration.ExpandNode(parentNodeID, nodeContent)
		if err != nil {
			return nil, nil, err
		}

		err = s.repo.UpdateGraphData(ctx, slug, exploration.Nodes(), exploration.Edges(), exploration.Version())
		if err == nil {
			break
		}
		if !pkgerrors.IsConflict(err) || attempt >= mutationRetryAttempts {
			span.RecordError(err)
			return nil, nil, err
		}

		s.logger.Warn("concurrent update detected, retrying expansion",
			zap.String("slug", slug),
			zap.Int("attempt", attempt),
		)
		exploration, err = s.loadOwned(ctx, slug, userID)
		if err != nil {
			return nil, nil, err
		}
		if _, err := exploration.FindNode(parentNodeID); err != nil {
			// Parent was deleted underneath us.
			return nil, nil, pkgerrors.NewNotFoundError("parent node")
		}
	}

	s.metrics.NodesExpanded.Inc()
	s.logger.Info("node expanded",
		zap.String("slug", slug),
		zap.String("parentNodeID", parentNodeID),
		zap.String("newNodeID", newNode.ID),
	)
	return newNode, newEdge, nil
}

// DeleteNode removes nodeID and its transitive descendants, returning the
// deleted node and edge ids. The root node is never deletable.
func (s *ExplorationService) DeleteNode(ctx context.Context, userID, slug, nodeID string) ([]string, []string, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.DeleteNode")
	defer span.End()

	if nodeID == "" || slug == "" {
		return nil, nil, pkgerrors.NewValidationError("missing required parameters")
	}

	var deletedNodes, deletedEdges map[string]struct{}
	for attempt := 1; ; attempt++ {
		exploration, err := s.loadOwned(ctx, slug, userID)
		if err != nil {
			return nil, nil, err
		}

		deletedNodes, deletedEdges, err = exploration.DeleteSubtree(nodeID)
		if err != nil {
			return nil, nil, err
		}
		exploration.ApplyDeletion(deletedNodes, deletedEdges)

		err = s.repo.UpdateGraphData(ctx, slug, exploration.Nodes(), exploration.Edges(), exploration.Version())
		if err == nil {
			break
		}
		if !pkgerrors.IsConflict(err) || attempt >= mutationRetryAttempts {
			span.RecordError(err)
			return nil, nil, err
		}
		s.logger.Warn("concurrent update detected, retrying deletion",
			zap.String("slug", slug),
			zap.Int("attempt", attempt),
		)
	}

	s.metrics.NodesDeleted.Add(float64(len(deletedNodes)))
	s.logger.Info("subtree deleted",
		zap.String("slug", slug),
		zap.String("nodeID", nodeID),
		zap.Int("deletedNodes", len(deletedNodes)),
		zap.Int("deletedEdges", len(deletedEdges)),
	)
	return sortedKeys(deletedNodes), sortedKeys(deletedEdges), nil
}

// DeleteExploration removes the whole exploration row
func (s *ExplorationService) DeleteExploration(ctx context.Context, userID, slug string) error {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.DeleteExploration")
	defer span.End()

	if _, err := s.loadOwned(ctx, slug, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, slug); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("exploration deleted",
		zap.String("slug", slug),
		zap.String("userID", userID),
	)
	return nil
}

// GetExploration loads one exploration for its owner
func (s *ExplorationService) GetExploration(ctx context.Context, userID, slug string) (*aggregates.Exploration, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.GetExploration")
	defer span.End()

	return s.loadOwned(ctx, slug, userID)
}

// ListExplorations returns the owner's explorations newest first
func (s *ExplorationService) ListExplorations(ctx context.Context, userID string) ([]*aggregates.Exploration, error) {
	ctx, span := s.tracer.StartSpan(ctx, "ExplorationService.ListExplorations")
	defer span.End()

	return s.repo.FindByOwner(ctx, userID)
}

// checkQuota fails when the owner already holds the maximum number of
// explorations
func (s *ExplorationService) checkQuota(ctx context.Context, userID string) error {
	limit := s.settings.MaxExplorationsPerUser()
	count, err := s.repo.CountByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if count >= limit {
		return pkgerrors.NewQuotaExceededError(limit)
	}
	return nil
}

// loadOwned loads an exploration and verifies ownership
func (s *ExplorationService) loadOwned(ctx context.Context, slug, userID string) (*aggregates.Exploration, error) {
	exploration, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !exploration.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("you don't have permission to modify this exploration")
	}
	return exploration, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
