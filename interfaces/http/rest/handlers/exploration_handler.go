package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nodal-backend/application/services"
	"nodal-backend/domain/core/aggregates"
	"nodal-backend/domain/core/entities"
	"nodal-backend/pkg/auth"
	"nodal-backend/pkg/common"
)

type createExplorationRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

type expandNodeRequest struct {
	ParentNodeID      string `json:"parentNodeId" validate:"required"`
	ParentNodeContent string `json:"parentNodeContent"`
}

type explorationResponse struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Nodes       []entities.Node `json:"nodes"`
	Edges       []entities.Edge `json:"edges"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type expandNodeResponse struct {
	NewNode *entities.Node `json:"newNode"`
	NewEdge *entities.Edge `json:"newEdge"`
}

type deleteNodeResponse struct {
	DeletedNodes []string `json:"deletedNodes"`
	DeletedEdges []string `json:"deletedEdges"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ExplorationHandler serves the exploration CRUD and mutation endpoints
type ExplorationHandler struct {
	service *services.ExplorationService
	logger  *zap.Logger
}

func NewExplorationHandler(service *services.ExplorationService, logger *zap.Logger) *ExplorationHandler {
	return &ExplorationHandler{service: service, logger: logger}
}

// Create handles POST /api/v1/graphs
func (h *ExplorationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req createExplorationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	exploration, err := h.service.GenerateGraph(r.Context(), user.UserID, req.Question)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toResponse(exploration))
}

// List handles GET /api/v1/graphs
func (h *ExplorationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	explorations, err := h.service.ListExplorations(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]explorationResponse, 0, len(explorations))
	for _, e := range explorations {
		out = append(out, toResponse(e))
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/graphs/{slug}
func (h *ExplorationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	exploration, err := h.service.GetExploration(r.Context(), user.UserID, chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toResponse(exploration))
}

// Expand handles POST /api/v1/graphs/{slug}/nodes
func (h *ExplorationHandler) Expand(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req expandNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "parentNodeId is required")
		return
	}

	newNode, newEdge, err := h.service.ExpandNode(r.Context(), user.UserID, chi.URLParam(r, "slug"), req.ParentNodeID, req.ParentNodeContent)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, expandNodeResponse{NewNode: newNode, NewEdge: newEdge})
}

// DeleteNode handles POST /api/v1/graphs/{slug}/nodes/{nodeID}/delete
func (h *ExplorationHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	deletedNodes, deletedEdges, err := h.service.DeleteNode(r.Context(), user.UserID, chi.URLParam(r, "slug"), chi.URLParam(r, "nodeID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, deleteNodeResponse{
		DeletedNodes: deletedNodes,
		DeletedEdges: deletedEdges,
	})
}

// Delete handles DELETE /api/v1/graphs/{slug}
func (h *ExplorationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.service.DeleteExploration(r.Context(), user.UserID, chi.URLParam(r, "slug")); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, successResponse{Success: true})
}

func toResponse(e *aggregates.Exploration) explorationResponse {
	return explorationResponse{
		ID:          e.ID(),
		Slug:        e.Slug(),
		Title:       e.Title(),
		Description: e.Description(),
		Nodes:       e.Nodes(),
		Edges:       e.Edges(),
		CreatedAt:   e.CreatedAt(),
	}
}
