// Package handlers implements the REST endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"nodal-backend/application/services"
	"nodal-backend/pkg/auth"
	"nodal-backend/pkg/common"
)

var validate = validator.New()

type validateQuestionRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

type validateQuestionResponse struct {
	IsValid bool `json:"isValid"`
}

// QuestionHandler serves the pre-flight question classification endpoint
type QuestionHandler struct {
	service *services.ExplorationService
	logger  *zap.Logger
}

func NewQuestionHandler(service *services.ExplorationService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{service: service, logger: logger}
}

// Validate handles POST /api/v1/questions/validate
func (h *QuestionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req validateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	isValid, err := h.service.ValidateQuestion(r.Context(), user.UserID, req.Question)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, validateQuestionResponse{IsValid: isValid})
}
