package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "nodal-backend/pkg/errors"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"slug": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"slug":"abc"}`, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusBadRequest, "question is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"question is required"}`, rec.Body.String())
}

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error",
			err:        pkgerrors.NewValidationError("the root node cannot be deleted"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"the root node cannot be deleted"}`,
		},
		{
			name:       "not found",
			err:        pkgerrors.NewNotFoundError("exploration"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"exploration not found"}`,
		},
		{
			name:       "quota",
			err:        pkgerrors.NewQuotaExceededError(4),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"you have reached the maximum number of explorations (4)"}`,
		},
		{
			name:       "conflict",
			err:        pkgerrors.NewConflictError("exploration was modified concurrently"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"exploration was modified concurrently"}`,
		},
		{
			name:       "unknown error is masked",
			err:        errors.New("pq: secret connection string"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondAppError(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
