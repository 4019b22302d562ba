package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-vet-clinic/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"field validation", apperror.ValidationField("weight_kg", "must be positive"), http.StatusBadRequest, "Validation failed"},
		{"plain validation", apperror.Validation("bad request", nil), http.StatusBadRequest, "bad request"},
		{"not found", apperror.NotFound("patient not found"), http.StatusNotFound, "patient not found"},
		{"wrapped conflict", fmt.Errorf("discharge: %w", apperror.Conflict("hospitalization is not active")), http.StatusConflict, "discharge: hospitalization is not active"},
		{"forbidden", apperror.Forbidden("insufficient permissions"), http.StatusForbidden, "insufficient permissions"},
		{"unauthenticated", apperror.Unauthenticated("authentication required"), http.StatusUnauthorized, "authentication required"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestFromError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, apperror.ValidationField("vet_id", "vet_id is required"))

	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"vet_id": "vet_id is required"}, body.Error)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusOf(apperror.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(apperror.KindInternal))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(apperror.Kind("unknown")))
}
