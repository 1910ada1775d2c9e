// internal/utils/response_test.go
package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
)

func TestServiceErrorResponseStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"policy rejected", apperrors.ErrPolicyRejected, http.StatusUnprocessableEntity, "POLICY_REJECTED"},
		{"insufficient balance", apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
		{"invalid transition", apperrors.ErrInvalidStateTransition, http.StatusConflict, "INVALID_STATE_TRANSITION"},
		{"concurrent modification", apperrors.ErrConcurrentModification, http.StatusConflict, "CONFLICT"},
		{"duplicate request", apperrors.ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_REQUEST"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ServiceErrorResponse(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestWrappedErrorsKeepTheirMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	wrapped := fmt.Errorf("%w: need 54.00 CNC, have 10.00", apperrors.ErrInsufficientBalance)
	ServiceErrorResponse(c, wrapped)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "need 54.00 CNC")
}
