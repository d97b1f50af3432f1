package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeUnauthenticated, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeConflict, http.StatusConflict},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeAggregationFailed, http.StatusInternalServerError},
		{shared.CodePersistenceFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(shared.CodeNotFound, "Student not found", "req-1")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "Student not found", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestResponseJSONShape(t *testing.T) {
	t.Run("message response", func(t *testing.T) {
		raw, err := json.Marshal(NewMessageResponse("created", map[string]int{"n": 1}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"message":"created","data":{"n":1}}`, string(raw))
	})

	t.Run("error response omits data", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponse(shared.CodeForbidden, "Forbidden", ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"FORBIDDEN","message":"Forbidden"}}`, string(raw))
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages)
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: 20}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, PageSize: 100}, PageRequest{Page: 3, PageSize: 500}.Normalize())
}
