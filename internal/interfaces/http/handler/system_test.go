package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func systemEngine(h *SystemHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/system/info", h.GetSystemInfo)
	r.GET("/settings/features", h.Features)
	return r
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		status   int
		database string
	}{
		{"database reachable", nil, http.StatusOK, "ok"},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockPinger)
			db.On("Ping", mock.Anything).Return(tt.pingErr)

			w := httptest.NewRecorder()
			systemEngine(NewSystemHandler("edusuite", "test", db, dto.FeatureFlagsResponse{})).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal([]byte(extractData(t, w)), &got))
			assert.Equal(t, tt.database, got.Database)
			assert.NotContains(t, w.Body.String(), "dial tcp")
			db.AssertExpectations(t)
		})
	}
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	w := httptest.NewRecorder()
	systemEngine(NewSystemHandler("edusuite", "1.2.0", nil, dto.FeatureFlagsResponse{})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

	var got SystemInfoResponse
	data(t, w, &got)
	assert.Equal(t, "edusuite", got.Name)
	assert.Equal(t, "1.2.0", got.Version)
	assert.NotEmpty(t, got.GoVersion)
	assert.NotEmpty(t, got.Uptime)
}

func TestSystemHandler_Features(t *testing.T) {
	w := httptest.NewRecorder()
	systemEngine(NewSystemHandler("edusuite", "test", nil, dto.FeatureFlagsResponse{ReportsEnabled: true})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/features", nil))

	assert.JSONEq(t, `{"reports_enabled":true}`, extractData(t, w))
}
