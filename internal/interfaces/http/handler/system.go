package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health, info and feature endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	features  dto.FeatureFlagsResponse
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, db Pinger, features dto.FeatureFlagsResponse) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		features:  features,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse is the liveness and database status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health. An unreachable database yields 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.Response{
				Success: false,
				Data:    HealthResponse{Status: "degraded", Database: "unreachable"},
			})
			return
		}
	}
	h.Success(c, HealthResponse{Status: "ok", Database: "ok"})
}

// GetSystemInfo handles GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Features handles GET /settings/features
func (h *SystemHandler) Features(c *gin.Context) {
	h.Success(c, h.features)
}
