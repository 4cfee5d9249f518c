// Package handlers contains the HTTP handlers of the API.
package handlers

import (
	"net/http"

	"github.com/ndewijer/fundnav/internal/api/response"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health checks that the cache directory is writable.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with model.HealthStatus
// Error: 503 Service Unavailable when the cache cannot be written
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, model.HealthStatus{
			Status:   "unhealthy",
			CacheDir: h.systemService.CacheDir(),
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, model.HealthStatus{
		Status:   "healthy",
		CacheDir: h.systemService.CacheDir(),
	})
}
