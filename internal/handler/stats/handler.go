package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/internal/service/stats"
	"github.com/swasthyaid/health-api/pkg/httputil"
)

type Handler struct {
	service *stats.Service
}

func NewHandler(service *stats.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.PortalStats)
	r.GET("/stats/districts", h.DistrictStats)
}

func (h *Handler) PortalStats(c *gin.Context) {
	result, err := h.service.PortalStats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) DistrictStats(c *gin.Context) {
	result, err := h.service.Districts(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
