package ai

import (
	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/internal/service/ai"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/httputil"
)

type TranslateRequest struct {
	MedicalText string `json:"medical_text" binding:"required"`
}

type DocumentRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

type Handler struct {
	service *ai.Service
}

func NewHandler(service *ai.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	aiGroup := r.Group("/ai")
	{
		aiGroup.POST("/translate", h.Translate)
		aiGroup.POST("/summarize", h.Summarize)
		aiGroup.POST("/extract", h.Extract)
	}
}

func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.service.Translate(c.Request.Context(), req.MedicalText)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Summarize(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.service.Summarize(c.Request.Context(), req.FilePath)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Extract(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.service.ExtractText(c.Request.Context(), req.FilePath)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}
