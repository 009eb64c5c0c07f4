package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/service/otp"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/httputil"
)

type Handler struct {
	otpSvc *otp.Service
}

func NewHandler(otpSvc *otp.Service) *Handler {
	return &Handler{otpSvc: otpSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/otp/send", h.SendOTP)
		auth.POST("/otp/verify", h.VerifyOTP)
	}
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req model.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.otpSvc.Issue(c.Request.Context(), req.MobileNumber)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.otpSvc.Verify(c.Request.Context(), req.MobileNumber, req.OTP)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}
