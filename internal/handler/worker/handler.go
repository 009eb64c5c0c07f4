package worker

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/internal/middleware"
	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/internal/service/worker"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/httputil"
	"github.com/swasthyaid/health-api/pkg/logger"
)

type Handler struct {
	service    *worker.Service
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
}

func NewHandler(service *worker.Service, outboxRepo repository.OutboxRepository, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		logger:     log,
	}
}

// RegisterRoutes wires the worker routes. Registration is public; the worker
// lookup is doctor-only (hospital portal), the sub-resource listings accept
// any authenticated principal.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	workers := r.Group("/workers")
	{
		workers.POST("", h.Register)

		authed := workers.Group("")
		authed.Use(auth.Authenticate())
		{
			authed.GET("/:healthId", auth.RequireDoctor(), h.Get)
			authed.GET("/:healthId/records", h.Records)
			authed.GET("/:healthId/appointments", h.Appointments)
			authed.GET("/:healthId/documents", h.Documents)
		}
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// Queue the dashboard sync event. Registration has already committed, so
	// a failure here only delays the district aggregates.
	payload, err := json.Marshal(result.Worker)
	if err != nil {
		h.logger.Error(err, "failed to marshal worker for event")
	} else {
		event := &model.OutboxEvent{
			EventType: model.EventWorkerRegistered,
			Payload:   payload,
		}
		if err := h.outboxRepo.Create(c.Request.Context(), event); err != nil {
			h.logger.Error(err, "failed to create outbox event", "health_id", result.HealthID)
		}
	}

	httputil.RespondWithCreated(c, result)
}

func (h *Handler) Get(c *gin.Context) {
	result, err := h.service.GetByHealthID(c.Request.Context(), c.Param("healthId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Records(c *gin.Context) {
	records, err := h.service.Records(c.Request.Context(), c.Param("healthId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) Appointments(c *gin.Context) {
	appointments, err := h.service.Appointments(c.Request.Context(), c.Param("healthId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Documents(c *gin.Context) {
	documents, err := h.service.Documents(c.Request.Context(), c.Param("healthId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, documents)
}
