package record

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/swasthyaid/health-api/internal/middleware"
	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/service/record"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/httputil"
)

// maxDocumentSize caps uploaded documents at 10 MB.
const maxDocumentSize = 10 << 20

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/workers/:healthId/records", h.AddRecord)
}

// AddRecord accepts multipart form data: the record fields plus an optional
// "file" part holding the encounter document.
func (h *Handler) AddRecord(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	var req model.CreateRecordRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	file, err := h.uploadedFile(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.service.AddRecord(c.Request.Context(), principal, c.Param("healthId"), &req, file)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, result)
}

func (h *Handler) uploadedFile(c *gin.Context) (*record.UploadedFile, error) {
	header, err := c.FormFile("file")
	if err != nil {
		// The document is optional.
		return nil, nil
	}

	if header.Size > maxDocumentSize {
		return nil, apperrors.BadRequest("file exceeds the 10MB limit", nil)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.BadRequest("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.BadRequest("failed to read uploaded file", err)
	}

	return &record.UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}
