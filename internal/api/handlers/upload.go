package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dataviz-ai/chart-insights/internal/api/response"
	"github.com/dataviz-ai/chart-insights/internal/config"
	"github.com/dataviz-ai/chart-insights/internal/models"
	"github.com/dataviz-ai/chart-insights/internal/repository"
	"github.com/dataviz-ai/chart-insights/internal/tabular"
)

// UploadHandler handles tabular file uploads and upload history.
type UploadHandler struct {
	uploadRepo *repository.UploadRepository
	cfg        *config.Config
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadRepo *repository.UploadRepository, cfg *config.Config) *UploadHandler {
	return &UploadHandler{uploadRepo: uploadRepo, cfg: cfg}
}

// HandleUpload handles POST /api/v1/uploads.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	data, header, ok := readTabularFile(c, &h.cfg.Upload)
	if !ok {
		return
	}

	table, err := tabular.Read(data, header.Filename)
	if err != nil {
		writeTabularError(c, err)
		return
	}

	preview, err := tabular.BuildPreview(table)
	if err != nil {
		writeTabularError(c, err)
		return
	}

	previewJSON, err := json.Marshal(preview)
	if err != nil {
		response.InternalError(c, "failed to encode preview")
		return
	}

	upload := &models.Upload{
		ID:             uuid.New(),
		UserID:         userID,
		Filename:       header.Filename,
		FileSize:       header.Size,
		SheetNames:     table.Sheets,
		FirstSheetName: preview.FirstSheetName,
		Preview:        previewJSON,
		CreatedAt:      time.Now(),
	}

	if err := h.uploadRepo.Create(c.Request.Context(), upload); err != nil {
		response.InternalError(c, fmt.Sprintf("failed to create upload record: %v", err))
		return
	}

	response.Success(c, http.StatusCreated, upload)
}

// HandleListUploads handles GET /api/v1/uploads.
func (h *UploadHandler) HandleListUploads(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.BadRequest(c, "VALIDATION_ERROR", "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	uploads, err := h.uploadRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		response.InternalError(c, "failed to list uploads")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"uploads": uploads})
}

// HandleGetUpload handles GET /api/v1/uploads/:upload_id.
func (h *UploadHandler) HandleGetUpload(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	uploadID, err := uuid.Parse(c.Param("upload_id"))
	if err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "upload_id must be a valid UUID")
		return
	}

	upload, err := h.uploadRepo.GetByID(c.Request.Context(), userID, uploadID)
	if err != nil {
		response.InternalError(c, "failed to fetch upload")
		return
	}
	if upload == nil {
		response.NotFound(c, "upload not found")
		return
	}

	response.Success(c, http.StatusOK, upload)
}
