package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dataviz-ai/chart-insights/internal/api/response"
	"github.com/dataviz-ai/chart-insights/internal/models"
	"github.com/dataviz-ai/chart-insights/internal/repository"
	"github.com/dataviz-ai/chart-insights/internal/suggest"
)

// ChartHandler handles saving and retrieving generated chart specifications.
type ChartHandler struct {
	chartRepo *repository.ChartRepository
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(chartRepo *repository.ChartRepository) *ChartHandler {
	return &ChartHandler{chartRepo: chartRepo}
}

type saveChartRequest struct {
	UploadID *uuid.UUID       `json:"upload_id"`
	Prompt   string           `json:"prompt"`
	Spec     models.ChartSpec `json:"spec"`
}

// HandleSaveChart handles POST /api/v1/charts.
func (h *ChartHandler) HandleSaveChart(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req saveChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "invalid request body")
		return
	}

	// Revalidate with the same structural rules the analysis pipeline uses.
	accepted := suggest.Validate([]models.ChartSpec{req.Spec})
	if len(accepted) == 0 {
		response.BadRequest(c, "VALIDATION_ERROR", "chart spec must include labels and at least one dataset")
		return
	}

	specJSON, err := json.Marshal(accepted[0])
	if err != nil {
		response.InternalError(c, "failed to encode chart spec")
		return
	}

	chart := &models.SavedChart{
		ID:        uuid.New(),
		UserID:    userID,
		UploadID:  req.UploadID,
		Prompt:    req.Prompt,
		Spec:      specJSON,
		CreatedAt: time.Now(),
	}

	if err := h.chartRepo.Create(c.Request.Context(), chart); err != nil {
		response.InternalError(c, "failed to save chart")
		return
	}

	response.Success(c, http.StatusCreated, chart)
}

// HandleListCharts handles GET /api/v1/charts.
func (h *ChartHandler) HandleListCharts(c *gin.Context) {
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

	charts, err := h.chartRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		response.InternalError(c, "failed to list charts")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"charts": charts})
}

// HandleDeleteChart handles DELETE /api/v1/charts/:chart_id.
func (h *ChartHandler) HandleDeleteChart(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	chartID, err := uuid.Parse(c.Param("chart_id"))
	if err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "chart_id must be a valid UUID")
		return
	}

	deleted, err := h.chartRepo.Delete(c.Request.Context(), userID, chartID)
	if err != nil {
		response.InternalError(c, "failed to delete chart")
		return
	}
	if !deleted {
		response.NotFound(c, "chart not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
