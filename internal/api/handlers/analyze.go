package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dataviz-ai/chart-insights/internal/api/response"
	"github.com/dataviz-ai/chart-insights/internal/config"
	"github.com/dataviz-ai/chart-insights/internal/suggest"
	"github.com/dataviz-ai/chart-insights/internal/tabular"
)

// AnalyzeHandler runs the full ingestion-to-chart-suggestion pipeline for a
// single uploaded file. Stateless: nothing is persisted.
type AnalyzeHandler struct {
	engine *suggest.Engine
	cfg    *config.Config
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(engine *suggest.Engine, cfg *config.Config) *AnalyzeHandler {
	return &AnalyzeHandler{engine: engine, cfg: cfg}
}

// HandleAnalyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) HandleAnalyze(c *gin.Context) {
	prompt := c.PostForm("prompt")

	data, header, ok := readTabularFile(c, &h.cfg.Upload)
	if !ok {
		return
	}

	table, err := tabular.Read(data, header.Filename)
	if err != nil {
		writeTabularError(c, err)
		return
	}

	_, records, err := tabular.Normalize(table.Rows, tabular.AnalysisRowCap)
	if err != nil {
		writeTabularError(c, err)
		return
	}

	schema := tabular.Infer(records)

	rawSpecs := h.engine.Suggest(c.Request.Context(), prompt, schema, records)
	specs := suggest.Validate(rawSpecs)

	// An empty specs array is a valid outcome: no chartable structure found.
	response.Success(c, http.StatusOK, gin.H{"specs": specs})
}

// writeTabularError maps the ingestion error taxonomy to specific 4xx
// responses; anything unrecognized becomes a generic 500.
func writeTabularError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tabular.ErrNoDataRows):
		response.BadRequest(c, "NO_DATA_ROWS", "file contains only headers, no data rows found")
	case errors.Is(err, tabular.ErrNoSheets):
		response.BadRequest(c, "NO_SHEETS_FOUND", "no sheets found in workbook")
	case errors.Is(err, tabular.ErrUnreadable):
		response.BadRequest(c, "UNREADABLE_FILE", "file could not be parsed; it may be corrupt or in an unsupported format")
	default:
		response.InternalError(c, "analysis failed")
	}
}
