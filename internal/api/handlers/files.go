package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dataviz-ai/chart-insights/internal/api/response"
	"github.com/dataviz-ai/chart-insights/internal/config"
)

// readTabularFile extracts the "file" field from the multipart form, checks
// the extension allow-list and the size ceiling, and reads the payload into
// memory. On failure it writes the error response and returns ok=false.
func readTabularFile(c *gin.Context, cfg *config.UploadConfig) (data []byte, header *multipart.FileHeader, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "file field is required")
		return nil, nil, false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedExt := range cfg.AllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		response.BadRequest(c, "INVALID_FILE_TYPE",
			"invalid file type; upload an Excel, CSV, TSV, or ODS file")
		return nil, nil, false
	}

	if header.Size > cfg.MaxFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds max size of %d bytes", cfg.MaxFileSize), nil)
		return nil, nil, false
	}

	src, err := header.Open()
	if err != nil {
		response.InternalError(c, "failed to open uploaded file")
		return nil, nil, false
	}
	defer src.Close()

	data, err = io.ReadAll(src)
	if err != nil {
		response.InternalError(c, "failed to read uploaded file")
		return nil, nil, false
	}

	return data, header, true
}
