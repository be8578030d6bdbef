package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Upload represents one uploaded tabular file and its stored preview.
// DB columns: id, user_id, filename, file_size, sheet_names, first_sheet_name,
//
//	preview, created_at
type Upload struct {
	ID             uuid.UUID       `json:"upload_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Filename       string          `json:"filename"`
	FileSize       int64           `json:"file_size"`
	SheetNames     []string        `json:"sheet_names"`
	FirstSheetName *string         `json:"first_sheet_name"`
	Preview        json.RawMessage `json:"preview"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SavedChart is a chart specification a user chose to keep.
// DB columns: id, user_id, upload_id, prompt, spec, created_at
type SavedChart struct {
	ID        uuid.UUID       `json:"chart_id"`
	UserID    uuid.UUID       `json:"user_id"`
	UploadID  *uuid.UUID      `json:"upload_id,omitempty"`
	Prompt    string          `json:"prompt"`
	Spec      json.RawMessage `json:"spec"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChartDataset is one series of a chart specification.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	// BackgroundColor is a single color string or a per-point color array,
	// passed through to the renderer untouched.
	BackgroundColor interface{} `json:"backgroundColor,omitempty"`
	BorderColor     string      `json:"borderColor,omitempty"`
}

// ChartSpec is the renderer-agnostic description of one chart, the external
// deliverable of the analysis pipeline. The validator guarantees labels and a
// non-empty dataset list; type membership and dataset/label length agreement
// are left to the rendering layer.
type ChartSpec struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Labels      []string        `json:"labels"`
	Datasets    []ChartDataset  `json:"datasets"`
	Options     json.RawMessage `json:"options,omitempty"`
}
