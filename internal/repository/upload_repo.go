package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dataviz-ai/chart-insights/internal/models"
)

// UploadRepository handles data access for upload records.
type UploadRepository struct {
	pool *pgxpool.Pool
}

// NewUploadRepository creates a new upload repository.
func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

// uploadColumns is the canonical column list for uploads, used across all queries.
const uploadColumns = `id, user_id, filename, file_size, sheet_names, first_sheet_name, preview, created_at`

// scanUpload scans a row into an Upload struct using the canonical column order.
func scanUpload(row pgx.Row, upload *models.Upload) error {
	var sheetNames []byte
	err := row.Scan(
		&upload.ID,
		&upload.UserID,
		&upload.Filename,
		&upload.FileSize,
		&sheetNames,
		&upload.FirstSheetName,
		&upload.Preview,
		&upload.CreatedAt,
	)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(sheetNames, &upload.SheetNames); err != nil {
		return fmt.Errorf("decode sheet_names: %w", err)
	}
	return nil
}

// Create inserts a new upload record.
func (r *UploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	if upload == nil {
		return errors.New("upload cannot be nil")
	}

	sheetNames, err := json.Marshal(upload.SheetNames)
	if err != nil {
		return fmt.Errorf("encode sheet_names: %w", err)
	}

	query := `
		INSERT INTO uploads (
			id, user_id, filename, file_size, sheet_names, first_sheet_name, preview, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	_, err = r.pool.Exec(
		ctx, query,
		upload.ID, upload.UserID, upload.Filename, upload.FileSize,
		sheetNames, upload.FirstSheetName, upload.Preview, upload.CreatedAt,
	)
	return err
}

// GetByID retrieves an upload by ID, scoped to the owning user.
// Returns (nil, nil) when no matching upload exists.
func (r *UploadRepository) GetByID(ctx context.Context, userID, uploadID uuid.UUID) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = $1 AND user_id = $2`
	upload := &models.Upload{}
	err := scanUpload(r.pool.QueryRow(ctx, query, uploadID, userID), upload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return upload, nil
}

// ListByUser returns the user's most recent uploads, newest first.
func (r *UploadRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := make([]models.Upload, 0)
	for rows.Next() {
		var upload models.Upload
		if err := scanUpload(rows, &upload); err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}
