package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dataviz-ai/chart-insights/internal/models"
)

// ChartRepository handles data access for saved chart specifications.
type ChartRepository struct {
	pool *pgxpool.Pool
}

// NewChartRepository creates a new chart repository.
func NewChartRepository(pool *pgxpool.Pool) *ChartRepository {
	return &ChartRepository{pool: pool}
}

const chartColumns = `id, user_id, upload_id, prompt, spec, created_at`

func scanChart(row pgx.Row, chart *models.SavedChart) error {
	return row.Scan(
		&chart.ID,
		&chart.UserID,
		&chart.UploadID,
		&chart.Prompt,
		&chart.Spec,
		&chart.CreatedAt,
	)
}

// Create inserts a saved chart.
func (r *ChartRepository) Create(ctx context.Context, chart *models.SavedChart) error {
	if chart == nil {
		return errors.New("chart cannot be nil")
	}

	query := `
		INSERT INTO saved_charts (id, user_id, upload_id, prompt, spec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(
		ctx, query,
		chart.ID, chart.UserID, chart.UploadID, chart.Prompt, chart.Spec, chart.CreatedAt,
	)
	return err
}

// GetByID retrieves a saved chart, scoped to the owning user.
// Returns (nil, nil) when no matching chart exists.
func (r *ChartRepository) GetByID(ctx context.Context, userID, chartID uuid.UUID) (*models.SavedChart, error) {
	query := `SELECT ` + chartColumns + ` FROM saved_charts WHERE id = $1 AND user_id = $2`
	chart := &models.SavedChart{}
	err := scanChart(r.pool.QueryRow(ctx, query, chartID, userID), chart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return chart, nil
}

// ListByUser returns the user's saved charts, newest first.
func (r *ChartRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SavedChart, error) {
	query := `SELECT ` + chartColumns + ` FROM saved_charts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charts := make([]models.SavedChart, 0)
	for rows.Next() {
		var chart models.SavedChart
		if err := scanChart(rows, &chart); err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}
	return charts, rows.Err()
}

// Delete removes a saved chart, scoped to the owning user. Returns whether a
// row was actually deleted.
func (r *ChartRepository) Delete(ctx context.Context, userID, chartID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_charts WHERE id = $1 AND user_id = $2`, chartID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
