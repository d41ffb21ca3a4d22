package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
)

// CreateProjection stores a computed projection
func (r *Repository) CreateProjection(ctx context.Context, p *models.SavedProjection) error {
	scenario, err := json.Marshal(p.Scenario)
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	metrics, err := json.Marshal(p.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	p.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO cash_flow_projections (user_id, scenario, metrics, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, p.UserID, string(scenario), string(metrics), p.CreatedAt).Scan(&p.ID); err != nil {
		return fmt.Errorf("failed to create projection: %w", err)
	}
	return nil
}

// ListProjections returns a user's saved projections, newest first
func (r *Repository) ListProjections(ctx context.Context, userID int64) ([]models.SavedProjection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, scenario, metrics, created_at
		FROM cash_flow_projections
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	defer rows.Close()

	out := []models.SavedProjection{}
	for rows.Next() {
		var p models.SavedProjection
		var scenario, metrics string
		if err := rows.Scan(&p.ID, &p.UserID, &scenario, &metrics, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		if err := json.Unmarshal([]byte(scenario), &p.Scenario); err != nil {
			return nil, fmt.Errorf("failed to decode scenario %d: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(metrics), &p.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics %d: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
