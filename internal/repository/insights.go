package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
)

// CreateInsights stores a batch of insights in one transaction
func (r *Repository) CreateInsights(ctx context.Context, insights []models.Insight) error {
	return r.storeInsights(ctx, insights, false)
}

// CreateInsightsWithNotifications stores a batch of insights and one unread
// notification per insight in a single transaction
func (r *Repository) CreateInsightsWithNotifications(ctx context.Context, insights []models.Insight) error {
	return r.storeInsights(ctx, insights, true)
}

func (r *Repository) storeInsights(ctx context.Context, insights []models.Insight, notify bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insightQuery := `
		INSERT INTO ai_insights (user_id, type, severity, title, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	notificationQuery := `
		INSERT INTO notifications (user_id, title, message, kind, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	for i := range insights {
		in := &insights[i]
		in.CreatedAt = now
		if err := tx.QueryRowContext(ctx, insightQuery,
			in.UserID, string(in.Type), string(in.Severity), in.Title, in.Message, in.CreatedAt).Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to create insight: %w", err)
		}
		if !notify {
			continue
		}
		if _, err := tx.ExecContext(ctx, notificationQuery,
			in.UserID, in.Title, in.Message, string(in.Type), false, now); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insights: %w", err)
	}
	return nil
}

// ListInsights returns the most recent insights of a user
func (r *Repository) ListInsights(ctx context.Context, userID int64, limit int) ([]models.Insight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, severity, title, message, created_at
		FROM ai_insights
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	out := []models.Insight{}
	for rows.Next() {
		var in models.Insight
		var typ, severity string
		if err := rows.Scan(&in.ID, &in.UserID, &typ, &severity, &in.Title, &in.Message, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		in.Type, in.Severity = models.InsightType(typ), models.Severity(severity)
		out = append(out, in)
	}
	return out, rows.Err()
}

// CreateNotification stores a new unread notification
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	n.Read = false
	query := `
		INSERT INTO notifications (user_id, title, message, kind, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Kind, n.Read, n.CreatedAt).Scan(&n.ID); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first
func (r *Repository) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, kind, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags a notification of userID as read
func (r *Repository) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = $1 WHERE id = $2 AND user_id = $3`, true, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return expectOneRow(res)
}

// DeleteNotification removes a notification of userID
func (r *Repository) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return expectOneRow(res)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
