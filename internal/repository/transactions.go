package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
)

// CreateTransaction stores a new transaction
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO transactions (user_id, description, amount, type, category_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		tx.UserID, tx.Description, tx.Amount, string(tx.Type), tx.CategoryID, tx.Date.UTC(), tx.CreatedAt).
		Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactions returns a user's transactions, oldest first
func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, type, category_id, date, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var typ string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Description, &tx.Amount, &typ, &tx.CategoryID, &tx.Date, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = models.TransactionType(typ)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// CreateCategory stores a new category
func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO transaction_categories (name, type, color)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.Name, string(c.Type), c.Color).Scan(&c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories returns every category ordered by name
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, color
		FROM transaction_categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &typ, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Type = models.TransactionType(typ)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CategoryExists reports whether a category id is known
func (r *Repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transaction_categories WHERE id = $1`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return n > 0, nil
}
