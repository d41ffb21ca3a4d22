package repository

import (
	"context"
	"fmt"
	"strings"
)

// Column types differ between the two supported drivers
var dialects = map[string]map[string]string{
	"postgres": {
		"pk":        "BIGSERIAL PRIMARY KEY",
		"timestamp": "TIMESTAMPTZ",
		"amount":    "NUMERIC(16,2)",
		"bool":      "BOOLEAN",
	},
	"sqlite3": {
		"pk":        "INTEGER PRIMARY KEY AUTOINCREMENT",
		"timestamp": "TIMESTAMP",
		"amount":    "TEXT",
		"bool":      "BOOLEAN",
	},
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {pk},
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at {timestamp} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transaction_categories (
		id {pk},
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id {pk},
		user_id BIGINT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		amount {amount} NOT NULL,
		type TEXT NOT NULL,
		category_id BIGINT NOT NULL DEFAULT 0,
		date {timestamp} NOT NULL,
		created_at {timestamp} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date)`,
	`CREATE TABLE IF NOT EXISTS cash_flow_projections (
		id {pk},
		user_id BIGINT NOT NULL REFERENCES users(id),
		scenario TEXT NOT NULL,
		metrics TEXT NOT NULL,
		created_at {timestamp} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ai_insights (
		id {pk},
		user_id BIGINT NOT NULL REFERENCES users(id),
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at {timestamp} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id {pk},
		user_id BIGINT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		kind TEXT NOT NULL,
		read {bool} NOT NULL DEFAULT FALSE,
		created_at {timestamp} NOT NULL
	)`,
}

// Migrate creates missing tables
func (r *Repository) Migrate(ctx context.Context) error {
	types, ok := dialects[r.driver]
	if !ok {
		return fmt.Errorf("unsupported driver %q", r.driver)
	}
	for _, stmt := range schema {
		for k, v := range types {
			stmt = strings.ReplaceAll(stmt, "{"+k+"}", v)
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
