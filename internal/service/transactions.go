package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/repository"
	"github.com/shopspring/decimal"
)

// maxAmount matches the NUMERIC(16,2) amount column
var maxAmount = decimal.New(1, 14)

// TransactionInput is the payload for a new transaction
type TransactionInput struct {
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Type        models.TransactionType `json:"type"`
	CategoryID  int64                  `json:"category_id"`
	Date        string                 `json:"date"` // YYYY-MM-DD or RFC 3339
}

// CreateTransaction validates and stores a transaction for userID
func (s *Service) CreateTransaction(ctx context.Context, userID int64, in TransactionInput) (*models.Transaction, error) {
	var v ValidationError

	description := strings.TrimSpace(in.Description)
	if description == "" {
		v.Add("description", "is required")
	} else if len(description) > 255 {
		v.Add("description", "must have at most 255 characters")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	switch {
	case err != nil:
		v.Add("amount", "must be a decimal number")
	case !amount.IsPositive():
		v.Add("amount", "must be greater than zero")
	case !amount.Equal(amount.Round(2)):
		v.Add("amount", "must have at most two decimals")
	case amount.GreaterThanOrEqual(maxAmount):
		v.Add("amount", "must be less than 100000000000000")
	}

	if !in.Type.Valid() {
		v.Add("type", "must be income or expense")
	}

	date := s.now()
	if in.Date != "" {
		if date, err = parseDate(in.Date, s.now().Location()); err != nil {
			v.Add("date", "must be YYYY-MM-DD or RFC 3339")
		}
	}

	if in.CategoryID != 0 {
		ok, err := s.repo.CategoryExists(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			v.Add("category_id", "does not exist")
		}
	}

	if v.HasErrors() {
		return nil, &v
	}

	tx := &models.Transaction{
		UserID:      userID,
		Description: description,
		Amount:      amount.StringFixed(2),
		Type:        in.Type,
		CategoryID:  in.CategoryID,
		Date:        date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction %d created for user %d: %s %s", tx.ID, userID, tx.Type, tx.Amount)
	return tx, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ListTransactions returns every transaction of userID
func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}

// CategoryInput is the payload for a new category
type CategoryInput struct {
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Color string                 `json:"color"`
}

// CreateCategory validates and stores a category
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	var v ValidationError
	name := strings.TrimSpace(in.Name)
	if name == "" {
		v.Add("name", "is required")
	}
	if !in.Type.Valid() {
		v.Add("type", "must be income or expense")
	}
	if v.HasErrors() {
		return nil, &v
	}

	c := &models.Category{Name: name, Type: in.Type, Color: in.Color}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("name", "already exists")
		}
		return nil, err
	}
	s.log.Infof("Category created: %s", c.Name)
	return c, nil
}

// ListCategories returns every category
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}
