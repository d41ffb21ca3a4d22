package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/insights"
	"github.com/Dan9191/finpyme/internal/models"
)

// GenerateInsights runs the insight rules over the last six months of a
// user's activity. Every insight is stored and pushed as a notification;
// high-severity ones are also emailed when a mailer is configured.
func (s *Service) GenerateInsights(ctx context.Context, userID int64) ([]models.Insight, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	periods := cashflow.Bucket(txs, models.PeriodMonth, 6, now)
	recent := cashflow.InWindow(txs, models.PeriodMonth, 6, now)

	found := s.generator.Generate(insights.Input{
		Periods:      periods,
		Expenses:     cashflow.Breakdown(recent, cats, models.TransactionExpense),
		Transactions: txs,
		Now:          now,
	})
	if len(found) == 0 {
		return []models.Insight{}, nil
	}

	for i := range found {
		found[i].UserID = userID
	}
	if err := s.repo.CreateInsightsWithNotifications(ctx, found); err != nil {
		return nil, err
	}

	var urgent []models.Insight
	for _, in := range found {
		if in.Severity == models.SeverityHigh {
			urgent = append(urgent, in)
		}
	}

	if len(urgent) > 0 && s.mailer != nil {
		if err := s.mailer.SendInsightAlert(user.Email, user.Username, urgent); err != nil {
			s.log.Warnf("Insight alert for user %d not delivered: %v", userID, err)
		}
	}

	s.log.Infof("Generated %d insights for user %d", len(found), userID)
	return found, nil
}

// ListInsights returns the latest insights of userID
func (s *Service) ListInsights(ctx context.Context, userID int64) ([]models.Insight, error) {
	return s.repo.ListInsights(ctx, userID, 50)
}

// RunInsightJob generates insights for every user. Failures are logged per
// user and do not stop the run.
func (s *Service) RunInsightJob(ctx context.Context) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("insight job: %w", err)
	}
	for _, u := range users {
		if _, err := s.GenerateInsights(ctx, u.ID); err != nil {
			s.log.Errorf("Insight job failed for user %d: %v", u.ID, err)
		}
	}
	s.log.Infof("Insight job finished for %d users", len(users))
	return nil
}
