package service

import (
	"context"

	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/Dan9191/finpyme/internal/models"
)

// Rates returns the current quote snapshot
func (s *Service) Rates() rates.Snapshot {
	return s.rates.Current()
}

// RefreshRates fetches quotes now instead of waiting for the next poll
func (s *Service) RefreshRates(ctx context.Context) rates.Snapshot {
	return s.rates.Refresh(ctx)
}

// Inflation returns the latest monthly inflation figure
func (s *Service) Inflation() models.InflationRate {
	return s.inflation.Latest()
}

// Presets returns the scenario presets
func (s *Service) Presets() []models.Scenario {
	return s.presets
}

// Ping checks the database connection
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
