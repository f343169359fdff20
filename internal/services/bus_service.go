package services

import (
	"context"
	"time"

	"intercity/internal/domain/models"
	"intercity/internal/repositories"
	"intercity/internal/utils"
)

const (
	trendingWindow = 7 * 24 * time.Hour
	trendingLimit  = 6
)

type BusService struct {
	BusRepo         repositories.BusRepository
	DestinationRepo repositories.DestinationRepository
	SearchLogRepo   repositories.SearchLogRepository
	RequestID       string
	Now             func() time.Time
}

// List returns matching buses and records the searched destination. A failed
// search log write does not fail the listing.
func (s BusService) List(ctx context.Context, f models.BusFilter) ([]models.BusListing, error) {
	f.Destination = utils.NormalizeSpace(f.Destination)
	buses, err := s.BusRepo.List(ctx, f)
	if err != nil {
		return nil, dbFailure(err)
	}
	if f.Destination != "" {
		if err := s.SearchLogRepo.Record(ctx, f.Destination, f.Type); err != nil {
			utils.LogEvent(s.RequestID, "buses", "search_log_error", err.Error())
		}
	}
	return buses, nil
}

// Trending ranks routes by searches over the last week.
func (s BusService) Trending(ctx context.Context) ([]models.TrendingRoute, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	routes, err := s.DestinationRepo.Trending(ctx, now().Add(-trendingWindow), trendingLimit)
	if err != nil {
		return nil, dbFailure(err)
	}
	return routes, nil
}
