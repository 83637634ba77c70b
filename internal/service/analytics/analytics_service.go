package analytics

import (
	"context"

	"github.com/avilov/skybooker/internal/repository"
)

// Report is the read-only rollup served to staff dashboards. Staleness is
// fine; it reflects committed data at query time.
type Report struct {
	BookingStats  []repository.BookingStat `json:"bookingStats"`
	FlightStats   []repository.FlightStat  `json:"flightStats"`
	PopularRoutes []repository.RouteStat   `json:"popularRoutes"`
}

type AnalyticsUseCase interface {
	Report(ctx context.Context) (*Report, error)
}

type AnalyticsService struct {
	repo      repository.AnalyticsRepository
	topRoutes int
}

func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, topRoutes: 5}
}

func (s *AnalyticsService) Report(ctx context.Context) (*Report, error) {
	bookingStats, err := s.repo.BookingStats(ctx)
	if err != nil {
		return nil, err
	}
	flightStats, err := s.repo.FlightStats(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := s.repo.TopRoutes(ctx, s.topRoutes)
	if err != nil {
		return nil, err
	}
	return &Report{
		BookingStats:  bookingStats,
		FlightStats:   flightStats,
		PopularRoutes: routes,
	}, nil
}

var _ AnalyticsUseCase = (*AnalyticsService)(nil)
