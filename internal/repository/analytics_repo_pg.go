package repository

import (
	"context"
	"fmt"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingStat struct {
	Status  domain.BookingStatus `json:"status"`
	Count   int                  `json:"count"`
	Revenue int64                `json:"revenue"`
}

type FlightStat struct {
	Status domain.FlightStatus `json:"status"`
	Count  int                 `json:"count"`
}

type RouteStat struct {
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	Count            int    `json:"count"`
	Revenue          int64  `json:"revenue"`
}

type AnalyticsRepository interface {
	BookingStats(ctx context.Context) ([]BookingStat, error)
	FlightStats(ctx context.Context) ([]FlightStat, error)
	TopRoutes(ctx context.Context, limit int) ([]RouteStat, error)
}

type PGAnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) AnalyticsRepository {
	return &PGAnalyticsRepository{db: db}
}

// BookingStats counts bookings per status; revenue only sums bookings whose
// payment actually completed.
func (r *PGAnalyticsRepository) BookingStats(ctx context.Context) ([]BookingStat, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*),
		COALESCE(SUM(total_price) FILTER (WHERE payment_status='completed'), 0)
		FROM bookings GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer rows.Close()

	stats := make([]BookingStat, 0)
	for rows.Next() {
		var s BookingStat
		if err := rows.Scan(&s.Status, &s.Count, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan booking stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *PGAnalyticsRepository) FlightStats(ctx context.Context) ([]FlightStat, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM flights GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("flight stats: %w", err)
	}
	defer rows.Close()

	stats := make([]FlightStat, 0)
	for rows.Next() {
		var s FlightStat
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, fmt.Errorf("scan flight stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *PGAnalyticsRepository) TopRoutes(ctx context.Context, limit int) ([]RouteStat, error) {
	rows, err := r.db.Query(ctx, `SELECT f.departure_airport, f.arrival_airport, COUNT(*) AS bookings,
		COALESCE(SUM(b.total_price), 0)
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		GROUP BY f.departure_airport, f.arrival_airport
		ORDER BY bookings DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top routes: %w", err)
	}
	defer rows.Close()

	routes := make([]RouteStat, 0)
	for rows.Next() {
		var s RouteStat
		if err := rows.Scan(&s.DepartureAirport, &s.ArrivalAirport, &s.Count, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan route stat: %w", err)
		}
		routes = append(routes, s)
	}
	return routes, rows.Err()
}

var _ AnalyticsRepository = (*PGAnalyticsRepository)(nil)
