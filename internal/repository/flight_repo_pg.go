package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightFilter struct {
	Status  domain.FlightStatus
	Airline string
}

// FlightUpdate carries the partial-update fields; nil means unchanged.
type FlightUpdate struct {
	FlightNumber     *string
	Airline          *string
	DepartureAirport *string
	ArrivalAirport   *string
	DepartureCity    *string
	ArrivalCity      *string
	DepartureTime    *time.Time
	ArrivalTime      *time.Time
	Price            *int64
	Aircraft         *string
	Status           *domain.FlightStatus
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	Search(ctx context.Context, departureAirport, arrivalAirport string, from, to time.Time) ([]domain.Flight, error)
	Update(ctx context.Context, id string, update FlightUpdate) error
	Delete(ctx context.Context, id string) error
	AdjustSeats(ctx context.Context, id string, delta int) error
	CompleteArrivedBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure_airport, arrival_airport, departure_city, arrival_city, departure_time, arrival_time, price, available_seats, total_seats, aircraft, status, created_by, created_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (id, flight_number, airline, departure_airport, arrival_airport, departure_city, arrival_city, departure_time, arrival_time, price, available_seats, total_seats, aircraft, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`,
		flight.ID, flight.FlightNumber, flight.Airline, flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureCity, flight.ArrivalCity, flight.DepartureTime, flight.ArrivalTime,
		flight.Price, flight.AvailableSeats, flight.TotalSeats, flight.Aircraft, flight.Status, flight.CreatedBy).
		Scan(&flight.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Airline != "" {
		args = append(args, filter.Airline)
		conds = append(conds, fmt.Sprintf("airline=$%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, departureAirport, arrivalAirport string, from, to time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE departure_airport=$1 AND arrival_airport=$2
		AND departure_time >= $3 AND departure_time <= $4
		AND status = ANY($5)
		AND available_seats > 0
		ORDER BY departure_time`,
		departureAirport, arrivalAirport, from, to,
		[]string{string(domain.FlightStatusScheduled), string(domain.FlightStatusDelayed)})
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Update(ctx context.Context, id string, update FlightUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if update.FlightNumber != nil {
		set("flight_number", *update.FlightNumber)
	}
	if update.Airline != nil {
		set("airline", *update.Airline)
	}
	if update.DepartureAirport != nil {
		set("departure_airport", *update.DepartureAirport)
	}
	if update.ArrivalAirport != nil {
		set("arrival_airport", *update.ArrivalAirport)
	}
	if update.DepartureCity != nil {
		set("departure_city", *update.DepartureCity)
	}
	if update.ArrivalCity != nil {
		set("arrival_city", *update.ArrivalCity)
	}
	if update.DepartureTime != nil {
		set("departure_time", *update.DepartureTime)
	}
	if update.ArrivalTime != nil {
		set("arrival_time", *update.ArrivalTime)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.Aircraft != nil {
		set("aircraft", *update.Aircraft)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE flights SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(" WHERE id=$%d", len(args))

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update flight: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// AdjustSeats applies the seat delta as a single conditional update. The
// floor and ceiling guards live inside the statement, so concurrent callers
// against the same flight serialize on the row and the loser sees zero rows
// affected instead of an oversold counter.
func (r *PGFlightRepository) AdjustSeats(ctx context.Context, id string, delta int) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2
		WHERE id=$1 AND available_seats + $2 >= 0 AND available_seats + $2 <= total_seats`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust seats: %w", err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("adjust seats: %w", err)
	}
	if !exists {
		return domain.ErrFlightNotFound
	}
	if delta < 0 {
		return domain.ErrInsufficientSeats
	}
	return domain.ErrSeatLimitExceeded
}

func (r *PGFlightRepository) CompleteArrivedBefore(ctx context.Context, deadline time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `UPDATE flights SET status=$1
		WHERE status = ANY($2) AND arrival_time <= $3`,
		domain.FlightStatusCompleted,
		[]string{string(domain.FlightStatusScheduled), string(domain.FlightStatusDelayed)},
		deadline)
	if err != nil {
		return 0, fmt.Errorf("complete arrived flights: %w", err)
	}
	return res.RowsAffected(), nil
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime,
		&f.Price, &f.AvailableSeats, &f.TotalSeats, &f.Aircraft, &f.Status, &f.CreatedBy, &f.CreatedAt)
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
