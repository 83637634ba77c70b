package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreateWithSeatDebit persists the booking and debits its seats from the
	// flight in one transaction. Both happen or neither does.
	CreateWithSeatDebit(ctx context.Context, booking *domain.Booking) error
	// CancelWithSeatCredit flips the booking to cancelled/refunded and credits
	// the seats back, guarded so a second cancel never credits twice.
	CancelWithSeatCredit(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error)
	SetCheckedIn(ctx context.Context, id string, passengers []domain.Passenger) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	CountActiveByFlight(ctx context.Context, flightID string) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, flight_id, user_id, passengers, total_price, status, payment_status, checked_in, created_at`

var cancellableStatuses = []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)}

func (r *PGBookingRepository) CreateWithSeatDebit(ctx context.Context, booking *domain.Booking) error {
	seats := booking.Seats()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2
		WHERE id=$1 AND available_seats >= $2`, booking.FlightID, seats)
	if err != nil {
		return fmt.Errorf("debit seats: %w", err)
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, booking.FlightID).Scan(&exists); err != nil {
			return fmt.Errorf("debit seats: %w", err)
		}
		if !exists {
			return domain.ErrFlightNotFound
		}
		return domain.ErrInsufficientSeats
	}

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return fmt.Errorf("encode passengers: %w", err)
	}

	err = tx.QueryRow(ctx, `INSERT INTO bookings (id, reference, flight_id, user_id, passengers, total_price, status, payment_status, checked_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		booking.ID, booking.Reference, booking.FlightID, booking.UserID, passengers,
		booking.TotalPrice, booking.Status, booking.PaymentStatus, booking.CheckedIn).
		Scan(&booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrReferenceTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) CancelWithSeatCredit(ctx context.Context, id string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$2, payment_status=$3
		WHERE id=$1 AND status = ANY($4)
		RETURNING `+bookingColumns,
		id, domain.BookingStatusCancelled, domain.PaymentStatusRefunded, cancellableStatuses)

	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cancel booking: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("cancel booking: %w", err)
		}
		if !exists {
			return nil, domain.ErrBookingNotFound
		}
		return nil, domain.ErrAlreadyCancelled
	}

	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2
		WHERE id=$1 AND available_seats + $2 <= total_seats`, b.FlightID, b.Seats())
	if err != nil {
		return nil, fmt.Errorf("credit seats: %w", err)
	}
	if res.RowsAffected() == 0 {
		return nil, domain.ErrSeatLimitExceeded
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error) {
	var row pgx.Row
	if paymentStatus != nil {
		row = r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, payment_status=$3 WHERE id=$1 RETURNING `+bookingColumns, id, status, *paymentStatus)
	} else {
		row = r.db.QueryRow(ctx, `UPDATE bookings SET status=$2 WHERE id=$1 RETURNING `+bookingColumns, id, status)
	}

	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) SetCheckedIn(ctx context.Context, id string, passengers []domain.Passenger) (*domain.Booking, error) {
	encoded, err := json.Marshal(passengers)
	if err != nil {
		return nil, fmt.Errorf("encode passengers: %w", err)
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings SET passengers=$2, checked_in=TRUE
		WHERE id=$1 AND checked_in=FALSE
		RETURNING `+bookingColumns, id, encoded)

	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("check in booking: %w", err)
		}
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check in booking: %w", err)
		}
		if !exists {
			return nil, domain.ErrBookingNotFound
		}
		return nil, domain.ErrAlreadyCheckedIn
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
}

func (r *PGBookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanBooking(r.db.QueryRow(ctx, query, arg), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CountActiveByFlight(ctx context.Context, flightID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND status = ANY($2)`,
		flightID, cancellableStatuses).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active bookings: %w", err)
	}
	return count, nil
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	var passengers []byte
	if err := row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.UserID, &passengers,
		&b.TotalPrice, &b.Status, &b.PaymentStatus, &b.CheckedIn, &b.CreatedAt); err != nil {
		return err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return fmt.Errorf("decode passengers: %w", err)
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
