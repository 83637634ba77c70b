package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRefunded  BookingStatus = "refunded"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted, BookingStatusRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ActiveBookingStatuses are the statuses that hold seats on a flight.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted}

// bookingTransitions is the allowed status transition table. Cancellation of
// pending and confirmed bookings goes through the ledger's cancel path, which
// additionally credits seats; the table is what staff status updates are
// checked against.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusCompleted: {BookingStatusRefunded},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Passenger struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	PassportNumber string `json:"passportNumber,omitempty"`
	SeatNumber     string `json:"seatNumber,omitempty"`
}

type Booking struct {
	ID            string        `json:"id"`
	Reference     string        `json:"bookingReference"`
	FlightID      string        `json:"flightId"`
	UserID        string        `json:"userId"`
	Passengers    []Passenger   `json:"passengers"`
	TotalPrice    int64         `json:"totalPrice"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CheckedIn     bool          `json:"checkedIn"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Seats is the number of seats this booking holds on its flight, fixed at
// creation.
func (b *Booking) Seats() int {
	return len(b.Passengers)
}
