package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/kafka"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SeatAssignment struct {
	Index      int    `json:"index"`
	SeatNumber string `json:"seatNumber"`
}

type CreateBookingInput struct {
	UserID     string
	FlightID   string
	Passengers []domain.Passenger
	TotalPrice int64
}

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error)
	CheckIn(ctx context.Context, id string, assignments []SeatAssignment) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	// FindForCheckIn looks a booking up by reference and matches lastName
	// case-insensitively against its passenger list.
	FindForCheckIn(ctx context.Context, reference, lastName string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	refLength          int
	log                zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	bookingTopic string,
	refLength int,
	log zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	if refLength <= 0 {
		refLength = 6
	}
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		producer:     producer,
		bookingTopic: bookingTopic,
		refLength:    refLength,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// createAttempts bounds the reference-collision retry loop. With 36^6 codes
// hitting this more than once is already statistically remarkable.
const createAttempts = 5

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	// Existence check up front so callers get a clean 404; the seat check is
	// NOT done here. The repository folds it into the conditional debit, so
	// concurrent creates cannot both pass a stale read.
	if _, err := s.flights.GetByID(ctx, input.FlightID); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		FlightID:      input.FlightID,
		UserID:        input.UserID,
		Passengers:    input.Passengers,
		TotalPrice:    input.TotalPrice,
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusCompleted,
		CheckedIn:     false,
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		booking.Reference, err = generateReference(s.refLength)
		if err != nil {
			return nil, err
		}
		err = s.bookings.CreateWithSeatDebit(ctx, booking)
		if !errors.Is(err, domain.ErrReferenceTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.CancelWithSeatCredit(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", booking)
	return booking, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrValidation, *paymentStatus)
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status, paymentStatus)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_status_changed", updated)
	return updated, nil
}

func (s *BookingService) CheckIn(ctx context.Context, id string, assignments []SeatAssignment) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.CheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if current.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrBookingNotConfirmed
	}

	// Tolerant merge: assignments pointing outside the passenger list are
	// ignored, matching the lenient check-in form behavior.
	passengers := make([]domain.Passenger, len(current.Passengers))
	copy(passengers, current.Passengers)
	for _, a := range assignments {
		if a.Index >= 0 && a.Index < len(passengers) {
			passengers[a.Index].SeatNumber = a.SeatNumber
		}
	}

	updated, err := s.bookings.SetCheckedIn(ctx, id, passengers)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_checked_in", updated)
	return updated, nil
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) FindForCheckIn(ctx context.Context, reference, lastName string) (*domain.Booking, error) {
	if reference == "" || lastName == "" {
		return nil, fmt.Errorf("%w: booking reference and last name are required", domain.ErrValidation)
	}

	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	for _, p := range booking.Passengers {
		if strings.EqualFold(p.LastName, lastName) {
			return booking, nil
		}
	}
	return nil, domain.ErrPassengerNotFound
}

func validateCreate(input CreateBookingInput) error {
	if input.FlightID == "" {
		return fmt.Errorf("%w: flight id is required", domain.ErrValidation)
	}
	if len(input.Passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}
	for i, p := range input.Passengers {
		if p.FirstName == "" || p.LastName == "" {
			return fmt.Errorf("%w: passenger %d is missing a name", domain.ErrValidation, i)
		}
	}
	if input.TotalPrice <= 0 {
		return fmt.Errorf("%w: total price must be positive", domain.ErrValidation)
	}
	return nil
}

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateReference(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return string(buf), nil
}

// publish emits a lifecycle event. Publish failures are logged and swallowed:
// the booking state is already committed and the caller's response must not
// depend on the broker.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		FlightID:   booking.FlightID,
		UserID:     booking.UserID,
		Seats:      booking.Seats(),
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
	}
	if len(booking.Passengers) > 0 {
		event.Email = booking.Passengers[0].Email
	}

	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.log.Warn().Err(err).Str("reference", booking.Reference).Str("type", eventType).Msg("publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.log.Warn().Err(err).Str("reference", booking.Reference).Str("type", eventType).Msg("publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
