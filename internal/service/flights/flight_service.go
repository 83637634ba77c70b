package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CreateFlightInput struct {
	FlightNumber     string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	DepartureCity    string
	ArrivalCity      string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Price            int64
	AvailableSeats   int // 0 means "same as TotalSeats"
	TotalSeats       int
	Aircraft         string
	Status           domain.FlightStatus
	CreatedBy        string
}

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error)
	Search(ctx context.Context, departureAirport, arrivalAirport string, date time.Time) ([]domain.Flight, error)
	Update(ctx context.Context, id string, update repository.FlightUpdate) error
	Delete(ctx context.Context, id string) error
	CompleteArrived(ctx context.Context) (int64, error)
}

// FlightCache is the cache-aside interface for flight listings. Keys
// distinguish the plain list from search results.
type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight, ttl time.Duration) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo     repository.FlightRepository
	bookings repository.BookingRepository
	cache    FlightCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewFlightService(repo repository.FlightRepository, bookings repository.BookingRepository, cache FlightCache, cacheTTL time.Duration, log zerolog.Logger) *FlightService {
	return &FlightService{repo: repo, bookings: bookings, cache: cache, cacheTTL: cacheTTL, log: log}
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := validateCreate(&input); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		ID:               uuid.NewString(),
		FlightNumber:     input.FlightNumber,
		Airline:          input.Airline,
		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		DepartureCity:    input.DepartureCity,
		ArrivalCity:      input.ArrivalCity,
		DepartureTime:    input.DepartureTime,
		ArrivalTime:      input.ArrivalTime,
		Price:            input.Price,
		AvailableSeats:   input.AvailableSeats,
		TotalSeats:       input.TotalSeats,
		Aircraft:         input.Aircraft,
		Status:           input.Status,
		CreatedBy:        input.CreatedBy,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	key := fmt.Sprintf("list:%s:%s", filter.Status, filter.Airline)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, flights)
	return flights, nil
}

// Search matches flights on the route departing within the given calendar
// day, bookable statuses only, with seats left.
func (s *FlightService) Search(ctx context.Context, departureAirport, arrivalAirport string, date time.Time) ([]domain.Flight, error) {
	if departureAirport == "" || arrivalAirport == "" {
		return nil, fmt.Errorf("%w: departure and arrival airports are required", domain.ErrValidation)
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	key := fmt.Sprintf("search:%s:%s:%s", departureAirport, arrivalAirport, from.Format("2006-01-02"))
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	flights, err := s.repo.Search(ctx, departureAirport, arrivalAirport, from, to)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, flights)
	return flights, nil
}

func (s *FlightService) Update(ctx context.Context, id string, update repository.FlightUpdate) error {
	if update.Status != nil && !update.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *update.Status)
	}
	if update.Price != nil && *update.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, update); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete refuses while active bookings still reference the flight; the
// operator has to cancel those first.
func (s *FlightService) Delete(ctx context.Context, id string) error {
	active, err := s.bookings.CountActiveByFlight(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrFlightHasBookings
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) CompleteArrived(ctx context.Context) (int64, error) {
	completed, err := s.repo.CompleteArrivedBefore(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if completed > 0 {
		s.invalidate(ctx)
	}
	return completed, nil
}

func validateCreate(input *CreateFlightInput) error {
	switch {
	case input.FlightNumber == "", input.Airline == "", input.Aircraft == "",
		input.DepartureAirport == "", input.ArrivalAirport == "",
		input.DepartureCity == "", input.ArrivalCity == "":
		return fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	case input.DepartureTime.IsZero() || input.ArrivalTime.IsZero():
		return fmt.Errorf("%w: departure and arrival times are required", domain.ErrValidation)
	case input.Price <= 0:
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	case input.TotalSeats <= 0:
		return fmt.Errorf("%w: total seats must be positive", domain.ErrValidation)
	case input.AvailableSeats < 0 || input.AvailableSeats > input.TotalSeats:
		return fmt.Errorf("%w: available seats out of range", domain.ErrValidation)
	}
	if input.AvailableSeats == 0 {
		input.AvailableSeats = input.TotalSeats
	}
	if input.Status == "" {
		input.Status = domain.FlightStatusScheduled
	} else if !input.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
	}
	return nil
}

func (s *FlightService) fromCache(ctx context.Context, key string) []domain.Flight {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetFlights(ctx, key)
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("flight cache read")
		return nil
	}
	return cached
}

func (s *FlightService) toCache(ctx context.Context, key string, flights []domain.Flight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetFlights(ctx, key, flights, s.cacheTTL); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("flight cache write")
	}
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Debug().Err(err).Msg("flight cache invalidate")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
