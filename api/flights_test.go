package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/avilov/skybooker/internal/service/flights"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, departureAirport, arrivalAirport string, date time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, departureAirport, arrivalAirport, date)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id string, update repository.FlightUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightUseCase) CompleteArrived(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newFlightRouter(service flights.FlightUseCase, claims *token.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewFlightHandler(service, zerolog.Nop())
	handler.Register(engine.Group("/api"), authAs(claims))
	return engine
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, nil)

	stored := []domain.Flight{{ID: "flight-1"}}
	mockService.On("List", mock.Anything, repository.FlightFilter{Status: domain.FlightStatusScheduled}).Return(stored, nil).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/flights?status=scheduled", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_unknownStatus(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/flights?status=boarding", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestFlightHandler_list_becomesSearch(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, nil)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	stored := []domain.Flight{{ID: "flight-1"}}
	mockService.On("Search", mock.Anything, "SVO", "LED", date).Return(stored, nil).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/flights?departure=SVO&arrival=LED&date=2026-09-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "List")
}

func TestFlightHandler_list_searchBadDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/flights?departure=SVO&arrival=LED&date=tomorrow", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, nil)

	mockService.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrFlightNotFound).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/flights/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_create_roleGate(t *testing.T) {
	body, _ := json.Marshal(createFlightRequest{FlightNumber: "SU100"})

	testCases := []struct {
		name         string
		role         domain.Role
		expectedCode int
	}{
		{name: "passenger", role: domain.RolePassenger, expectedCode: http.StatusForbidden},
		{name: "airline staff", role: domain.RoleAirlineStaff, expectedCode: http.StatusCreated},
		{name: "admin", role: domain.RoleAdmin, expectedCode: http.StatusCreated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockFlightUseCase{}
			if tc.expectedCode == http.StatusCreated {
				mockService.On("Create", mock.Anything, mock.Anything).Return(&domain.Flight{ID: "flight-1"}, nil).Once()
			}
			engine := newFlightRouter(mockService, &token.Claims{UserID: "user-1", Role: tc.role})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/flights", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestFlightHandler_create_recordsCreator(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, &token.Claims{UserID: "staff-1", Role: domain.RoleAirlineStaff})

	body, _ := json.Marshal(createFlightRequest{FlightNumber: "SU100"})
	mockService.On("Create", mock.Anything, mock.MatchedBy(func(input flights.CreateFlightInput) bool {
		return input.CreatedBy == "staff-1"
	})).Return(&domain.Flight{ID: "flight-1"}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flights", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_delete_withActiveBookings(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, &token.Claims{UserID: "admin-1", Role: domain.RoleAdmin})

	mockService.On("Delete", mock.Anything, "flight-1").Return(domain.ErrFlightHasBookings).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/flights/flight-1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFlightHandler_update_partial(t *testing.T) {
	mockService := &MockFlightUseCase{}
	engine := newFlightRouter(mockService, &token.Claims{UserID: "staff-1", Role: domain.RoleAirlineStaff})

	delayed := domain.FlightStatusDelayed
	mockService.On("Update", mock.Anything, "flight-1", mock.MatchedBy(func(update repository.FlightUpdate) bool {
		return update.Status != nil && *update.Status == delayed && update.Price == nil
	})).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/flights/flight-1", bytes.NewReader([]byte(`{"status":"delayed"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
