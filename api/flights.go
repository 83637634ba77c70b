package api

import (
	"net/http"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/avilov/skybooker/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type FlightHandler struct {
	service flights.FlightUseCase
	log     zerolog.Logger
}

func NewFlightHandler(service flights.FlightUseCase, log zerolog.Logger) *FlightHandler {
	return &FlightHandler{service: service, log: log}
}

// Register mounts read routes publicly and mutation routes behind the staff
// role gate.
func (h *FlightHandler) Register(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	router.GET("/flights", h.list)
	router.GET("/flights/:id", h.get)

	staff := router.Group("/flights", authenticate, RequireRoles(domain.RoleAdmin, domain.RoleAirlineStaff))
	staff.POST("", h.create)
	staff.PUT("/:id", h.update)
	staff.DELETE("/:id", h.remove)
}

func (h *FlightHandler) list(c *gin.Context) {
	// A departure/arrival/date triple makes this a search; anything else is a
	// filtered listing.
	if c.Query("departure") != "" && c.Query("arrival") != "" && c.Query("date") != "" {
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		result, err := h.service.Search(c.Request.Context(), c.Query("departure"), c.Query("arrival"), date)
		if err != nil {
			respondDomainError(c, h.log, err)
			return
		}
		respondData(c, http.StatusOK, result)
		return
	}

	filter := repository.FlightFilter{
		Status:  domain.FlightStatus(c.Query("status")),
		Airline: c.Query("airline"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(c, http.StatusBadRequest, "unknown flight status")
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, flight)
}

type createFlightRequest struct {
	FlightNumber     string    `json:"flightNumber"`
	Airline          string    `json:"airline"`
	DepartureAirport string    `json:"departureAirport"`
	ArrivalAirport   string    `json:"arrivalAirport"`
	DepartureCity    string    `json:"departureCity"`
	ArrivalCity      string    `json:"arrivalCity"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	Price            int64     `json:"price"`
	AvailableSeats   int       `json:"availableSeats"`
	TotalSeats       int       `json:"totalSeats"`
	Aircraft         string    `json:"aircraft"`
	Status           string    `json:"status"`
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := ClaimsFrom(c)
	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		FlightNumber:     req.FlightNumber,
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureCity:    req.DepartureCity,
		ArrivalCity:      req.ArrivalCity,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		Price:            req.Price,
		AvailableSeats:   req.AvailableSeats,
		TotalSeats:       req.TotalSeats,
		Aircraft:         req.Aircraft,
		Status:           domain.FlightStatus(req.Status),
		CreatedBy:        claims.UserID,
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusCreated, flight)
}

type updateFlightRequest struct {
	FlightNumber     *string    `json:"flightNumber"`
	Airline          *string    `json:"airline"`
	DepartureAirport *string    `json:"departureAirport"`
	ArrivalAirport   *string    `json:"arrivalAirport"`
	DepartureCity    *string    `json:"departureCity"`
	ArrivalCity      *string    `json:"arrivalCity"`
	DepartureTime    *time.Time `json:"departureTime"`
	ArrivalTime      *time.Time `json:"arrivalTime"`
	Price            *int64     `json:"price"`
	Aircraft         *string    `json:"aircraft"`
	Status           *string    `json:"status"`
}

func (h *FlightHandler) update(c *gin.Context) {
	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.FlightUpdate{
		FlightNumber:     req.FlightNumber,
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureCity:    req.DepartureCity,
		ArrivalCity:      req.ArrivalCity,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		Price:            req.Price,
		Aircraft:         req.Aircraft,
	}
	if req.Status != nil {
		status := domain.FlightStatus(*req.Status)
		update.Status = &status
	}

	if err := h.service.Update(c.Request.Context(), c.Param("id"), update); err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, nil)
}

func (h *FlightHandler) remove(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, nil)
}
