package api

import (
	"net/http"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     zerolog.Logger
}

func NewBookingHandler(service booking.BookingUseCase, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	// Public kiosk lookup: reference + last name, no session.
	router.GET("/bookings/check-in", h.checkInLookup)

	authed := router.Group("/bookings", authenticate)
	authed.GET("", h.list)
	authed.POST("", h.create)
	authed.GET("/:id", h.get)
	authed.PATCH("/:id", h.patch)
}

type createBookingRequest struct {
	FlightID   string             `json:"flightId"`
	Passengers []domain.Passenger `json:"passengers"`
	TotalPrice int64              `json:"totalPrice"`
}

type patchBookingRequest struct {
	Action         string                   `json:"action"`
	PassengerSeats []booking.SeatAssignment `json:"passengerSeats"`
	Status         string                   `json:"status"`
	PaymentStatus  string                   `json:"paymentStatus"`
}

func (h *BookingHandler) list(c *gin.Context) {
	claims := ClaimsFrom(c)
	bookings, err := h.service.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, bookings)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := ClaimsFrom(c)
	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		UserID:     claims.UserID,
		FlightID:   req.FlightID,
		Passengers: req.Passengers,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, ok := h.loadOwned(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, found)
}

func (h *BookingHandler) patch(c *gin.Context) {
	found, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req patchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.Action == "cancel":
		updated, err := h.service.Cancel(c.Request.Context(), found.ID)
		if err != nil {
			respondDomainError(c, h.log, err)
			return
		}
		respondData(c, http.StatusOK, updated)
	case req.Action == "check-in":
		if len(req.PassengerSeats) == 0 {
			respondError(c, http.StatusBadRequest, "passenger seats are required")
			return
		}
		updated, err := h.service.CheckIn(c.Request.Context(), found.ID, req.PassengerSeats)
		if err != nil {
			respondDomainError(c, h.log, err)
			return
		}
		respondData(c, http.StatusOK, updated)
	case req.Status != "":
		var paymentStatus *domain.PaymentStatus
		if req.PaymentStatus != "" {
			ps := domain.PaymentStatus(req.PaymentStatus)
			paymentStatus = &ps
		}
		updated, err := h.service.UpdateStatus(c.Request.Context(), found.ID, domain.BookingStatus(req.Status), paymentStatus)
		if err != nil {
			respondDomainError(c, h.log, err)
			return
		}
		respondData(c, http.StatusOK, updated)
	default:
		respondError(c, http.StatusBadRequest, "invalid action")
	}
}

func (h *BookingHandler) checkInLookup(c *gin.Context) {
	reference := c.Query("reference")
	lastName := c.Query("lastName")
	if reference == "" || lastName == "" {
		respondError(c, http.StatusBadRequest, "booking reference and last name are required")
		return
	}

	found, err := h.service.FindForCheckIn(c.Request.Context(), reference, lastName)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, found)
}

// loadOwned fetches the target booking and applies the resource-level
// ownership rule: non-admins only reach their own bookings. Evaluated after
// the role gate and after the load, never before.
func (h *BookingHandler) loadOwned(c *gin.Context) (*domain.Booking, bool) {
	claims := ClaimsFrom(c)
	found, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.log, err)
		return nil, false
	}
	if claims.Role != domain.RoleAdmin && found.UserID != claims.UserID {
		respondError(c, http.StatusForbidden, "not your booking")
		return nil, false
	}
	return found, true
}
