package api

import (
	"errors"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
)

// Envelope is the uniform JSON response shape: {"success": ..., "data": ...}
// on success, {"success": false, "error": ...} otherwise.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// respondDomainError maps domain sentinels onto HTTP statuses in one place.
// Anything unrecognized is an internal error: logged with its cause, reported
// with a generic message.
func respondDomainError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidCurrentPassword):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPassengerNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateUser),
		errors.Is(err, domain.ErrInsufficientSeats),
		errors.Is(err, domain.ErrSeatLimitExceeded),
		errors.Is(err, domain.ErrFlightHasBookings),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyCheckedIn),
		errors.Is(err, domain.ErrBookingNotConfirmed),
		errors.Is(err, domain.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
