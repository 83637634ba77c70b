package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateUser          = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrInvalidRole            = errors.New("invalid role")
)

var (
	ErrFlightNotFound    = errors.New("flight not found")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrSeatLimitExceeded = errors.New("available seats would exceed total seats")
	ErrFlightHasBookings = errors.New("flight has active bookings")
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
	ErrAlreadyCheckedIn    = errors.New("booking is already checked in")
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
	ErrInvalidTransition   = errors.New("illegal booking status transition")
	ErrPassengerNotFound   = errors.New("passenger not found for this booking")
	ErrReferenceTaken      = errors.New("booking reference already taken")
)

var ErrValidation = errors.New("validation error")
