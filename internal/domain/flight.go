package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusCompleted FlightStatus = "completed"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusDelayed, FlightStatusCancelled, FlightStatusCompleted:
		return true
	}
	return false
}

type Flight struct {
	ID               string       `json:"id"`
	FlightNumber     string       `json:"flightNumber"`
	Airline          string       `json:"airline"`
	DepartureAirport string       `json:"departureAirport"`
	ArrivalAirport   string       `json:"arrivalAirport"`
	DepartureCity    string       `json:"departureCity"`
	ArrivalCity      string       `json:"arrivalCity"`
	DepartureTime    time.Time    `json:"departureTime"`
	ArrivalTime      time.Time    `json:"arrivalTime"`
	Price            int64        `json:"price"`
	AvailableSeats   int          `json:"availableSeats"`
	TotalSeats       int          `json:"totalSeats"`
	Aircraft         string       `json:"aircraft"`
	Status           FlightStatus `json:"status"`
	CreatedBy        string       `json:"createdBy"`
	CreatedAt        time.Time    `json:"createdAt"`
}
