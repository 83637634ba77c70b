// Package provider wraps the external flight-data APIs the app consults for
// live pricing and location autosuggest. Both are opaque collaborators: the
// app forwards their JSON and never persists it.
package provider

import (
	"context"
	"encoding/json"
	"time"
)

type Location struct {
	EntityID   string `json:"entityId"`
	IataCode   string `json:"iataCode"`
	Name       string `json:"name"`
	CityName   string `json:"cityName"`
	CountryID  string `json:"countryId"`
	EntityType string `json:"entityType"`
}

type OffersClient interface {
	// PriceOffers confirms current pricing for previously searched offers.
	PriceOffers(ctx context.Context, offers []json.RawMessage) (json.RawMessage, error)
}

type LocationsClient interface {
	SearchLocations(ctx context.Context, query, locale, market string) ([]Location, error)
}

// ByteCache caches raw provider responses; nil value means miss.
type ByteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
