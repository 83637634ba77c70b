package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPLocationsClient calls a Skyscanner-style autosuggest endpoint and
// caches responses; location data changes on the order of months.
type HTTPLocationsClient struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	cache    ByteCache
	cacheTTL time.Duration
}

func NewHTTPLocationsClient(baseURL, apiKey string, cache ByteCache, cacheTTL time.Duration) *HTTPLocationsClient {
	return &HTTPLocationsClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (c *HTTPLocationsClient) SearchLocations(ctx context.Context, query, locale, market string) ([]Location, error) {
	if locale == "" {
		locale = "en-US"
	}
	if market == "" {
		market = "US"
	}

	cacheKey := fmt.Sprintf("cache:locations:%s:%s:%s", market, locale, strings.ToLower(query))
	if c.cache != nil {
		if data, err := c.cache.GetBytes(ctx, cacheKey); err == nil && data != nil {
			var cached []Location
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	payload, err := json.Marshal(map[string]any{
		"query": map[string]string{
			"market":     market,
			"locale":     locale,
			"searchTerm": query,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode location query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/apiservices/v3/autosuggest/flights", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locations API returned %d", resp.StatusCode)
	}

	var out struct {
		Places []struct {
			EntityID string `json:"entityId"`
			IataCode string `json:"iataCode"`
			Name     string `json:"name"`
			CityName string `json:"cityName"`
			Country  string `json:"countryId"`
			Type     string `json:"type"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode locations response: %w", err)
	}

	locations := make([]Location, 0, len(out.Places))
	for _, p := range out.Places {
		locations = append(locations, Location{
			EntityID:   p.EntityID,
			IataCode:   p.IataCode,
			Name:       p.Name,
			CityName:   p.CityName,
			CountryID:  p.Country,
			EntityType: p.Type,
		})
	}

	if c.cache != nil {
		if data, err := json.Marshal(locations); err == nil {
			_ = c.cache.SetBytes(ctx, cacheKey, data, c.cacheTTL)
		}
	}
	return locations, nil
}

var _ LocationsClient = (*HTTPLocationsClient)(nil)
