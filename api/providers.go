package api

import (
	"encoding/json"
	"net/http"

	"github.com/avilov/skybooker/internal/provider"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProviderHandler fronts the external flight-data integrations: live offer
// pricing and location autosuggest.
type ProviderHandler struct {
	offers    provider.OffersClient
	locations provider.LocationsClient
	log       zerolog.Logger
}

func NewProviderHandler(offers provider.OffersClient, locations provider.LocationsClient, log zerolog.Logger) *ProviderHandler {
	return &ProviderHandler{offers: offers, locations: locations, log: log}
}

func (h *ProviderHandler) Register(router *gin.RouterGroup) {
	router.POST("/flights/price", h.price)
	router.GET("/locations", h.searchLocations)
}

type priceRequest struct {
	FlightOffers []json.RawMessage `json:"flightOffers"`
}

func (h *ProviderHandler) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.FlightOffers) == 0 {
		respondError(c, http.StatusBadRequest, "valid flight offers are required")
		return
	}

	priced, err := h.offers.PriceOffers(c.Request.Context(), req.FlightOffers)
	if err != nil {
		h.log.Error().Err(err).Msg("price offers")
		respondError(c, http.StatusInternalServerError, "failed to get flight price")
		return
	}
	respondData(c, http.StatusOK, priced)
}

func (h *ProviderHandler) searchLocations(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondError(c, http.StatusBadRequest, "query parameter is required")
		return
	}

	locations, err := h.locations.SearchLocations(c.Request.Context(), query, c.Query("locale"), c.Query("market"))
	if err != nil {
		h.log.Error().Err(err).Msg("search locations")
		respondError(c, http.StatusInternalServerError, "failed to search locations")
		return
	}
	respondData(c, http.StatusOK, locations)
}
