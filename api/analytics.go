package api

import (
	"net/http"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/analytics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AnalyticsHandler struct {
	service analytics.AnalyticsUseCase
	log     zerolog.Logger
}

func NewAnalyticsHandler(service analytics.AnalyticsUseCase, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, log: log}
}

func (h *AnalyticsHandler) Register(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	router.GET("/analytics", authenticate, RequireRoles(domain.RoleAdmin, domain.RoleAirlineStaff), h.report)
}

func (h *AnalyticsHandler) report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, report)
}
