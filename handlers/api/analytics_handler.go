package handlers // handlers/api paketi

import (
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler sahibin kendi kartlarına ait analitik uçlarıdır.
type AnalyticsHandler struct {
	service services.IAnalyticsService
}

func NewAnalyticsHandler(service services.IAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// CardAnalytics GET /analytics/:id
func (h *AnalyticsHandler) CardAnalytics(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	result, err := h.service.CardAnalytics(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// CardEngagement GET /analytics/:id/engagement
func (h *AnalyticsHandler) CardEngagement(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	reports, err := h.service.CardEngagementReports(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reports})
}

// OwnerAnalytics GET /analytics/me
func (h *AnalyticsHandler) OwnerAnalytics(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	result, err := h.service.OwnerAnalytics(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
