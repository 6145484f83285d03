package handlers

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/queryparams"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardHandler sistem yöneticisinin tüm kartvizitleri yönettiği uçlardır.
// Yönetici yetkisi RequireSystem middleware'i tarafından kontrol edilir.
type CardHandler struct {
	service          services.ICardService
	analyticsService services.IAnalyticsService
}

func NewCardHandler(service services.ICardService, analyticsService services.IAnalyticsService) *CardHandler {
	return &CardHandler{service: service, analyticsService: analyticsService}
}

// ListCards GET /dashboard/cards
func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	identity, _ := middlewares.GetIdentity(c)

	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		configslog.Log.Warn("Dashboard - ListCards: query parse error", zap.Error(err))
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.ListCards(c.UserContext(), identity, params)
	if err != nil {
		configslog.Log.Error("Dashboard - ListCards Error", zap.Error(err))
		return err
	}
	return c.JSON(result)
}

// DeleteCard DELETE /dashboard/cards/:id
func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	identity, _ := middlewares.GetIdentity(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}

	if err := h.service.DeleteCard(c.UserContext(), identity, id); err != nil {
		return err
	}
	configslog.SLog.Infof("Dashboard - kartvizit silindi: %s (Yönetici: %s)", id, identity.UserID)
	return c.SendStatus(fiber.StatusNoContent)
}

// CardAnalytics GET /dashboard/analytics/:id
func (h *CardHandler) CardAnalytics(c *fiber.Ctx) error {
	identity, _ := middlewares.GetIdentity(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}

	result, err := h.analyticsService.CardAnalytics(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
