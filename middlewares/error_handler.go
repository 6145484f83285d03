package middlewares

import (
	"errors"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler handler'lardan dönen hataları {"error": "..."} gövdeli JSON yanıtlara çevirir.
// Servis hataları uygun durum koduna eşlenir; beklenmeyen hatalar loglanır ve detayı gizlenir.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		configslog.Log.Error("İstek işlenemedi",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// StatusFor hatanın HTTP durum kodunu ve kullanıcıya gösterilecek mesajı döndürür.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	switch {
	case errors.Is(err, services.ErrCardNotFound):
		return fiber.StatusNotFound, services.ErrCardNotFound.Error()
	case errors.Is(err, services.ErrCardNameRequired),
		errors.Is(err, services.ErrCardLayoutNotFound),
		errors.Is(err, services.ErrCardInvalidInput),
		errors.Is(err, services.ErrEngagementInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrCardLimitReached):
		return fiber.StatusPaymentRequired, services.ErrCardLimitReached.Error()
	case errors.Is(err, services.ErrScanPersistFailed):
		return fiber.StatusInternalServerError, services.ErrScanPersistFailed.Error()
	}
	return fiber.StatusInternalServerError, "Sunucu hatası"
}
