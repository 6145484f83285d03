package handlers

import (
	"errors"
	"net"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/pkg/geo"
	"kartvizit.link/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// TimeSpentRequest önizleme sayfasının gönderdiği süre bildirimidir.
type TimeSpentRequest struct {
	TimeSpent *int   `json:"timeSpent" validate:"required,gte=0"`
	ViewID    string `json:"viewId" validate:"max=64"`
}

// ScanHandler anonim tarayıcılardan gelen scan ve süre bildirimlerini karşılar.
type ScanHandler struct {
	scanService       services.IScanService
	engagementService services.IEngagementService
	linker            services.IScanLinkService
}

func NewScanHandler(scanService services.IScanService, engagementService services.IEngagementService, linker services.IScanLinkService) *ScanHandler {
	return &ScanHandler{scanService: scanService, engagementService: engagementService, linker: linker}
}

// SourceAddress ilk X-Forwarded-For girdisini, yoksa bağlantı adresini normalize ederek döndürür.
// Başlıktaki değer geçerli bir IP değilse yok sayılır.
func SourceAddress(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if addr := geo.NormalizeAddress(forwarded); net.ParseIP(addr) != nil {
			return addr
		}
	}
	return geo.NormalizeAddress(c.IP())
}

func parseRecordID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}
	return id, nil
}

// Scan GET /scan/:id. Kart bulunamasa da event yazılır ve önizlemeye yönlendirilir;
// tek hata yolu kaydın yazılamamasıdır.
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	id, err := parseRecordID(c)
	if err != nil {
		return err
	}

	_, err = h.scanService.Ingest(c.UserContext(), services.ScanRequest{
		CardID:        id,
		SourceAddress: SourceAddress(c),
		ClientAgent:   c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}
	return c.Redirect(h.linker.PreviewURL(id), fiber.StatusFound)
}

// TimeSpent POST /scan/:id/time-spent. Kabul edilen her bildirim 200 alır.
func (h *ScanHandler) TimeSpent(c *fiber.Ctx) error {
	id, err := parseRecordID(c)
	if err != nil {
		return err
	}

	// sendBeacon bazı tarayıcılarda text/plain gönderir; içerik tipine bakmadan JSON çözülür.
	var req TimeSpentRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "timeSpent sıfır veya pozitif bir tam sayı olmalı")
	}

	if _, err := h.engagementService.ReportDuration(c.UserContext(), id, *req.TimeSpent, req.ViewID, SourceAddress(c)); err != nil {
		if errors.Is(err, services.ErrEngagementInvalidInput) {
			return err
		}
		configslog.Log.Warn("Süre bildirimi işlenemedi", zap.String("card_id", id.String()), zap.Error(err))
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
