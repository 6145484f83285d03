package handlers // handlers/public paketi

import (
	"errors"
	"strings"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/scancode"
	"kartvizit.link/pkg/vcard"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicCardHandler kimlik doğrulaması gerektirmeyen kartvizit sayfalarını sunar.
type PublicCardHandler struct {
	cardService      services.ICardService
	analyticsService services.IAnalyticsService
}

func NewPublicCardHandler(cardService services.ICardService, analyticsService services.IAnalyticsService) *PublicCardHandler {
	return &PublicCardHandler{cardService: cardService, analyticsService: analyticsService}
}

func (h *PublicCardHandler) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Kartvizit Bulunamadı"}, "layouts/public")
}

func layoutName(card *models.Card) string {
	if card.Layout != nil && card.Layout.Name != "" {
		return card.Layout.Name
	}
	return models.LayoutNameClassic
}

// Preview GET /c/:id. Sayfa, görüntüleme süresini bir kez bildiren betiği içerir.
func (h *PublicCardHandler) Preview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.renderNotFound(c)
	}

	card, err := h.cardService.GetPublicCard(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			return h.renderNotFound(c)
		}
		configslog.Log.Error("Preview: kart alınamadı", zap.String("card_id", id.String()), zap.Error(err))
		return err
	}

	fields := card.FieldList()
	visible := make(models.CardFields, 0, len(fields))
	for _, f := range fields {
		if f.Name == models.FieldProfileImage || strings.TrimSpace(f.Value) == "" {
			continue
		}
		visible = append(visible, f)
	}

	subtitle := strings.TrimSpace(strings.Join([]string{fields.Get(models.FieldJobTitle), fields.Get(models.FieldCompanyName)}, " · "))
	subtitle = strings.Trim(subtitle, " ·")

	return c.Render("public/card", fiber.Map{
		"Title":        vcard.FullName(fields),
		"FullName":     vcard.FullName(fields),
		"Subtitle":     subtitle,
		"ProfileImage": fields.Get(models.FieldProfileImage),
		"LayoutName":   layoutName(card),
		"Fields":       visible,
		"VCardURL":     scancode.PreviewPath + id.String() + "/vcard",
		"TimeSpentURL": scancode.ScanPath + id.String() + "/time-spent",
		"ViewID":       uuid.NewString(),
	}, "layouts/public")
}

// SendVCard kartı indirilebilir .vcf olarak yazar.
func SendVCard(c *fiber.Ctx, card *models.Card) error {
	fields := card.FieldList()
	c.Set(fiber.HeaderContentType, "text/vcard; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+vcard.FileName(fields)+`"`)
	return c.SendString(vcard.Serialize(fields, card.LayoutID))
}

// VCard GET /c/:id/vcard
func (h *PublicCardHandler) VCard(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}
	card, err := h.cardService.GetPublicCard(c.UserContext(), id)
	if err != nil {
		return err
	}
	return SendVCard(c, card)
}

// Analytics GET /public/analytics/:id
func (h *PublicCardHandler) Analytics(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}
	result, err := h.analyticsService.PublicCardAnalytics(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
