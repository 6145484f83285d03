package handlers // handlers/api paketi

import (
	"kartvizit.link/configs/configslog"
	publichandlers "kartvizit.link/handlers/public"
	"kartvizit.link/middlewares"
	"kartvizit.link/models"
	"kartvizit.link/pkg/auth"
	"kartvizit.link/pkg/queryparams"
	"kartvizit.link/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

type CardFieldRequest struct {
	Name  string `json:"name" validate:"required,max=64"`
	Value string `json:"value" validate:"max=2000"`
}

// CardRequest oluşturma ve tam güncelleme için aynı gövdedir.
type CardRequest struct {
	LayoutID uint               `json:"layoutId" validate:"required,gte=1"`
	Fields   []CardFieldRequest `json:"fields" validate:"required,min=1,dive"`
}

func (r CardRequest) toFields() models.CardFields {
	fields := make(models.CardFields, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, models.CardField{Name: f.Name, Value: f.Value})
	}
	return fields
}

func parseCardRequest(c *fiber.Ctx) (CardRequest, error) {
	var req CardRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if err := validate.Struct(req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return req, nil
}

// validationMessage ilk doğrulama hatasını okunur bir mesaja çevirir.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Geçersiz girdi"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required", "min":
		return fe.Field() + " alanı zorunludur"
	case "max":
		return fe.Field() + " alanı çok uzun"
	default:
		return fe.Field() + " alanı geçersiz"
	}
}

func currentIdentity(c *fiber.Ctx) (auth.Identity, error) {
	identity, ok := middlewares.GetIdentity(c)
	if !ok {
		return auth.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Yetkilendirme gerekli")
	}
	return identity, nil
}

func parseCardID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	}
	return id, nil
}

// CardHandler kullanıcının kendi kartvizitleri için JSON API'dir.
type CardHandler struct {
	service services.ICardService
	linker  services.IScanLinkService
}

func NewCardHandler(service services.ICardService, linker services.IScanLinkService) *CardHandler {
	return &CardHandler{service: service, linker: linker}
}

// CreateCard POST /api/cards
func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	req, err := parseCardRequest(c)
	if err != nil {
		return err
	}

	card, err := h.service.CreateCard(c.UserContext(), identity, req.LayoutID, req.toFields())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// ListCards GET /api/cards
func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		configslog.Log.Warn("ListCards: query parse error", zap.Error(err))
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.ListCards(c.UserContext(), identity, params)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetCard GET /api/cards/:id
func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	card, err := h.service.GetCard(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

// UpdateCard PUT /api/cards/:id. Alan listesi bütünüyle değiştirilir.
func (h *CardHandler) UpdateCard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	req, err := parseCardRequest(c)
	if err != nil {
		return err
	}

	card, err := h.service.UpdateCard(c.UserContext(), identity, id, req.LayoutID, req.toFields())
	if err != nil {
		return err
	}
	return c.JSON(card)
}

// DeleteCard DELETE /api/cards/:id
func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCard(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VCard GET /api/cards/:id/vcard
func (h *CardHandler) VCard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	card, err := h.service.GetCard(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return publichandlers.SendVCard(c, card)
}

// ScanCode GET /api/cards/:id/qr. Kayıtta kod yoksa anında üretilir (kaydedilmez).
func (h *CardHandler) ScanCode(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseCardID(c)
	if err != nil {
		return err
	}
	card, err := h.service.GetCard(c.UserContext(), identity, id)
	if err != nil {
		return err
	}

	png := card.ScanCode
	if len(png) == 0 {
		png, _, err = h.linker.Mint(card.ID)
		if err != nil {
			return err
		}
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
