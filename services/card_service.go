// services/card_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/auth"
	"kartvizit.link/pkg/queryparams"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CardServiceError özel servis hataları
type CardServiceError string

func (e CardServiceError) Error() string { return string(e) }

const (
	ErrCardNotFound       CardServiceError = "kartvizit bulunamadı"
	ErrCardCreationFailed CardServiceError = "kartvizit oluşturulamadı"
	ErrCardUpdateFailed   CardServiceError = "kartvizit güncellenemedi"
	ErrCardDeletionFailed CardServiceError = "kartvizit silinemedi"
	ErrCardInvalidInput   CardServiceError = "geçersiz girdi verisi"
	ErrCardNameRequired   CardServiceError = "name, firstName veya lastName alanlarından en az biri zorunludur"
	ErrCardLayoutNotFound CardServiceError = "kartvizit şablonu bulunamadı"
	ErrCardLimitReached   CardServiceError = "planınızın kartvizit sınırına ulaşıldı"
)

const (
	MaxFieldNameLength  = 64
	MaxFieldValueLength = 2000
)

// ICardService kartvizit işlemleri için arayüz. İşlemi yapan kimlik her çağrıda açıkça verilir.
type ICardService interface {
	CreateCard(ctx context.Context, identity auth.Identity, layoutID uint, fields models.CardFields) (*models.Card, error)
	GetCard(ctx context.Context, identity auth.Identity, id uuid.UUID) (*models.Card, error)
	GetPublicCard(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListCards(ctx context.Context, identity auth.Identity, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateCard(ctx context.Context, identity auth.Identity, id uuid.UUID, layoutID uint, fields models.CardFields) (*models.Card, error)
	DeleteCard(ctx context.Context, identity auth.Identity, id uuid.UUID) error
	OwnedCardIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	AppendScanRef(ctx context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error)
}

// CardService ICardService arayüzünü uygular.
type CardService struct {
	repo        repositories.ICardRepository
	layoutRepo  repositories.ILayoutRepository
	linker      IScanLinkService
	plan        PlanGate
	phoneRegion string
}

// NewCardService uygulama yapılandırmasıyla varsayılan bağımlılıkları kurar.
func NewCardService() ICardService {
	cfg := configs.GetAppConfig()
	return NewCardServiceWithDeps(
		repositories.NewCardRepository(),
		repositories.NewLayoutRepository(),
		NewScanLinkService(cfg.BaseURL, cfg.QRSize),
		StaticPlanGate{MaxCards: cfg.PlanMaxCards},
		cfg.PhoneDefaultRegion,
	)
}

func NewCardServiceWithDeps(repo repositories.ICardRepository, layoutRepo repositories.ILayoutRepository, linker IScanLinkService, plan PlanGate, phoneRegion string) *CardService {
	if plan == nil {
		plan = StaticPlanGate{}
	}
	return &CardService{repo: repo, layoutRepo: layoutRepo, linker: linker, plan: plan, phoneRegion: phoneRegion}
}

// --- Yardımcı Metodlar ---

// ValidateCardFields alan listesini doğrular. Telefon alanları libphonenumber ile
// "olası numara" kontrolünden geçer; "+" ile başlamayanlar defaultRegion'a göre çözülür.
func ValidateCardFields(fields models.CardFields, defaultRegion string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: alan adı boş olamaz", ErrCardInvalidInput)
		}
		if utf8.RuneCountInString(name) > MaxFieldNameLength {
			return fmt.Errorf("%w: '%s' alan adı çok uzun", ErrCardInvalidInput, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: '%s' alanı birden fazla kez verilmiş", ErrCardInvalidInput, name)
		}
		seen[name] = struct{}{}

		if utf8.RuneCountInString(field.Value) > MaxFieldValueLength {
			return fmt.Errorf("%w: '%s' alanının değeri çok uzun", ErrCardInvalidInput, name)
		}
	}

	if !fields.Has(models.FieldName) && !fields.Has(models.FieldFirstName) && !fields.Has(models.FieldLastName) {
		return ErrCardNameRequired
	}

	for _, phoneField := range []string{models.FieldPhone, models.FieldMobile} {
		value := fields.Get(phoneField)
		if value == "" {
			continue
		}
		num, err := libphonenumber.Parse(value, defaultRegion)
		if err != nil || !libphonenumber.IsPossibleNumber(num) {
			return fmt.Errorf("%w: '%s' geçerli bir telefon numarası değil", ErrCardInvalidInput, phoneField)
		}
	}
	return nil
}

// normalizeFields alan adlarındaki boşlukları kırpar; değerler olduğu gibi saklanır.
func normalizeFields(fields models.CardFields) models.CardFields {
	out := make(models.CardFields, 0, len(fields))
	for _, f := range fields {
		out = append(out, models.CardField{Name: strings.TrimSpace(f.Name), Value: f.Value})
	}
	return out
}

func (s *CardService) ensureLayout(ctx context.Context, layoutID uint) error {
	if _, err := s.layoutRepo.FindByID(ctx, layoutID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCardLayoutNotFound
		}
		return err
	}
	return nil
}

// findOwned sahiplik ihlalini de ErrCardNotFound olarak raporlar; başkasının kartının
// varlığı sızdırılmaz.
func (s *CardService) findOwned(ctx context.Context, identity auth.Identity, id uuid.UUID) (*models.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if !identity.CanAccess(card.OwnerID) {
		configslog.Log.Warn("Yetkisiz kartvizit erişim denemesi",
			zap.String("card_id", id.String()),
			zap.String("user_id", identity.UserID.String()),
		)
		return nil, ErrCardNotFound
	}
	return card, nil
}

// --- Servis Metodları ---

func (s *CardService) CreateCard(ctx context.Context, identity auth.Identity, layoutID uint, fields models.CardFields) (*models.Card, error) {
	// 1. Girdi Validasyonu
	if identity.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: geçersiz kullanıcı", ErrCardInvalidInput)
	}
	fields = normalizeFields(fields)
	if err := ValidateCardFields(fields, s.phoneRegion); err != nil {
		return nil, err
	}
	if err := s.ensureLayout(ctx, layoutID); err != nil {
		return nil, err
	}

	// 2. Plan limiti
	count, err := s.repo.CountByOwnerID(ctx, identity.UserID)
	if err != nil {
		configslog.Log.Error("CreateCard: kart sayısı alınamadı", zap.Error(err))
		return nil, ErrCardCreationFailed
	}
	if err := s.plan.CanCreateCard(ctx, identity, count); err != nil {
		return nil, err
	}

	// 3. Scan kodu (kimlik QR koduna gömüldüğü için kayıttan önce üretilir)
	card := &models.Card{
		OwnerID:  identity.UserID,
		LayoutID: layoutID,
		Fields:   datatypes.NewJSONType(fields),
	}
	card.ID = uuid.New()

	png, url, err := s.linker.Mint(card.ID)
	if err != nil {
		configslog.Log.Error("CreateCard: scan kodu üretilemedi", zap.String("card_id", card.ID.String()), zap.Error(err))
		return nil, ErrCardCreationFailed
	}
	card.ScanCode = png
	card.ScanCodeURL = url

	// 4. Kayıt
	if err := s.repo.Create(ctx, card); err != nil {
		configslog.Log.Error("CreateCard: kayıt hatası", zap.String("card_id", card.ID.String()), zap.Error(err))
		return nil, ErrCardCreationFailed
	}

	configslog.SLog.Infof("Kartvizit oluşturuldu: CardID %s, Sahip: %s", card.ID, identity.UserID)
	return card, nil
}

func (s *CardService) GetCard(ctx context.Context, identity auth.Identity, id uuid.UUID) (*models.Card, error) {
	return s.findOwned(ctx, identity, id)
}

// GetPublicCard önizleme ve herkese açık vCard indirme için kimlik doğrulaması olmadan kartı getirir.
func (s *CardService) GetPublicCard(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// ListCards kullanıcının kartlarını sayfalar; sistem yöneticisi tüm kartları görür.
func (s *CardService) ListCards(ctx context.Context, identity auth.Identity, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	var ownerFilter *uuid.UUID
	if !identity.IsSystem {
		ownerFilter = &identity.UserID
	}

	cards, total, err := s.repo.FindAllPaginated(ctx, ownerFilter, params)
	if err != nil {
		configslog.Log.Error("ListCards: repo hatası", zap.Error(err))
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: cards,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// UpdateCard alan listesini bütünüyle değiştirir. Scan kodu yalnızca içine gömülü URL
// değişmişse yeniden üretilir; basılmış kartlar geçerli kalır.
func (s *CardService) UpdateCard(ctx context.Context, identity auth.Identity, id uuid.UUID, layoutID uint, fields models.CardFields) (*models.Card, error) {
	card, err := s.findOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	fields = normalizeFields(fields)
	if err := ValidateCardFields(fields, s.phoneRegion); err != nil {
		return nil, err
	}
	if err := s.ensureLayout(ctx, layoutID); err != nil {
		return nil, err
	}

	card.LayoutID = layoutID
	card.Fields = datatypes.NewJSONType(fields)
	card.Layout = nil

	if s.linker.NeedsRemint(card) {
		png, url, mintErr := s.linker.Mint(card.ID)
		if mintErr != nil {
			configslog.Log.Error("UpdateCard: scan kodu yeniden üretilemedi", zap.String("card_id", id.String()), zap.Error(mintErr))
			return nil, ErrCardUpdateFailed
		}
		configslog.SLog.Infof("Kartvizit scan kodu yenilendi: %s -> %s", card.ScanCodeURL, url)
		card.ScanCode = png
		card.ScanCodeURL = url
	}

	if err := s.repo.Update(ctx, card); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		configslog.Log.Error("UpdateCard: repo hatası", zap.String("card_id", id.String()), zap.Error(err))
		return nil, ErrCardUpdateFailed
	}
	return card, nil
}

// DeleteCard kartviziti siler. Kartın scan event'leri denetim için yerinde kalır.
func (s *CardService) DeleteCard(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCardNotFound
		}
		configslog.Log.Error("DeleteCard: repo hatası", zap.String("card_id", id.String()), zap.Error(err))
		return ErrCardDeletionFailed
	}
	configslog.SLog.Infof("Kartvizit silindi: %s (Silen: %s)", id, identity.UserID)
	return nil
}

func (s *CardService) OwnedCardIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.FindIDsByOwnerID(ctx, ownerID)
}

func (s *CardService) AppendScanRef(ctx context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error) {
	return s.repo.AppendScanRef(ctx, cardID, eventID)
}

// Arayüz uyumluluğu kontrolü
var _ ICardService = (*CardService)(nil)
