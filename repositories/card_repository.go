// repositories/card_repository.go
package repositories

import (
	"context"
	"errors"
	"strings"

	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/queryparams"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ICardRepository kartvizit veritabanı işlemleri için arayüz.
type ICardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	// ownerID nil ise tüm kartlar listelenir (yönetici paneli).
	FindAllPaginated(ctx context.Context, ownerID *uuid.UUID, params queryparams.ListParams) ([]models.Card, int64, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
	FindIDsByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	AppendScanRef(ctx context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error)
}

// CardRepository ICardRepository arayüzünü uygular.
type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository() ICardRepository {
	return &CardRepository{db: configsdatabase.GetDB()}
}

// NewCardRepositoryTx verilen bağlantı (veya transaction) üzerinde çalışan repository döndürür.
func NewCardRepositoryTx(tx *gorm.DB) ICardRepository {
	return &CardRepository{db: tx}
}

// Sıralamaya izin verilen sütunlar; kullanıcı girdisi doğrudan ORDER BY'a gitmez.
var cardSortColumns = map[string]string{
	"created_at": "cards.created_at",
	"updated_at": "cards.updated_at",
	"layout_id":  "cards.layout_id",
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card == nil {
		return errors.New("oluşturulacak kartvizit nil olamaz")
	}
	return getDB(ctx, r.db).Create(card).Error
}

// FindByID silinmemiş kartviziti Layout bilgisiyle birlikte getirir.
func (r *CardRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	err := getDB(ctx, r.db).Preload("Layout").Where("id = ?", id).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("CardRepository.FindByID: DB error", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindAllPaginated(ctx context.Context, ownerID *uuid.UUID, params queryparams.ListParams) ([]models.Card, int64, error) {
	params.Validate()

	var cards []models.Card
	var total int64

	query := getDB(ctx, r.db).Model(&models.Card{})
	if ownerID != nil {
		query = query.Where("cards.owner_id = ?", *ownerID)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Card{}, 0, nil
	}

	orderColumn, ok := cardSortColumns[params.SortBy]
	if !ok {
		orderColumn = cardSortColumns["created_at"]
	}
	err := query.Preload("Layout").
		Order(orderColumn + " " + strings.ToLower(params.OrderBy)).
		Order("cards.id asc").
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&cards).Error
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// Update düzenlenebilir alanları (şablon, alan listesi, scan kodu) tam olarak yazar.
func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	if card == nil || card.ID == uuid.Nil {
		return errors.New("güncellenecek kartvizit geçerli değil")
	}
	result := getDB(ctx, r.db).Model(card).
		Select("layout_id", "fields", "scan_code", "scan_code_url", "updated_at").
		Updates(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete kartviziti soft-delete eder. Scan event'lerine dokunulmaz.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&models.Card{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CardRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Card{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *CardRepository) FindIDsByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var cards []models.Card
	err := getDB(ctx, r.db).Select("id").Where("owner_id = ?", ownerID).Order("created_at asc").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// AppendScanRef event kimliğini kartın önbellek listesine ekler (oku-değiştir-yaz).
// Eşzamanlı iki çağrıdan biri diğerinin eklemesini ezebilir; bu kabul edilmiştir.
// Kart yoksa false döner.
func (r *CardRepository) AppendScanRef(ctx context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error) {
	db := getDB(ctx, r.db)

	var card models.Card
	err := db.Select("id", "scan_event_refs").Where("id = ?", cardID).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	refs := append(card.ScanEventRefs, eventID)
	if err := db.Model(&card).UpdateColumn("scan_event_refs", refs).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Arayüz uyumluluğu kontrolü
var _ ICardRepository = (*CardRepository)(nil)
