package repositories

import (
	"context"
	"errors"
	"time"

	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IScanEventRepository scan event'leri için arayüz. Event'ler sadece eklenir;
// güncelleme veya silme metodu yoktur.
type IScanEventRepository interface {
	Create(ctx context.Context, event *models.ScanEvent) error
	// FindByCardID event'leri OccurredAt'e göre yeniden eskiye döndürür.
	FindByCardID(ctx context.Context, cardID uuid.UUID) ([]models.ScanEvent, error)
	FindByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]models.ScanEvent, error)
	// FindLatestForEngagement since'ten sonraki en yeni event'i bulur; önce aynı kaynak
	// adresten geleni, yoksa kartın herhangi bir event'ini. Hiçbiri yoksa ErrNotFound.
	FindLatestForEngagement(ctx context.Context, cardID uuid.UUID, sourceAddress string, since time.Time) (*models.ScanEvent, error)
}

type ScanEventRepository struct {
	db *gorm.DB
}

func NewScanEventRepository() IScanEventRepository {
	return &ScanEventRepository{db: configsdatabase.GetDB()}
}

func NewScanEventRepositoryTx(tx *gorm.DB) IScanEventRepository {
	return &ScanEventRepository{db: tx}
}

func (r *ScanEventRepository) Create(ctx context.Context, event *models.ScanEvent) error {
	if event == nil {
		return errors.New("kaydedilecek scan event nil olamaz")
	}
	return getDB(ctx, r.db).Create(event).Error
}

func (r *ScanEventRepository) FindByCardID(ctx context.Context, cardID uuid.UUID) ([]models.ScanEvent, error) {
	events := []models.ScanEvent{}
	err := getDB(ctx, r.db).
		Where("card_id = ?", cardID).
		Order("occurred_at desc").
		Find(&events).Error
	return events, err
}

func (r *ScanEventRepository) FindByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]models.ScanEvent, error) {
	events := []models.ScanEvent{}
	if len(cardIDs) == 0 {
		return events, nil
	}
	err := getDB(ctx, r.db).
		Where("card_id IN ?", cardIDs).
		Order("occurred_at desc").
		Find(&events).Error
	return events, err
}

func (r *ScanEventRepository) FindLatestForEngagement(ctx context.Context, cardID uuid.UUID, sourceAddress string, since time.Time) (*models.ScanEvent, error) {
	db := getDB(ctx, r.db)

	if sourceAddress != "" {
		var event models.ScanEvent
		err := db.Where("card_id = ? AND source_address = ? AND occurred_at >= ?", cardID, sourceAddress, since).
			Order("occurred_at desc").
			First(&event).Error
		if err == nil {
			return &event, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var event models.ScanEvent
	err := db.Where("card_id = ? AND occurred_at >= ?", cardID, since).
		Order("occurred_at desc").
		First(&event).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

var _ IScanEventRepository = (*ScanEventRepository)(nil)
