// repositories/engagement_report_repository.go
package repositories

import (
	"context"
	"errors"

	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementStats bir kartın scan'e bağlanmış süre bildirimlerinin özetidir.
type EngagementStats struct {
	Reports        int64   `json:"reports"`
	AverageSeconds float64 `json:"averageSeconds"`
}

// IEngagementReportRepository görüntüleme süresi bildirimleri için arayüz.
type IEngagementReportRepository interface {
	// Create aynı ViewID ile daha önce kayıt varsa hiçbir şey yazmaz ve false döner.
	Create(ctx context.Context, report *models.EngagementReport) (bool, error)
	FindByCardID(ctx context.Context, cardID uuid.UUID) ([]models.EngagementReport, error)
	StatsByCardID(ctx context.Context, cardID uuid.UUID) (EngagementStats, error)
}

type EngagementReportRepository struct {
	db *gorm.DB
}

func NewEngagementReportRepository() IEngagementReportRepository {
	return &EngagementReportRepository{db: configsdatabase.GetDB()}
}

func NewEngagementReportRepositoryTx(tx *gorm.DB) IEngagementReportRepository {
	return &EngagementReportRepository{db: tx}
}

func (r *EngagementReportRepository) Create(ctx context.Context, report *models.EngagementReport) (bool, error) {
	if report == nil || report.CardID == uuid.Nil {
		return false, errors.New("geçersiz süre bildirimi")
	}
	result := getDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(report)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EngagementReportRepository) FindByCardID(ctx context.Context, cardID uuid.UUID) ([]models.EngagementReport, error) {
	reports := []models.EngagementReport{}
	err := getDB(ctx, r.db).Where("card_id = ?", cardID).Order("reported_at desc").Find(&reports).Error
	return reports, err
}

// StatsByCardID sadece bir scan event'ine bağlanabilmiş bildirimleri sayar.
func (r *EngagementReportRepository) StatsByCardID(ctx context.Context, cardID uuid.UUID) (EngagementStats, error) {
	var stats EngagementStats
	err := getDB(ctx, r.db).Model(&models.EngagementReport{}).
		Select("COUNT(*) AS reports, COALESCE(AVG(seconds), 0) AS average_seconds").
		Where("card_id = ? AND scan_event_id IS NOT NULL", cardID).
		Scan(&stats).Error
	return stats, err
}

var _ IEngagementReportRepository = (*EngagementReportRepository)(nil)
