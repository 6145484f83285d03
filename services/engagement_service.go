package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EngagementServiceError özel servis hataları
type EngagementServiceError string

func (e EngagementServiceError) Error() string { return string(e) }

const ErrEngagementInvalidInput EngagementServiceError = "geçersiz süre bildirimi"

const (
	DefaultEngagementWindow = 30 * time.Minute
	MaxViewIDLength         = 64
)

// IEngagementService önizleme sayfasının görüntüleme süresi bildirimlerini işler.
type IEngagementService interface {
	// ReportDuration yeni bir bildirim kaydedildiyse true döner. Depolama hataları
	// loglanır ve çağırana yansıtılmaz; hata sadece geçersiz girdi içindir.
	ReportDuration(ctx context.Context, cardID uuid.UUID, seconds int, viewID string, sourceAddress string) (bool, error)
}

type EngagementService struct {
	reports repositories.IEngagementReportRepository
	events  repositories.IScanEventRepository
	window  time.Duration
	now     func() time.Time
}

func NewEngagementService() IEngagementService {
	return NewEngagementServiceWithDeps(
		repositories.NewEngagementReportRepository(),
		repositories.NewScanEventRepository(),
		configs.GetAppConfig().EngagementWindow,
	)
}

func NewEngagementServiceWithDeps(reports repositories.IEngagementReportRepository, events repositories.IScanEventRepository, window time.Duration) *EngagementService {
	if window <= 0 {
		window = DefaultEngagementWindow
	}
	return &EngagementService{
		reports: reports,
		events:  events,
		window:  window,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *EngagementService) ReportDuration(ctx context.Context, cardID uuid.UUID, seconds int, viewID string, sourceAddress string) (bool, error) {
	if seconds < 0 {
		return false, fmt.Errorf("%w: süre negatif olamaz", ErrEngagementInvalidInput)
	}
	viewID = strings.TrimSpace(viewID)
	if len(viewID) > MaxViewIDLength {
		return false, fmt.Errorf("%w: viewId çok uzun", ErrEngagementInvalidInput)
	}

	sourceAddress = truncateText(sourceAddress, MaxSourceAddressLength)

	now := s.now()
	report := &models.EngagementReport{
		CardID:        cardID,
		Seconds:       seconds,
		SourceAddress: sourceAddress,
		ReportedAt:    now,
	}
	if viewID != "" {
		report.ViewID = &viewID
	}

	// Yakın zamanda scan yoksa bildirim yine kabul edilir ama analitiğe girmez.
	event, err := s.events.FindLatestForEngagement(ctx, cardID, sourceAddress, now.Add(-s.window))
	switch {
	case err == nil:
		report.ScanEventID = &event.ID
	case errors.Is(err, repositories.ErrNotFound):
		configslog.SLog.Debugf("Süre bildirimi için eşleşen scan yok: %s", cardID)
	default:
		configslog.Log.Warn("Süre bildirimi için scan aranamadı", zap.String("card_id", cardID.String()), zap.Error(err))
	}

	created, err := s.reports.Create(ctx, report)
	if err != nil {
		configslog.Log.Error("Süre bildirimi kaydedilemedi",
			zap.String("card_id", cardID.String()),
			zap.Int("seconds", seconds),
			zap.Error(err),
		)
		return false, nil
	}
	if !created {
		configslog.SLog.Debugf("Aynı görüntüleme için tekrar eden süre bildirimi yok sayıldı: %s", viewID)
	}
	return created, nil
}

var _ IEngagementService = (*EngagementService)(nil)
