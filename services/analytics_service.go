package services

import (
	"context"
	"strings"
	"time"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/auth"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PublicRecentScanLimit = 5
	OwnerRecentScanLimit  = 10

	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
)

// RecentScan son scan listesindeki tek satırdır.
type RecentScan struct {
	OccurredAt time.Time `json:"occurredAt"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
}

// CardAnalytics tek bir kartvizitin analitiğidir.
type CardAnalytics struct {
	TotalScans        int                           `json:"totalScans"`
	RecentScans       []RecentScan                  `json:"recentScans"`
	LocationBreakdown map[string]int                `json:"locationBreakdown"`
	DeviceBreakdown   map[string]int                `json:"deviceBreakdown"`
	Engagement        *repositories.EngagementStats `json:"engagement,omitempty"`
}

// OwnerAnalytics bir kullanıcının tüm kartlarının birleşik analitiğidir.
type OwnerAnalytics struct {
	TotalScans               int            `json:"totalScans"`
	ScansByRecord            map[string]int `json:"scansByRecord"`
	OverallLocationBreakdown map[string]int `json:"overallLocationBreakdown"`
	OverallDeviceBreakdown   map[string]int `json:"overallDeviceBreakdown"`
}

// ClassifyDevice kaba iki kovalı sınıflandırma: agent "Mobile" içeriyorsa mobil.
func ClassifyDevice(agent string) string {
	if strings.Contains(agent, "Mobile") {
		return DeviceMobile
	}
	return DeviceDesktop
}

// AggregateCard event'lerin OccurredAt'e göre yeniden eskiye sıralı geldiğini varsayar.
func AggregateCard(events []models.ScanEvent, recentLimit int) CardAnalytics {
	out := CardAnalytics{
		TotalScans:        len(events),
		RecentScans:       []RecentScan{},
		LocationBreakdown: map[string]int{},
		DeviceBreakdown:   map[string]int{},
	}
	for i, e := range events {
		if i < recentLimit {
			out.RecentScans = append(out.RecentScans, RecentScan{OccurredAt: e.OccurredAt, City: e.City, Country: e.Country})
		}
		out.LocationBreakdown[e.LocationKey()]++
		out.DeviceBreakdown[ClassifyDevice(e.ClientAgent)]++
	}
	return out
}

func AggregateOwner(events []models.ScanEvent) OwnerAnalytics {
	out := OwnerAnalytics{
		TotalScans:               len(events),
		ScansByRecord:            map[string]int{},
		OverallLocationBreakdown: map[string]int{},
		OverallDeviceBreakdown:   map[string]int{},
	}
	for _, e := range events {
		out.ScansByRecord[e.CardID.String()]++
		out.OverallLocationBreakdown[e.LocationKey()]++
		out.OverallDeviceBreakdown[ClassifyDevice(e.ClientAgent)]++
	}
	return out
}

// IAnalyticsService her çağrıda event'lerden taze hesaplama yapar; önbellek yoktur.
type IAnalyticsService interface {
	CardAnalytics(ctx context.Context, identity auth.Identity, cardID uuid.UUID) (*CardAnalytics, error)
	PublicCardAnalytics(ctx context.Context, cardID uuid.UUID) (*CardAnalytics, error)
	OwnerAnalytics(ctx context.Context, identity auth.Identity) (*OwnerAnalytics, error)
	// CardEngagementReports kartın tüm süre bildirimlerini yeniden eskiye döndürür.
	CardEngagementReports(ctx context.Context, identity auth.Identity, cardID uuid.UUID) ([]models.EngagementReport, error)
}

type AnalyticsService struct {
	cards   ICardService
	events  repositories.IScanEventRepository
	reports repositories.IEngagementReportRepository
}

func NewAnalyticsService(cards ICardService) IAnalyticsService {
	return NewAnalyticsServiceWithDeps(
		cards,
		repositories.NewScanEventRepository(),
		repositories.NewEngagementReportRepository(),
	)
}

func NewAnalyticsServiceWithDeps(cards ICardService, events repositories.IScanEventRepository, reports repositories.IEngagementReportRepository) *AnalyticsService {
	return &AnalyticsService{cards: cards, events: events, reports: reports}
}

// CardAnalytics sahip (veya yönetici) için son 10 scan'i ve süre özetini içerir.
func (s *AnalyticsService) CardAnalytics(ctx context.Context, identity auth.Identity, cardID uuid.UUID) (*CardAnalytics, error) {
	if _, err := s.cards.GetCard(ctx, identity, cardID); err != nil {
		return nil, err
	}
	events, err := s.events.FindByCardID(ctx, cardID)
	if err != nil {
		configslog.Log.Error("CardAnalytics: event'ler alınamadı", zap.String("card_id", cardID.String()), zap.Error(err))
		return nil, err
	}
	result := AggregateCard(events, OwnerRecentScanLimit)

	stats, err := s.reports.StatsByCardID(ctx, cardID)
	if err != nil {
		configslog.Log.Warn("CardAnalytics: süre özeti alınamadı", zap.String("card_id", cardID.String()), zap.Error(err))
	} else {
		result.Engagement = &stats
	}
	return &result, nil
}

// PublicCardAnalytics kimlik doğrulaması istemez; kart mevcut olmalıdır.
func (s *AnalyticsService) PublicCardAnalytics(ctx context.Context, cardID uuid.UUID) (*CardAnalytics, error) {
	if _, err := s.cards.GetPublicCard(ctx, cardID); err != nil {
		return nil, err
	}
	events, err := s.events.FindByCardID(ctx, cardID)
	if err != nil {
		configslog.Log.Error("PublicCardAnalytics: event'ler alınamadı", zap.String("card_id", cardID.String()), zap.Error(err))
		return nil, err
	}
	result := AggregateCard(events, PublicRecentScanLimit)
	return &result, nil
}

func (s *AnalyticsService) OwnerAnalytics(ctx context.Context, identity auth.Identity) (*OwnerAnalytics, error) {
	ids, err := s.cards.OwnedCardIDs(ctx, identity.UserID)
	if err != nil {
		configslog.Log.Error("OwnerAnalytics: kart kimlikleri alınamadı", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return nil, err
	}
	events, err := s.events.FindByCardIDs(ctx, ids)
	if err != nil {
		configslog.Log.Error("OwnerAnalytics: event'ler alınamadı", zap.Error(err))
		return nil, err
	}
	result := AggregateOwner(events)
	return &result, nil
}

func (s *AnalyticsService) CardEngagementReports(ctx context.Context, identity auth.Identity, cardID uuid.UUID) ([]models.EngagementReport, error) {
	if _, err := s.cards.GetCard(ctx, identity, cardID); err != nil {
		return nil, err
	}
	reports, err := s.reports.FindByCardID(ctx, cardID)
	if err != nil {
		configslog.Log.Error("CardEngagementReports: bildirimler alınamadı", zap.String("card_id", cardID.String()), zap.Error(err))
		return nil, err
	}
	return reports, nil
}

var _ IAnalyticsService = (*AnalyticsService)(nil)
