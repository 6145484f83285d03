// services/scan_service.go
package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/geo"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScanServiceError özel servis hataları
type ScanServiceError string

func (e ScanServiceError) Error() string { return string(e) }

const ErrScanPersistFailed ScanServiceError = "scan kaydedilemedi"

const (
	DefaultGeoLookupTimeout = 500 * time.Millisecond
	DefaultScanLinkTimeout  = time.Second

	// Sütun genişlikleri: scan_events.source_address varchar(64).
	MaxSourceAddressLength = 64
	MaxClientAgentLength   = 512
)

// truncateText s'yi en fazla max bayta kısaltır, yarım kalan UTF-8 karakterini atar.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// ScanRequest anonim bir tarayıcıdan gelen ham scan isteğidir.
type ScanRequest struct {
	CardID        uuid.UUID
	SourceAddress string // normalize edilmiş
	ClientAgent   string
}

// ScanRefAppender scan event'ini kartın önbellek listesine bağlar.
type ScanRefAppender interface {
	AppendScanRef(ctx context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error)
}

// IScanService scan ingestion hattı için arayüz.
type IScanService interface {
	Ingest(ctx context.Context, req ScanRequest) (*models.ScanEvent, error)
}

// ScanService her scan'i konumla zenginleştirir, kaydeder ve karta bağlar.
// Tek zorunlu adım kayıttır; konum ve bağlama kendi zaman aşımlarıyla en iyi çabadır.
type ScanService struct {
	events      repositories.IScanEventRepository
	cards       ScanRefAppender
	resolver    geo.Resolver
	geoTimeout  time.Duration
	linkTimeout time.Duration
	now         func() time.Time
}

// NewScanService event'leri paylaşılan veritabanına yazar ve cards üzerinden karta bağlar.
func NewScanService(cards ScanRefAppender, resolver geo.Resolver) IScanService {
	cfg := configs.GetAppConfig()
	return NewScanServiceWithDeps(
		repositories.NewScanEventRepository(),
		cards,
		resolver,
		cfg.GeoLookupTimeout,
		cfg.ScanLinkTimeout,
	)
}

func NewScanServiceWithDeps(events repositories.IScanEventRepository, cards ScanRefAppender, resolver geo.Resolver, geoTimeout, linkTimeout time.Duration) *ScanService {
	if geoTimeout <= 0 {
		geoTimeout = DefaultGeoLookupTimeout
	}
	if linkTimeout <= 0 {
		linkTimeout = DefaultScanLinkTimeout
	}
	if resolver == nil {
		resolver = geo.NoopResolver{}
	}
	return &ScanService{
		events:      events,
		cards:       cards,
		resolver:    resolver,
		geoTimeout:  geoTimeout,
		linkTimeout: linkTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Ingest kart kimliğinin var olup olmadığına bakmaz; bilinmeyen kimlikler için de event yazılır.
func (s *ScanService) Ingest(ctx context.Context, req ScanRequest) (*models.ScanEvent, error) {
	// 1. Konum (en iyi çaba, zaman aşımı sınırlı)
	source := truncateText(req.SourceAddress, MaxSourceAddressLength)
	loc := geo.LookupWithTimeout(ctx, s.resolver, source, s.geoTimeout)
	if loc.IsUnknown() {
		configslog.Log.Warn("Scan konumu çözülemedi", zap.String("card_id", req.CardID.String()), zap.String("source", source))
	}

	event := &models.ScanEvent{
		ID:            uuid.New(),
		CardID:        req.CardID,
		SourceAddress: source,
		ClientAgent:   truncateText(req.ClientAgent, MaxClientAgentLength),
		OccurredAt:    s.now(),
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		City:          loc.City,
		Country:       loc.Country,
	}

	// 2. Kayıt: tek zorunlu adım
	if err := s.events.Create(ctx, event); err != nil {
		configslog.Log.Error("Scan event kaydedilemedi",
			zap.Any("event", event),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrScanPersistFailed, err)
	}

	// 3. Karta bağlama (önbellek, kayıp kabul edilir)
	s.linkToCard(ctx, event)
	return event, nil
}

func (s *ScanService) linkToCard(ctx context.Context, event *models.ScanEvent) {
	linkCtx, cancel := context.WithTimeout(ctx, s.linkTimeout)
	defer cancel()

	linked, err := s.cards.AppendScanRef(linkCtx, event.CardID, event.ID)
	switch {
	case err != nil:
		configslog.Log.Warn("Scan event karta bağlanamadı",
			zap.String("card_id", event.CardID.String()),
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	case !linked:
		configslog.Log.Info("Bilinmeyen kartvizit için scan kaydedildi",
			zap.String("card_id", event.CardID.String()),
			zap.String("event_id", event.ID.String()),
		)
	}
}

var _ IScanService = (*ScanService)(nil)
