package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kartvizit.link/models"
	"kartvizit.link/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	iphoneAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148"
	desktopAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"
)

func TestClassifyDevice(t *testing.T) {
	assert.Equal(t, DeviceMobile, ClassifyDevice(iphoneAgent))
	assert.Equal(t, DeviceDesktop, ClassifyDevice(desktopAgent))
	assert.Equal(t, DeviceDesktop, ClassifyDevice(""))
	// Büyük/küçük harf duyarlı alt dize kontrolü.
	assert.Equal(t, DeviceDesktop, ClassifyDevice("mobile safari"))
}

func TestAggregateCard_Empty(t *testing.T) {
	result := AggregateCard(nil, OwnerRecentScanLimit)

	assert.Zero(t, result.TotalScans)
	assert.NotNil(t, result.RecentScans)
	assert.Empty(t, result.LocationBreakdown)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalScans":0,"recentScans":[],"locationBreakdown":{},"deviceBreakdown":{}}`, string(raw))
}

func TestAggregateCard_RecentLimit(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var events []models.ScanEvent
	for i := 12; i > 0; i-- {
		events = append(events, models.ScanEvent{OccurredAt: base.Add(time.Duration(i) * time.Hour), City: "Ankara", Country: "Turkey"})
	}

	owner := AggregateCard(events, OwnerRecentScanLimit)
	public := AggregateCard(events, PublicRecentScanLimit)

	assert.Equal(t, 12, owner.TotalScans)
	assert.Len(t, owner.RecentScans, 10)
	assert.Len(t, public.RecentScans, 5)
	assert.Equal(t, base.Add(12*time.Hour), public.RecentScans[0].OccurredAt)
	assert.Equal(t, map[string]int{"Ankara, Turkey": 12}, public.LocationBreakdown)
}

func seedParisCard(t *testing.T) (*AnalyticsService, auth.Identity, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	cardSvc := newTestCardService(newFakeCardRepo(), 0)
	owner := auth.Identity{UserID: uuid.New()}
	card, err := cardSvc.CreateCard(ctx, owner, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)

	events := &fakeScanEventRepo{}
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, events.Create(ctx, &models.ScanEvent{
			CardID: card.ID, OccurredAt: now.Add(-time.Duration(i+1) * time.Minute),
			City: "Paris", Country: "France", ClientAgent: iphoneAgent,
		}))
	}
	require.NoError(t, events.Create(ctx, &models.ScanEvent{
		CardID: card.ID, OccurredAt: now.Add(-time.Hour),
		City: models.UnknownLocation, Country: models.UnknownLocation, ClientAgent: desktopAgent,
	}))

	return NewAnalyticsServiceWithDeps(cardSvc, events, &fakeEngagementRepo{}), owner, card.ID
}

func TestAnalyticsService_ParisExample(t *testing.T) {
	svc, owner, cardID := seedParisCard(t)

	result, err := svc.CardAnalytics(context.Background(), owner, cardID)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalScans)
	assert.Equal(t, map[string]int{"Paris, France": 3, "Unknown, Unknown": 1}, result.LocationBreakdown)
	assert.Equal(t, map[string]int{"Mobile": 3, "Desktop": 1}, result.DeviceBreakdown)
	assert.Len(t, result.RecentScans, 4)
	assert.Equal(t, "Paris", result.RecentScans[0].City)
	require.NotNil(t, result.Engagement)
}

func TestAnalyticsService_Ownership(t *testing.T) {
	svc, _, cardID := seedParisCard(t)

	_, err := svc.CardAnalytics(context.Background(), auth.Identity{UserID: uuid.New()}, cardID)
	assert.ErrorIs(t, err, ErrCardNotFound)

	public, err := svc.PublicCardAnalytics(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, 4, public.TotalScans)
	assert.Nil(t, public.Engagement)

	_, err = svc.PublicCardAnalytics(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestAnalyticsService_OwnerAnalytics(t *testing.T) {
	ctx := context.Background()
	cardSvc := newTestCardService(newFakeCardRepo(), 0)
	owner := auth.Identity{UserID: uuid.New()}
	other := auth.Identity{UserID: uuid.New()}

	a, err := cardSvc.CreateCard(ctx, owner, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)
	b, err := cardSvc.CreateCard(ctx, owner, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)
	foreign, err := cardSvc.CreateCard(ctx, other, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)

	events := &fakeScanEventRepo{}
	now := time.Now().UTC()
	add := func(id uuid.UUID, city, agent string) {
		require.NoError(t, events.Create(ctx, &models.ScanEvent{CardID: id, OccurredAt: now, City: city, Country: "Turkey", ClientAgent: agent}))
	}
	add(a.ID, "Istanbul", iphoneAgent)
	add(a.ID, "Istanbul", desktopAgent)
	add(b.ID, "Izmir", iphoneAgent)
	add(foreign.ID, "Bursa", iphoneAgent)

	svc := NewAnalyticsServiceWithDeps(cardSvc, events, &fakeEngagementRepo{})
	result, err := svc.OwnerAnalytics(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalScans)
	assert.Equal(t, map[string]int{a.ID.String(): 2, b.ID.String(): 1}, result.ScansByRecord)
	assert.Equal(t, map[string]int{"Istanbul, Turkey": 2, "Izmir, Turkey": 1}, result.OverallLocationBreakdown)
	assert.Equal(t, map[string]int{"Mobile": 2, "Desktop": 1}, result.OverallDeviceBreakdown)

	empty, err := svc.OwnerAnalytics(ctx, auth.Identity{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, empty.TotalScans)
	assert.Empty(t, empty.ScansByRecord)
}

func TestAnalyticsService_CardEngagementReports(t *testing.T) {
	ctx := context.Background()
	cardSvc := newTestCardService(newFakeCardRepo(), 0)
	owner := auth.Identity{UserID: uuid.New()}
	card, err := cardSvc.CreateCard(ctx, owner, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)

	reports := &fakeEngagementRepo{}
	_, err = reports.Create(ctx, &models.EngagementReport{CardID: card.ID, Seconds: 12, ReportedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = reports.Create(ctx, &models.EngagementReport{CardID: uuid.New(), Seconds: 99, ReportedAt: time.Now().UTC()})
	require.NoError(t, err)

	svc := NewAnalyticsServiceWithDeps(cardSvc, &fakeScanEventRepo{}, reports)

	list, err := svc.CardEngagementReports(ctx, owner, card.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12, list[0].Seconds)

	_, err = svc.CardEngagementReports(ctx, auth.Identity{UserID: uuid.New()}, card.ID)
	assert.ErrorIs(t, err, ErrCardNotFound)

	admin, err := svc.CardEngagementReports(ctx, auth.Identity{UserID: uuid.New(), IsSystem: true}, card.ID)
	require.NoError(t, err)
	assert.Len(t, admin, 1)
}
