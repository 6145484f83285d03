package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"kartvizit.link/models"
	"kartvizit.link/pkg/auth"
	"kartvizit.link/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]geo.Location

func (m mapResolver) Lookup(_ context.Context, addr string) (geo.Location, error) {
	if loc, ok := m[addr]; ok {
		return loc, nil
	}
	return geo.Location{}, geo.ErrNotFound
}

type slowResolver struct{ delay time.Duration }

func (s slowResolver) Lookup(ctx context.Context, _ string) (geo.Location, error) {
	select {
	case <-time.After(s.delay):
		return geo.Location{City: "Late", Country: "Late"}, nil
	case <-ctx.Done():
		return geo.Location{}, ctx.Err()
	}
}

type failingResolver struct{}

func (failingResolver) Lookup(context.Context, string) (geo.Location, error) {
	return geo.Location{}, errors.New("geoip db bozuk")
}

// blockingAppender bağlam iptal edilene kadar bekler.
type blockingAppender struct{}

func (blockingAppender) AppendScanRef(ctx context.Context, _, _ uuid.UUID) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

// lossyAppender her bağlamayı sessizce kaybeder; sayımlar event'lerden gelmeli.
type lossyAppender struct{}

func (lossyAppender) AppendScanRef(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return true, nil
}

func floatPtr(f float64) *float64 { return &f }

func parisLocation() geo.Location {
	return geo.Location{Latitude: floatPtr(48.8566), Longitude: floatPtr(2.3522), City: "Paris", Country: "France"}
}

func TestScanService_Ingest_EnrichesAndLinks(t *testing.T) {
	ctx := context.Background()
	cards := newFakeCardRepo()
	events := &fakeScanEventRepo{}
	cardSvc := newTestCardService(cards, 0)

	card, err := cardSvc.CreateCard(ctx, auth.Identity{UserID: uuid.New()}, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)

	svc := NewScanServiceWithDeps(events, cardSvc, mapResolver{"203.0.113.7": parisLocation()}, time.Second, time.Second)
	event, err := svc.Ingest(ctx, ScanRequest{CardID: card.ID, SourceAddress: "203.0.113.7", ClientAgent: "Mozilla/5.0 (iPhone) Mobile/15E148"})
	require.NoError(t, err)

	assert.Equal(t, "Paris", event.City)
	assert.Equal(t, "France", event.Country)
	require.NotNil(t, event.Latitude)
	assert.InDelta(t, 48.8566, *event.Latitude, 0.0001)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())

	stored, err := cards.FindByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{event.ID}, []uuid.UUID(stored.ScanEventRefs))
}

func TestScanService_Ingest_UnknownRecordStillPersisted(t *testing.T) {
	events := &fakeScanEventRepo{}
	svc := NewScanServiceWithDeps(events, newFakeCardRepo(), nil, 0, 0)
	unknown := uuid.New()

	event, err := svc.Ingest(context.Background(), ScanRequest{CardID: unknown, SourceAddress: "198.51.100.1"})
	require.NoError(t, err)
	assert.Equal(t, unknown, event.CardID)

	stored, err := events.FindByCardID(context.Background(), unknown)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestScanService_Ingest_GeoFailureYieldsSentinel(t *testing.T) {
	tests := map[string]struct {
		resolver geo.Resolver
		addr     string
	}{
		"resolver error":    {failingResolver{}, "203.0.113.7"},
		"not found":         {mapResolver{}, "203.0.113.7"},
		"malformed address": {mapResolver{"garbage": parisLocation()}, "garbage"},
		"timeout":           {slowResolver{delay: time.Second}, "203.0.113.7"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := NewScanServiceWithDeps(&fakeScanEventRepo{}, newFakeCardRepo(), tt.resolver, 20*time.Millisecond, time.Second)

			start := time.Now()
			event, err := svc.Ingest(context.Background(), ScanRequest{CardID: uuid.New(), SourceAddress: tt.addr})
			require.NoError(t, err)

			assert.Less(t, time.Since(start), 500*time.Millisecond)
			assert.Nil(t, event.Latitude)
			assert.Nil(t, event.Longitude)
			assert.Equal(t, geo.UnknownName, event.City)
			assert.Equal(t, geo.UnknownName, event.Country)
		})
	}
}

func TestScanService_Ingest_PersistFailure(t *testing.T) {
	events := &fakeScanEventRepo{createErr: errors.New("connection refused")}
	svc := NewScanServiceWithDeps(events, newFakeCardRepo(), nil, 0, 0)

	_, err := svc.Ingest(context.Background(), ScanRequest{CardID: uuid.New()})
	assert.ErrorIs(t, err, ErrScanPersistFailed)
}

func TestScanService_Ingest_LinkTimeoutDoesNotBlock(t *testing.T) {
	events := &fakeScanEventRepo{}
	svc := NewScanServiceWithDeps(events, blockingAppender{}, nil, time.Second, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Ingest(context.Background(), ScanRequest{CardID: uuid.New()})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Len(t, events.events, 1)
}

func TestScanService_ConcurrentScansCountedFromEvents(t *testing.T) {
	ctx := context.Background()
	events := &fakeScanEventRepo{}
	cards := newFakeCardRepo()
	cardSvc := newTestCardService(cards, 0)
	owner := auth.Identity{UserID: uuid.New()}

	card, err := cardSvc.CreateCard(ctx, owner, models.LayoutIDClassic, adaFields())
	require.NoError(t, err)

	svc := NewScanServiceWithDeps(events, lossyAppender{}, nil, time.Second, time.Second)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(ctx, ScanRequest{CardID: card.ID, SourceAddress: "198.51.100.1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := events.FindByCardID(ctx, card.ID)
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, e := range stored {
		ids[e.ID] = true
	}
	assert.Len(t, ids, n)

	analytics := NewAnalyticsServiceWithDeps(cardSvc, events, &fakeEngagementRepo{})
	result, err := analytics.CardAnalytics(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, n, result.TotalScans)

	cached, err := cards.FindByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, cached.ScanCount())
}

func TestScanService_Ingest_CapsOversizedInput(t *testing.T) {
	events := &fakeScanEventRepo{}
	svc := NewScanServiceWithDeps(events, lossyAppender{}, geo.NoopResolver{}, time.Second, time.Second)

	event, err := svc.Ingest(context.Background(), ScanRequest{
		CardID:        uuid.New(),
		SourceAddress: strings.Repeat("x", 300),
		ClientAgent:   strings.Repeat("ağ", 400),
	})
	require.NoError(t, err)

	assert.Len(t, event.SourceAddress, MaxSourceAddressLength)
	assert.LessOrEqual(t, len(event.ClientAgent), MaxClientAgentLength)
	assert.True(t, utf8.ValidString(event.ClientAgent))
	assert.Equal(t, geo.UnknownName, event.City)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 10))
	assert.Equal(t, "ab", truncateText("abc", 2))
	// "ğ" iki bayttır; yarıda kesilmez.
	assert.Equal(t, "a", truncateText("ağ", 2))
}
