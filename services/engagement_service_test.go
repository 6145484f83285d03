package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kartvizit.link/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_AttachesToScanFromSameSource(t *testing.T) {
	ctx := context.Background()
	cardID := uuid.New()
	now := time.Now().UTC()

	events := &fakeScanEventRepo{}
	mine := models.ScanEvent{ID: uuid.New(), CardID: cardID, SourceAddress: "10.0.0.1", OccurredAt: now.Add(-5 * time.Minute)}
	newer := models.ScanEvent{ID: uuid.New(), CardID: cardID, SourceAddress: "10.0.0.2", OccurredAt: now.Add(-time.Minute)}
	require.NoError(t, events.Create(ctx, &mine))
	require.NoError(t, events.Create(ctx, &newer))

	reports := &fakeEngagementRepo{}
	svc := NewEngagementServiceWithDeps(reports, events, 30*time.Minute)

	created, err := svc.ReportDuration(ctx, cardID, 42, "view-a", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, reports.reports, 1)
	require.NotNil(t, reports.reports[0].ScanEventID)
	assert.Equal(t, mine.ID, *reports.reports[0].ScanEventID)
	assert.Equal(t, 42, reports.reports[0].Seconds)
}

func TestEngagementService_DuplicateViewIgnored(t *testing.T) {
	ctx := context.Background()
	cardID := uuid.New()
	events := &fakeScanEventRepo{}
	require.NoError(t, events.Create(ctx, &models.ScanEvent{CardID: cardID, OccurredAt: time.Now().UTC()}))

	reports := &fakeEngagementRepo{}
	svc := NewEngagementServiceWithDeps(reports, events, 0)

	// Aynı görüntülemeden hem unload hem teardown bildirimi gelir.
	first, err := svc.ReportDuration(ctx, cardID, 17, "view-1", "")
	require.NoError(t, err)
	second, err := svc.ReportDuration(ctx, cardID, 18, "view-1", "")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	stats, err := reports.StatsByCardID(ctx, cardID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Reports)
	assert.InDelta(t, 17.0, stats.AverageSeconds, 0.001)
}

func TestEngagementService_NoRecentScanIsInert(t *testing.T) {
	ctx := context.Background()
	cardID := uuid.New()
	events := &fakeScanEventRepo{}
	require.NoError(t, events.Create(ctx, &models.ScanEvent{CardID: cardID, OccurredAt: time.Now().UTC().Add(-3 * time.Hour)}))

	reports := &fakeEngagementRepo{}
	svc := NewEngagementServiceWithDeps(reports, events, 30*time.Minute)

	created, err := svc.ReportDuration(ctx, cardID, 5, "", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, reports.reports, 1)
	assert.Nil(t, reports.reports[0].ScanEventID)

	stats, err := reports.StatsByCardID(ctx, cardID)
	require.NoError(t, err)
	assert.Zero(t, stats.Reports)
}

func TestEngagementService_InvalidInput(t *testing.T) {
	svc := NewEngagementServiceWithDeps(&fakeEngagementRepo{}, &fakeScanEventRepo{}, 0)

	_, err := svc.ReportDuration(context.Background(), uuid.New(), -1, "", "")
	assert.ErrorIs(t, err, ErrEngagementInvalidInput)

	long := make([]byte, MaxViewIDLength+1)
	for i := range long {
		long[i] = 'v'
	}
	_, err = svc.ReportDuration(context.Background(), uuid.New(), 1, string(long), "")
	assert.ErrorIs(t, err, ErrEngagementInvalidInput)
}

func TestEngagementService_StorageErrorSwallowed(t *testing.T) {
	svc := NewEngagementServiceWithDeps(&fakeEngagementRepo{createErr: errors.New("db down")}, &fakeScanEventRepo{}, 0)

	created, err := svc.ReportDuration(context.Background(), uuid.New(), 3, "view", "")
	assert.NoError(t, err)
	assert.False(t, created)
}
