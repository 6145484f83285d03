package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"kartvizit.link/models"
	"kartvizit.link/pkg/queryparams"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
)

type fakeCardRepo struct {
	mu        sync.Mutex
	cards     map[uuid.UUID]*models.Card
	createErr error
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[uuid.UUID]*models.Card{}}
}

func (r *fakeCardRepo) Create(_ context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	card.CreatedAt = time.Now().UTC()
	cp := *card
	r.cards[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) FindAllPaginated(_ context.Context, ownerID *uuid.UUID, params queryparams.ListParams) ([]models.Card, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Card
	for _, c := range r.cards {
		if ownerID == nil || c.OwnerID == *ownerID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := params.CalculateOffset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCardRepo) Update(_ context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[card.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *card
	r.cards[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) CountByOwnerID(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.cards {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) FindIDsByOwnerID(_ context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []uuid.UUID{}
	for id, c := range r.cards {
		if c.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeCardRepo) AppendScanRef(_ context.Context, cardID uuid.UUID, eventID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[cardID]
	if !ok {
		return false, nil
	}
	c.ScanEventRefs = append(c.ScanEventRefs, eventID)
	return true, nil
}

type fakeLayoutRepo struct{}

func (fakeLayoutRepo) FindByID(_ context.Context, id uint) (*models.Layout, error) {
	if id < models.LayoutIDClassic || id > models.LayoutIDCorporate {
		return nil, repositories.ErrNotFound
	}
	return &models.Layout{ID: id}, nil
}

func (fakeLayoutRepo) FindByName(_ context.Context, name string) (*models.Layout, error) {
	return nil, repositories.ErrNotFound
}

func (fakeLayoutRepo) FindAll(context.Context) ([]models.Layout, error) { return nil, nil }

type fakeScanEventRepo struct {
	mu        sync.Mutex
	events    []models.ScanEvent
	createErr error
}

func (r *fakeScanEventRepo) Create(_ context.Context, e *models.ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeScanEventRepo) sorted(filter func(models.ScanEvent) bool) []models.ScanEvent {
	out := []models.ScanEvent{}
	for _, e := range r.events {
		if filter(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out
}

func (r *fakeScanEventRepo) FindByCardID(_ context.Context, cardID uuid.UUID) ([]models.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(e models.ScanEvent) bool { return e.CardID == cardID }), nil
}

func (r *fakeScanEventRepo) FindByCardIDs(_ context.Context, cardIDs []uuid.UUID) ([]models.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := map[uuid.UUID]bool{}
	for _, id := range cardIDs {
		set[id] = true
	}
	return r.sorted(func(e models.ScanEvent) bool { return set[e.CardID] }), nil
}

func (r *fakeScanEventRepo) FindLatestForEngagement(_ context.Context, cardID uuid.UUID, source string, since time.Time) (*models.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inWindow := r.sorted(func(e models.ScanEvent) bool { return e.CardID == cardID && !e.OccurredAt.Before(since) })
	for _, e := range inWindow {
		if e.SourceAddress == source {
			return &e, nil
		}
	}
	if len(inWindow) > 0 {
		return &inWindow[0], nil
	}
	return nil, repositories.ErrNotFound
}

type fakeEngagementRepo struct {
	mu        sync.Mutex
	reports   []models.EngagementReport
	createErr error
}

func (r *fakeEngagementRepo) Create(_ context.Context, rep *models.EngagementReport) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return false, r.createErr
	}
	if rep.ViewID != nil {
		for _, existing := range r.reports {
			if existing.ViewID != nil && *existing.ViewID == *rep.ViewID {
				return false, nil
			}
		}
	}
	r.reports = append(r.reports, *rep)
	return true, nil
}

func (r *fakeEngagementRepo) FindByCardID(_ context.Context, cardID uuid.UUID) ([]models.EngagementReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.EngagementReport{}
	for _, rep := range r.reports {
		if rep.CardID == cardID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeEngagementRepo) StatsByCardID(_ context.Context, cardID uuid.UUID) (repositories.EngagementStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats repositories.EngagementStats
	total := 0
	for _, rep := range r.reports {
		if rep.CardID == cardID && rep.ScanEventID != nil {
			stats.Reports++
			total += rep.Seconds
		}
	}
	if stats.Reports > 0 {
		stats.AverageSeconds = float64(total) / float64(stats.Reports)
	}
	return stats, nil
}

var (
	_ repositories.ICardRepository             = (*fakeCardRepo)(nil)
	_ repositories.ILayoutRepository           = fakeLayoutRepo{}
	_ repositories.IScanEventRepository        = (*fakeScanEventRepo)(nil)
	_ repositories.IEngagementReportRepository = (*fakeEngagementRepo)(nil)
)
