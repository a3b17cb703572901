package metrics

import (
	"context"
	"sort"
	"sync"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/utils"
)

// MemoryRepo is an in-memory Repository for tests and local development.
// It enforces one metric per date like the metricas table.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Metric
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Metric{}}
}

func (r *MemoryRepo) byDate(d schema.Date) (Metric, bool) {
	for _, m := range r.rows {
		if m.Date.Equal(d.Time) {
			return m, true
		}
	}
	return Metric{}, false
}

func (r *MemoryRepo) Create(_ context.Context, in NewMetric) (Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byDate(in.Date); taken {
		return Metric{}, apperr.Conflict("%s", duplicateDateDetail(in.Date))
	}
	r.nextID++
	m := Metric{
		ID:                   r.nextID,
		Date:                 in.Date,
		TotalCalls:           in.TotalCalls,
		AverageDuration:      in.AverageDuration,
		CustomerSatisfaction: in.CustomerSatisfaction,
	}
	r.rows[m.ID] = m
	return m, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return Metric{}, notFound(id)
	}
	return m, nil
}

func (r *MemoryRepo) GetByDate(_ context.Context, d schema.Date) (Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byDate(d)
	if !ok {
		return Metric{}, notFoundForDate(d)
	}
	return m, nil
}

func (r *MemoryRepo) List(_ context.Context, f Filters, skip, limit int) ([]Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Metric, 0, len(r.rows))
	for _, m := range r.rows {
		if f.From != nil && m.Date.Before(schema.NewDate(*f.From).Time) {
			continue
		}
		if f.To != nil && m.Date.After(schema.NewDate(*f.To).Time) {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date.Time) })
	return utils.Window(all, skip, limit), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return Metric{}, notFound(id)
	}
	if p.Date != nil {
		if other, taken := r.byDate(*p.Date); taken && other.ID != id {
			return Metric{}, apperr.Conflict("%s", duplicateDateDetail(*p.Date))
		}
		m.Date = *p.Date
	}
	if p.TotalCalls != nil {
		m.TotalCalls = *p.TotalCalls
	}
	if p.AverageDuration != nil {
		m.AverageDuration = *p.AverageDuration
	}
	if p.CustomerSatisfaction != nil {
		m.CustomerSatisfaction = p.CustomerSatisfaction
	}
	r.rows[id] = m
	return m, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return notFound(id)
	}
	delete(r.rows, id)
	return nil
}
