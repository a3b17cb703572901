package reporting

import (
	"context"
	"sort"
	"sync"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/pkg/utils"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Report

	// UserExists mirrors the generado_por foreign key. Nil accepts every id.
	UserExists func(id int64) bool
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{rows: map[int64]Report{}} }

func (r *MemoryRepo) checkUser(id int64) error {
	if r.UserExists != nil && !r.UserExists(id) {
		return apperr.Conflict("%s", missingUserDetail(id))
	}
	return nil
}

func (r *MemoryRepo) Create(_ context.Context, in NewReport) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUser(in.GeneratedBy); err != nil {
		return Report{}, err
	}
	r.nextID++
	rep := Report{ID: r.nextID, GeneratedBy: in.GeneratedBy, GeneratedAt: in.GeneratedAt.UTC(), Description: in.Description}
	r.rows[rep.ID] = rep
	return rep, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.rows[id]
	if !ok {
		return Report{}, notFound(id)
	}
	return rep, nil
}

func (r *MemoryRepo) List(_ context.Context, f Filters, skip, limit int) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, 0, len(r.rows))
	for _, rep := range r.rows {
		if f.GeneratedBy != nil && rep.GeneratedBy != *f.GeneratedBy {
			continue
		}
		if f.From != nil && rep.GeneratedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && rep.GeneratedAt.After(*f.To) {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GeneratedAt.Equal(out[j].GeneratedAt) {
			return out[i].GeneratedAt.After(out[j].GeneratedAt)
		}
		return out[i].ID > out[j].ID
	})
	return utils.Window(out, skip, limit), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.rows[id]
	if !ok {
		return Report{}, notFound(id)
	}
	if p.GeneratedBy != nil {
		if err := r.checkUser(*p.GeneratedBy); err != nil {
			return Report{}, err
		}
		rep.GeneratedBy = *p.GeneratedBy
	}
	if p.GeneratedAt != nil {
		rep.GeneratedAt = p.GeneratedAt.UTC()
	}
	if p.Description != nil {
		rep.Description = p.Description
	}
	r.rows[id] = rep
	return rep, nil
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

// ReferencesUser reports whether any report was generated by userID.
func (r *MemoryRepo) ReferencesUser(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.rows {
		if rep.GeneratedBy == userID {
			return true
		}
	}
	return false
}
