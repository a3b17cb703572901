package classifications

import (
	"context"
	"sort"
	"sync"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/pkg/utils"
)

// MemoryRepo is an in-memory Repository for tests and local development.
// It enforces one classification per call like the clasificacion_ia table.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Classification

	// CallExists mirrors the llamada_id foreign key. Nil accepts every id.
	CallExists func(id int64) bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Classification{}}
}

func (r *MemoryRepo) byCall(callID int64) (Classification, bool) {
	for _, c := range r.rows {
		if c.CallID == callID {
			return c, true
		}
	}
	return Classification{}, false
}

func (r *MemoryRepo) Create(_ context.Context, in NewClassification) (Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CallExists != nil && !r.CallExists(in.CallID) {
		return Classification{}, apperr.Conflict("%s", missingCallDetail(in.CallID))
	}
	if _, taken := r.byCall(in.CallID); taken {
		return Classification{}, apperr.Conflict("%s", alreadyClassifiedDetail(in.CallID))
	}
	r.nextID++
	c := Classification{
		ID:             r.nextID,
		CallID:         in.CallID,
		Category:       in.Category,
		Confidence:     in.Confidence,
		Recommendation: in.Recommendation,
	}
	r.rows[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return Classification{}, notFound(id)
	}
	return c, nil
}

func (r *MemoryRepo) GetByCall(_ context.Context, callID int64) (Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byCall(callID)
	if !ok {
		return Classification{}, notFoundForCall(callID)
	}
	return c, nil
}

func (r *MemoryRepo) List(_ context.Context, f Filters, skip, limit int) ([]Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Classification, 0, len(r.rows))
	for _, c := range r.rows {
		if f.Category != nil && c.Category != *f.Category {
			continue
		}
		if f.MinConfidence != nil && c.Confidence < *f.MinConfidence {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Confidence != all[j].Confidence {
			return all[i].Confidence > all[j].Confidence
		}
		return all[i].ID < all[j].ID
	})
	return utils.Window(all, skip, limit), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return Classification{}, notFound(id)
	}
	if p.CallID != nil && *p.CallID != c.CallID {
		if r.CallExists != nil && !r.CallExists(*p.CallID) {
			return Classification{}, apperr.Conflict("%s", missingCallDetail(*p.CallID))
		}
		if _, taken := r.byCall(*p.CallID); taken {
			return Classification{}, apperr.Conflict("%s", alreadyClassifiedDetail(*p.CallID))
		}
		c.CallID = *p.CallID
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Confidence != nil {
		c.Confidence = *p.Confidence
	}
	if p.Recommendation != nil {
		c.Recommendation = p.Recommendation
	}
	r.rows[id] = c
	return c, nil
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

// DeleteByCall drops the classification of callID, if any. Wired to the call
// store's delete hook it mirrors ON DELETE CASCADE.
func (r *MemoryRepo) DeleteByCall(callID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byCall(callID); ok {
		delete(r.rows, c.ID)
	}
}
