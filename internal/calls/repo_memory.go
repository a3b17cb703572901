package calls

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
	rows   map[int64]Call

	// UserExists mirrors the usuario_id foreign key. Nil accepts every id.
	UserExists func(id int64) bool
	// OnDelete runs after a call is removed, standing in for ON DELETE CASCADE.
	OnDelete func(id int64)
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Call{}}
}

func (r *MemoryRepo) checkUser(id int64) error {
	if r.UserExists != nil && !r.UserExists(id) {
		return apperr.Conflict("%s", missingUserDetail(id))
	}
	return nil
}

func (r *MemoryRepo) Create(_ context.Context, in NewCall) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUser(in.UserID); err != nil {
		return Call{}, err
	}
	r.nextID++
	c := Call{
		ID:              r.nextID,
		UserID:          in.UserID,
		CustomerNumber:  in.CustomerNumber,
		DurationSeconds: in.DurationSeconds,
		Type:            in.Type,
		Outcome:         in.Outcome,
		Timestamp:       in.Timestamp.UTC(),
	}
	r.rows[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return Call{}, notFound(id)
	}
	return c, nil
}

func (r *MemoryRepo) List(_ context.Context, f Filters, skip, limit int) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Call, 0, len(r.rows))
	for _, c := range r.rows {
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.Type != nil && c.Type != *f.Type {
			continue
		}
		if f.Outcome != nil && c.Outcome != *f.Outcome {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})
	return utils.Window(all, skip, limit), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return Call{}, notFound(id)
	}
	if p.UserID != nil {
		if err := r.checkUser(*p.UserID); err != nil {
			return Call{}, err
		}
		c.UserID = *p.UserID
	}
	if p.CustomerNumber != nil {
		c.CustomerNumber = *p.CustomerNumber
	}
	if p.DurationSeconds != nil {
		c.DurationSeconds = *p.DurationSeconds
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Outcome != nil {
		c.Outcome = *p.Outcome
	}
	if p.Timestamp != nil {
		c.Timestamp = p.Timestamp.UTC()
	}
	r.rows[id] = c
	return c, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	if _, ok := r.rows[id]; !ok {
		r.mu.Unlock()
		return notFound(id)
	}
	delete(r.rows, id)
	r.mu.Unlock()

	if r.OnDelete != nil {
		r.OnDelete(id)
	}
	return nil
}

// ReferencesUser reports whether any call belongs to userID.
func (r *MemoryRepo) ReferencesUser(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
