package users

import (
	"context"
	"sort"
	"sync"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/pkg/utils"
)

// MemoryRepo is an in-memory Repository for tests and local development.
// It enforces the same email uniqueness as the usuarios table.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]User

	// InUse reports whether other records still reference the user; such users
	// cannot be deleted. Nil means never.
	InUse func(id int64) bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]User{}}
}

func (r *MemoryRepo) emailTaken(email string, except int64) bool {
	for _, u := range r.rows {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Create(_ context.Context, in NewUser) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(in.Email, 0) {
		return User{}, apperr.Conflict("El email %s ya está registrado", in.Email)
	}
	r.nextID++
	u := User{ID: r.nextID, Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash, Role: in.Role}
	r.rows[u.ID] = u
	return u, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return User{}, notFound(id)
	}
	return u, nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperr.NotFound("Usuario con email %s no encontrado", email)
}

func (r *MemoryRepo) List(_ context.Context, f Filters, skip, limit int) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]User, 0, len(r.rows))
	for _, u := range r.rows {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return utils.Window(all, skip, limit), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return User{}, notFound(id)
	}
	if p.Email != nil && r.emailTaken(*p.Email, id) {
		return User{}, apperr.Conflict("El email %s ya está registrado", *p.Email)
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	r.rows[id] = u
	return u, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return notFound(id)
	}
	if r.InUse != nil && r.InUse(id) {
		return apperr.Conflict("%s", inUseDetail(id))
	}
	delete(r.rows, id)
	return nil
}
