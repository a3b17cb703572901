package users

import (
	"strings"

	"callcenter-platform/internal/schema"
)

// User is an agent, supervisor or admin of the call center.
// PasswordHash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"rol"`
}

type CreateInput struct {
	Name     string `json:"nombre" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Role     string `json:"rol" validate:"required,oneof=agente supervisor admin"`
}

func (in *CreateInput) Normalize() {
	schema.Trim(&in.Name)
	in.Email = NormalizeEmail(in.Email)
	schema.Lower(&in.Role)
}

// UpdateInput applies only the fields present in the request body.
type UpdateInput struct {
	Name     *string `json:"nombre" validate:"omitnil,min=1,max=100"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6,maxbytes=72"`
	Role     *string `json:"rol" validate:"omitnil,oneof=agente supervisor admin"`
}

func (in *UpdateInput) Normalize() {
	schema.Trim(in.Name)
	if in.Email != nil {
		e := NormalizeEmail(*in.Email)
		in.Email = &e
	}
	schema.Lower(in.Role)
}

// NewUser is a validated user ready to be stored.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// Patch is a validated partial update; nil fields are left unchanged.
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil
}

type Filters struct {
	Role *string
}

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"usuario"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
