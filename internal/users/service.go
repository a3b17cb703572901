package users

import (
	"context"
	"strings"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/auth"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/rbac"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/logger"
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Mint(now time.Time, id auth.Identity) (string, error)
}

// AttemptLimiter throttles repeated failed logins for the same email.
type AttemptLimiter interface {
	Allow(ctx context.Context, email string) error
	Failed(ctx context.Context, email string) error
	Succeeded(ctx context.Context, email string) error
}

type Service struct {
	repo     Repository
	tokens   TokenIssuer
	attempts AttemptLimiter
	clock    func() time.Time
}

func NewService(repo Repository, tokens TokenIssuer, attempts AttemptLimiter) *Service {
	return &Service{repo: repo, tokens: tokens, attempts: attempts, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.Normalize()
	if err := schema.Struct(in); err != nil {
		return User{}, err
	}
	// Fast path only; the unique constraint decides under concurrency.
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, apperr.Conflict("El email %s ya está registrado", in.Email)
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u, err := s.repo.Create(ctx, NewUser{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role})
	if err != nil {
		return User{}, err
	}
	logger.From(ctx).Info("user created", "user_id", u.ID, "rol", u.Role)
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Exists reports whether a user with id exists.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) List(ctx context.Context, f Filters, page httpapi.Page) ([]User, error) {
	schema.Lower(f.Role)
	if f.Role != nil && !rbac.IsValidRole(*f.Role) {
		return nil, apperr.Invalid("El campo rol debe ser uno de: %s", strings.Join(rbac.Roles, ", "))
	}
	return s.repo.List(ctx, f, page.Skip, page.Limit)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (User, error) {
	in.Normalize()
	if err := schema.Struct(in); err != nil {
		return User{}, err
	}
	if in.Email != nil {
		if other, err := s.repo.GetByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return User{}, apperr.Conflict("El email %s ya está registrado", *in.Email)
		} else if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return User{}, err
		}
	}

	p := Patch{Name: in.Name, Email: in.Email, Role: in.Role}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return User{}, err
		}
		p.PasswordHash = &hash
	}
	u, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return User{}, err
	}
	if !p.Empty() {
		logger.From(ctx).Info("user updated", "user_id", id)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("user deleted", "user_id", id)
	return nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Invalid("Los campos username y password son obligatorios")
	}
	log := logger.From(ctx)

	if err := s.attempts.Allow(ctx, email); err != nil {
		if apperr.Is(err, apperr.KindTooManyRequests) {
			return LoginResult{}, err
		}
		// Limiter backend down: fail open.
		log.Warn("login limiter unavailable", "err", err)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return LoginResult{}, err
	}
	if err != nil || !auth.VerifyPassword(password, u.PasswordHash) {
		if ferr := s.attempts.Failed(ctx, email); ferr != nil {
			log.Warn("login limiter unavailable", "err", ferr)
		}
		return LoginResult{}, apperr.Unauthorized("Email o contraseña incorrectos")
	}
	if err := s.attempts.Succeeded(ctx, email); err != nil {
		log.Warn("login limiter unavailable", "err", err)
	}

	tok, err := s.tokens.Mint(s.clock(), identityOf(u))
	if err != nil {
		return LoginResult{}, err
	}
	log.Info("user logged in", "user_id", u.ID)
	return LoginResult{AccessToken: tok, TokenType: "bearer", User: u}, nil
}

// ResolveIdentity implements auth.UserResolver.
func (s *Service) ResolveIdentity(ctx context.Context, id int64) (auth.Identity, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return identityOf(u), nil
}

func identityOf(u User) auth.Identity {
	return auth.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
