package auth

import (
	"errors"
	"strconv"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	detailTokenExpired = "Token expirado"
	detailTokenInvalid = "Token inválido. Inicie sesión nuevamente."
)

type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
	}, nil
}

// TTL is the lifetime of tokens issued by Mint.
func (m *Manager) TTL() time.Duration { return m.ttl }

/* ===================== ISSUE TOKENS ===================== */

// Mint issues an access token for id with the configured TTL.
func (m *Manager) Mint(now time.Time, id Identity) (string, error) {
	return m.MintWithTTL(now, id, m.ttl)
}

// MintWithTTL issues an access token that expires ttl after now.
// A zero ttl yields a token that is already expired.
func (m *Manager) MintWithTTL(now time.Time, id Identity, ttl time.Duration) (string, error) {
	if id.UserID <= 0 {
		return "", errors.New("user id is required")
	}
	if ttl < 0 {
		return "", errors.New("ttl must be >= 0")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email: id.Email,
		Role:  id.Role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

/* ===================== VERIFY TOKEN ===================== */

// Verify checks signature, algorithm, expiry, issuer and audience as of now.
// All failures are apperr Unauthorized errors.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperr.Wrap(apperr.KindUnauthorized, err, detailTokenExpired)
		}
		return Claims{}, apperr.Wrap(apperr.KindUnauthorized, err, detailTokenInvalid)
	}
	return claims, nil
}

// SubjectID parses the numeric user id carried in the subject claim.
func (c Claims) SubjectID() (int64, error) {
	if c.Subject == "" {
		return 0, apperr.Unauthorized("Token inválido: no contiene ID de usuario")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Unauthorized("Token inválido: ID de usuario inválido")
	}
	return id, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
