package auth

import (
	"context"
	"strings"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "bearer "

// UserResolver loads the identity of a user id taken from a verified token.
// It returns an apperr NotFound error when the user does not exist.
type UserResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (Identity, error)
}

// ResolveCurrentUser verifies token and resolves its subject to an existing user.
func ResolveCurrentUser(ctx context.Context, m *Manager, users UserResolver, token string, now time.Time) (Identity, error) {
	claims, err := m.Verify(token, now)
	if err != nil {
		return Identity{}, err
	}
	id, err := claims.SubjectID()
	if err != nil {
		return Identity{}, err
	}
	identity, err := users.ResolveIdentity(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Identity{}, apperr.Unauthorized("Usuario no encontrado")
		}
		return Identity{}, err
	}
	return identity, nil
}

// RequireUser verifies the bearer token, resolves the caller and injects the
// identity into the request context. Role checks belong to internal/rbac.
func RequireUser(m *Manager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			httpapi.RespondError(c, apperr.Unauthorized("No autenticado"))
			return
		}
		id, err := ResolveCurrentUser(c.Request.Context(), m, users, tok, time.Now())
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalUser behaves like RequireUser but continues anonymously when the
// token is missing or does not resolve. Infrastructure failures still abort.
func OptionalUser(m *Manager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		id, err := ResolveCurrentUser(c.Request.Context(), m, users, tok, time.Now())
		if err != nil {
			if apperr.Is(err, apperr.KindUnauthorized) {
				c.Next()
				return
			}
			httpapi.RespondError(c, err)
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(raw[len(bearerPrefix):])
	return tok, tok != ""
}
