package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller, resolved from a verified token
// against the user store.
type Identity struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

type ctxKey int

const ctxIdentity ctxKey = iota

const ginIdentityKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok && id.UserID > 0
}

// setIdentity stores the identity on both the request context and the gin context.
func setIdentity(c *gin.Context, id Identity) {
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
	c.Set(ginIdentityKey, id)
}

// CurrentIdentity reads the identity stored by RequireUser or OptionalUser.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	if v, ok := c.Get(ginIdentityKey); ok {
		if id, ok := v.(Identity); ok && id.UserID > 0 {
			return id, true
		}
	}
	return IdentityFrom(c.Request.Context())
}
