package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"callcenter-platform/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type fakeResolver struct {
	users map[int64]Identity
}

func (f fakeResolver) ResolveIdentity(_ context.Context, id int64) (Identity, error) {
	u, ok := f.users[id]
	if !ok {
		return Identity{}, apperr.NotFound("Usuario con ID %d no encontrado", id)
	}
	return u, nil
}

func newRouter(m *Manager, users UserResolver, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := RequireUser(m, users)
	if optional {
		mw = OptionalUser(m, users)
	}
	r.GET("/me", mw, func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(200, gin.H{"anonimo": true})
			return
		}
		c.JSON(200, gin.H{"id": id.UserID, "rol": id.Role})
	})
	return r
}

func get(r *gin.Engine, authz string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	m := newTestManager(t)
	users := fakeResolver{users: map[int64]Identity{7: {UserID: 7, Email: "a@b.co", Role: "agente"}}}
	r := newRouter(m, users, false)

	w := get(r, "")
	if w.Code != 401 || w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected 401 with challenge, got %d %v", w.Code, w.Header())
	}

	tok, _ := m.Mint(time.Now(), Identity{UserID: 7, Role: "agente"})
	w = get(r, "Bearer "+tok)
	if w.Code != 200 || w.Body.String() != `{"id":7,"rol":"agente"}` {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}

	w = get(r, "bearer "+tok)
	if w.Code != 200 {
		t.Fatalf("scheme must be case-insensitive, got %d", w.Code)
	}
}

func TestRequireUser_DeletedUserIsUnauthorized(t *testing.T) {
	m := newTestManager(t)
	r := newRouter(m, fakeResolver{users: map[int64]Identity{}}, false)

	tok, _ := m.Mint(time.Now(), Identity{UserID: 99, Role: "admin"})
	w := get(r, "Bearer "+tok)
	if w.Code != 401 || w.Body.String() != `{"detail":"Usuario no encontrado"}` {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
}

func TestRequireUser_NonNumericSubject(t *testing.T) {
	m := newTestManager(t)
	r := newRouter(m, fakeResolver{}, false)

	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		Issuer:    "issuer",
		Audience:  jwt.ClaimStrings{"aud"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := get(r, "Bearer "+tok)
	if w.Code != 401 {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalUser_AnonymousOnBadToken(t *testing.T) {
	m := newTestManager(t)
	users := fakeResolver{users: map[int64]Identity{3: {UserID: 3, Role: "admin"}}}
	r := newRouter(m, users, true)

	for _, authz := range []string{"", "Bearer garbage"} {
		w := get(r, authz)
		if w.Code != 200 || w.Body.String() != `{"anonimo":true}` {
			t.Fatalf("%q: unexpected %d %s", authz, w.Code, w.Body.String())
		}
	}

	tok, _ := m.Mint(time.Now(), Identity{UserID: 3, Role: "admin"})
	w := get(r, "Bearer "+tok)
	if w.Body.String() != `{"id":3,"rol":"admin"}` {
		t.Fatalf("unexpected %s", w.Body.String())
	}
}

func TestLoginLimiter_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	for _, l := range []*LoginLimiter{nil, NewLoginLimiter(nil, 5, time.Minute)} {
		for i := 0; i < 10; i++ {
			if err := l.Failed(ctx, "a@b.co"); err != nil {
				t.Fatalf("failed: %v", err)
			}
		}
		if err := l.Allow(ctx, "a@b.co"); err != nil {
			t.Fatalf("disabled limiter must allow: %v", err)
		}
	}
}

func TestLoginKey_NormalizesEmail(t *testing.T) {
	if loginKey(" Ana@Example.com ") != loginKey("ana@example.com") {
		t.Fatalf("expected normalized key")
	}
	if want := len("login_failures:") + 64; len(loginKey("x")) != want {
		t.Fatalf("unexpected key length %s", strconv.Itoa(len(loginKey("x"))))
	}
}
