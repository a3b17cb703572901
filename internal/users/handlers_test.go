package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"callcenter-platform/internal/auth"
	"callcenter-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _, m := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	api := r.Group("/api")
	h.RegisterPublic(api)
	protected := api.Group("", auth.RequireUser(m, svc))
	h.Register(protected, rbac.RequireAnyRole(rbac.RoleAdmin))
	return r, svc, m
}

func do(r *gin.Engine, method, target, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestHandlers_SignupLoginAndFetch(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/usuarios", `{"nombre":"Ana","email":"ana@example.com","password":"secreto","rol":"agente"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password must not be serialized: %s", w.Body.String())
	}

	w = login(t, r, "ana@example.com", "secreto")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var res struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Usuario     User   `json:"usuario"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TokenType != "bearer" || res.Usuario.Email != "ana@example.com" {
		t.Fatalf("unexpected login body %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/usuarios/1", "", res.AccessToken)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"rol":"agente"`) {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/usuarios/email/ana@example.com", "", res.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("get by email: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/usuarios/77", "", res.AccessToken)
	if w.Code != http.StatusNotFound || w.Body.String() != `{"detail":"Usuario con ID 77 no encontrado"}` {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/usuarios/abc", "", res.AccessToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-integer id, got %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/usuarios?rol=gerente", "", res.AccessToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role filter, got %d", w.Code)
	}
}

func TestHandlers_ProtectedRoutesRequireToken(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/usuarios", "", "")
	if w.Code != http.StatusUnauthorized || w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHandlers_LoginFailure(t *testing.T) {
	r, _, _ := newTestRouter(t)
	_ = do(r, http.MethodPost, "/api/usuarios", `{"nombre":"Ana","email":"ana@example.com","password":"secreto","rol":"agente"}`, "")

	w := login(t, r, "ana@example.com", "otra")
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"detail":"Email o contraseña incorrectos"}` {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	w = login(t, r, "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing form fields, got %d", w.Code)
	}
}

func TestHandlers_SignupRejectsOverlongPassword(t *testing.T) {
	r, _, _ := newTestRouter(t)
	body := `{"nombre":"Ana","email":"ana@example.com","password":"` + strings.Repeat("a", 80) + `","rol":"agente"}`
	w := do(r, http.MethodPost, "/api/usuarios", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"detail":"El campo password debe ocupar como máximo 72 bytes"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHandlers_DeleteRequiresAdmin(t *testing.T) {
	r, svc, m := newTestRouter(t)
	ctx := t.Context()
	agent, _ := svc.Create(ctx, CreateInput{Name: "Ana", Email: "ana@example.com", Password: "secreto", Role: "agente"})
	admin, _ := svc.Create(ctx, CreateInput{Name: "Root", Email: "root@example.com", Password: "secreto", Role: "admin"})

	agentTok, _ := m.Mint(svc.clock(), identityOf(agent))
	adminTok, _ := m.Mint(svc.clock(), identityOf(admin))

	if w := do(r, http.MethodDelete, "/api/usuarios/1", "", agentTok); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/usuarios/1", "", adminTok); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d %s", w.Code, w.Body.String())
	}
}

func TestHandlers_UpdatePartial(t *testing.T) {
	r, svc, m := newTestRouter(t)
	u, _ := svc.Create(t.Context(), CreateInput{Name: "Ana", Email: "ana@example.com", Password: "secreto", Role: "agente"})
	tok, _ := m.Mint(svc.clock(), identityOf(u))

	w := do(r, http.MethodPut, "/api/usuarios/1", `{"nombre":"Ana María","email":null}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var got User
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Name != "Ana María" || got.Email != "ana@example.com" || got.Role != "agente" {
		t.Fatalf("unexpected %+v", got)
	}

	w = do(r, http.MethodPut, "/api/usuarios/1", `{"rol":"jefe"}`, tok)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
