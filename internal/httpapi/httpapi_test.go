package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"callcenter-platform/internal/apperr"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRespondError_MapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		detail string
	}{
		{apperr.Invalid("malo"), 400, `{"detail":"malo"}`},
		{apperr.Conflict("duplicado"), 400, `{"detail":"duplicado"}`},
		{apperr.NotFound("no existe"), 404, `{"detail":"no existe"}`},
		{apperr.Unauthorized("Token expirado"), 401, `{"detail":"Token expirado"}`},
		{apperr.Forbidden("prohibido"), 403, `{"detail":"prohibido"}`},
		{apperr.TooManyRequests("espere"), 429, `{"detail":"espere"}`},
		{errors.New("db down"), 500, `{"detail":"Error interno del servidor"}`},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { RespondError(c, tc.err) })
		w := serve(t, r, http.MethodGet, "/x", "")
		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		if w.Body.String() != tc.detail {
			t.Fatalf("%v: unexpected body %s", tc.err, w.Body.String())
		}
		if tc.status == 401 && w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("expected WWW-Authenticate header on 401")
		}
	}
}

func TestPathID_RejectsNonPositive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, err := PathID(c, "id")
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(200, gin.H{"id": id})
	})

	if w := serve(t, r, http.MethodGet, "/x/abc", ""); w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := serve(t, r, http.MethodGet, "/x/0", ""); w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := serve(t, r, http.MethodGet, "/x/12", ""); w.Code != 200 || w.Body.String() != `{"id":12}` {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
}

func TestPaging_DefaultsAndBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		p, err := Paging(c)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(200, gin.H{"skip": p.Skip, "limit": p.Limit})
	})

	if w := serve(t, r, http.MethodGet, "/x", ""); w.Body.String() != `{"limit":100,"skip":0}` {
		t.Fatalf("unexpected defaults %s", w.Body.String())
	}
	if w := serve(t, r, http.MethodGet, "/x?skip=5&limit=10", ""); w.Body.String() != `{"limit":10,"skip":5}` {
		t.Fatalf("unexpected %s", w.Body.String())
	}
	for _, q := range []string{"skip=-1", "limit=0", "limit=1001", "skip=x"} {
		if w := serve(t, r, http.MethodGet, "/x?"+q, ""); w.Code != 400 {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestBindJSON_InvalidBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	type body struct {
		N int `json:"n"`
	}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var b body
		if err := BindJSON(c, &b); err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(200, b)
	})

	if w := serve(t, r, http.MethodPost, "/x", `{"n":"uno"}`); w.Code != 400 {
		t.Fatalf("expected 400 for type mismatch, got %d", w.Code)
	}
	if w := serve(t, r, http.MethodPost, "/x", `{"n":3}`); w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCORS_PreflightAndOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://panel.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(204) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://panel.example")
	r.ServeHTTP(w, req)
	if w.Code != 200 || w.Header().Get("Access-Control-Allow-Origin") != "https://panel.example" {
		t.Fatalf("unexpected preflight %d %v", w.Code, w.Header())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow-origin for foreign origin")
	}
}

func TestCORS_CredentialsOnlyForListedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"*", "https://panel.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(204) })

	for origin, creds := range map[string]string{
		"https://panel.example": "true",
		"https://other.example": "",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		if w.Header().Get("Access-Control-Allow-Origin") != origin {
			t.Fatalf("%s: expected origin to be allowed", origin)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != creds {
			t.Fatalf("%s: credentials header %q, want %q", origin, got, creds)
		}
	}
}
