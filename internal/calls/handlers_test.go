package calls

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService()
	r := gin.New()
	NewHandler(svc).Register(r.Group("/api"))
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandlers_CreateAndFetch(t *testing.T) {
	r := newTestRouter()

	body := `{"usuario_id":1,"numero_cliente":"3001234567","duracion_segundos":95,"tipo":"reclamo","resultado":"escalada","fecha_hora":"2025-03-01T10:15:00"}`
	w := serve(r, http.MethodPost, "/api/llamadas", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var c Call
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !c.Timestamp.Equal(time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)) {
		t.Fatalf("naive timestamp must be read as UTC, got %v", c.Timestamp)
	}

	if w := serve(r, http.MethodGet, "/api/llamadas/1", ""); w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/llamadas/usuario/1", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"numero_cliente":"3001234567"`) {
		t.Fatalf("by user: %d %s", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodGet, "/api/llamadas?tipo=venta", ""); w.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}

func TestHandlers_Errors(t *testing.T) {
	r := newTestRouter()

	w := serve(r, http.MethodPost, "/api/llamadas", `{"usuario_id":5,"numero_cliente":"1","duracion_segundos":10,"tipo":"venta","resultado":"atendida"}`)
	if w.Code != http.StatusBadRequest || w.Body.String() != `{"detail":"El usuario con ID 5 no existe"}` {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	w = serve(r, http.MethodPost, "/api/llamadas", `{"usuario_id":1,"numero_cliente":"1","duracion_segundos":10,"tipo":"venta","resultado":"atendida","fecha_hora":"ayer"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad timestamp, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/llamadas/9", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := serve(r, http.MethodDelete, "/api/llamadas/x", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/llamadas?limit=0", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", w.Code)
	}
}
