package reporting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/schema"

	"github.com/gin-gonic/gin"
)

type fakeUsers map[int64]bool

func (f fakeUsers) Exists(_ context.Context, id int64) (bool, error) { return f[id], nil }

var fixedNow = time.Date(2025, 1, 20, 10, 30, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo(), fakeUsers{1: true, 2: true})
	svc.clock = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func TestService_CreateDefaultsAndValidates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rep, err := svc.Create(ctx, CreateInput{GeneratedBy: 1, Description: strPtr("Resumen semanal")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !rep.GeneratedAt.Equal(fixedNow) || *rep.Description != "Resumen semanal" {
		t.Fatalf("unexpected %+v", rep)
	}

	noDesc, err := svc.Create(ctx, CreateInput{GeneratedBy: 2})
	if err != nil || noDesc.Description != nil {
		t.Fatalf("description is optional: %+v %v", noDesc, err)
	}

	_, err = svc.Create(ctx, CreateInput{GeneratedBy: 9})
	if !apperr.Is(err, apperr.KindConflict) || apperr.DetailOf(err) != "El usuario con ID 9 no existe" {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{}); !apperr.Is(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestService_UpdateAndFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		at := &schema.Timestamp{Time: fixedNow.AddDate(0, 0, -i)}
		if _, err := svc.Create(ctx, CreateInput{GeneratedBy: int64(1 + i%2), GeneratedAt: at}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.Update(ctx, 1, UpdateInput{Description: strPtr("revisado")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.GeneratedBy != 1 || !got.GeneratedAt.Equal(fixedNow) || *got.Description != "revisado" {
		t.Fatalf("unexpected %+v", got)
	}
	other := int64(7)
	if _, err := svc.Update(ctx, 1, UpdateInput{GeneratedBy: &other}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	all, _ := svc.List(ctx, Filters{}, httpapi.Page{Limit: 10})
	if len(all) != 3 || all[0].ID != 1 || all[2].ID != 3 {
		t.Fatalf("expected newest first, got %+v", all)
	}
	from := fixedNow.AddDate(0, 0, -1)
	recent, _ := svc.List(ctx, Filters{From: &from}, httpapi.Page{Limit: 10})
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent reports, got %d", len(recent))
	}
	mine, _ := svc.ListByUser(ctx, 2, httpapi.Page{Limit: 10})
	if len(mine) != 1 || mine[0].ID != 2 {
		t.Fatalf("unexpected reports for user 2: %+v", mine)
	}
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService()).Register(r.Group("/api"))

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := serve(http.MethodPost, "/api/reportes", `{"generado_por":1,"fecha_generado":"2025-01-20T10:30:00Z","descripcion":"Turno mañana"}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"fecha_generado":"2025-01-20T10:30:00Z"`) {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	if w := serve(http.MethodGet, "/api/reportes/usuario/1", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Turno mañana") {
		t.Fatalf("by user: %d %s", w.Code, w.Body.String())
	}
	if w := serve(http.MethodGet, "/api/reportes?fecha_desde=2025-01-21", ""); w.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
	if w := serve(http.MethodGet, "/api/reportes?generado_por=uno", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter: %d", w.Code)
	}
	if w := serve(http.MethodGet, "/api/reportes/3", ""); w.Code != http.StatusNotFound || w.Body.String() != `{"detail":"Reporte con ID 3 no encontrado"}` {
		t.Fatalf("missing: %d %s", w.Code, w.Body.String())
	}
	if w := serve(http.MethodDelete, "/api/reportes/1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
}
