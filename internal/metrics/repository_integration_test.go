//go:build integration

package metrics

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/schema"
	"callcenter-platform/internal/testinfra"
)

var pg *testinfra.Postgres

func TestMain(m *testing.M) {
	ctx := context.Background()
	p, err := testinfra.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pg = p
	code := m.Run()
	p.Close(ctx)
	os.Exit(code)
}

func day(y int, m time.Month, d int) schema.Date {
	return schema.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestPostgresRepo_MetricPerDay(t *testing.T) {
	ctx := context.Background()
	if err := pg.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	repo := NewPostgresRepo(pg.DB)

	sat := 4.5
	jan, err := repo.Create(ctx, NewMetric{Date: day(2024, 1, 15), TotalCalls: 120, AverageDuration: 180.5, CustomerSatisfaction: &sat})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	feb, _ := repo.Create(ctx, NewMetric{Date: day(2024, 2, 1), TotalCalls: 80, AverageDuration: 90})

	if _, err := repo.Create(ctx, NewMetric{Date: day(2024, 1, 15), TotalCalls: 1, AverageDuration: 1}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate date, got %v", err)
	}

	got, err := repo.GetByDate(ctx, day(2024, 1, 15))
	if err != nil || got.ID != jan.ID || got.Date.String() != "2024-01-15" {
		t.Fatalf("get by date: %+v %v", got, err)
	}
	if got.CustomerSatisfaction == nil || *got.CustomerSatisfaction != sat {
		t.Fatalf("satisfaction lost: %+v", got)
	}
	if _, err := repo.GetByDate(ctx, day(2024, 3, 1)); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := repo.List(ctx, Filters{}, 0, 10)
	if err != nil || len(list) != 2 || list[0].ID != feb.ID {
		t.Fatalf("expected newest date first: %+v %v", list, err)
	}
	from := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	if list, _ := repo.List(ctx, Filters{From: &from}, 0, 10); len(list) != 1 || list[0].ID != feb.ID {
		t.Fatalf("from filter: %+v", list)
	}

	moved := day(2024, 2, 1)
	if _, err := repo.Update(ctx, jan.ID, Patch{Date: &moved}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict moving onto a taken date, got %v", err)
	}
	total := 130
	up, err := repo.Update(ctx, jan.ID, Patch{TotalCalls: &total})
	if err != nil || up.TotalCalls != 130 || up.AverageDuration != 180.5 {
		t.Fatalf("update: %+v %v", up, err)
	}
	if err := repo.Delete(ctx, jan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, jan.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
