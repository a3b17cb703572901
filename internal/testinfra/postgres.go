// Package testinfra boots a throwaway Postgres for repository integration tests.
package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"callcenter-platform/migrations"
	"callcenter-platform/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// tables in truncation order.
var tables = []string{"clasificacion_ia", "llamadas", "reportes", "metricas", "usuarios"}

// Postgres owns a migrated database and, when it started one, its container.
type Postgres struct {
	DB *sql.DB

	container *postgres.PostgresContainer
}

// StartPostgres starts a postgres:16 container and applies the embedded
// migrations. If TEST_PG_URL is set that database is reused instead.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	p := &Postgres{}

	url := strings.TrimSpace(os.Getenv("TEST_PG_URL"))
	if url == "" {
		c, err := postgres.Run(ctx,
			"postgres:16",
			postgres.WithDatabase("callcenter"),
			postgres.WithUsername("callcenter"),
			postgres.WithPassword("callcenter"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			return nil, fmt.Errorf("start postgres container: %w", err)
		}
		p.container = c

		url, err = c.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			p.Close(ctx)
			return nil, fmt.Errorf("resolve connection string: %w", err)
		}
	}

	if err := migrations.Up(url); err != nil {
		p.Close(ctx)
		return nil, err
	}

	db, err := utils.OpenPostgres(ctx, "pgx", url, utils.PostgresPoolConfig{MaxOpenConns: 8, ConnectWithin: time.Minute})
	if err != nil {
		p.Close(ctx)
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	p.DB = db
	return p, nil
}

// Reset empties every table and restarts the id sequences.
func (p *Postgres) Reset(ctx context.Context) error {
	q := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := p.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Close tears down resources.
func (p *Postgres) Close(ctx context.Context) {
	if p.DB != nil {
		_ = p.DB.Close()
	}
	if p.container != nil {
		_ = p.container.Terminate(ctx)
	}
}

// SeedUser inserts a user row and returns its id.
func SeedUser(ctx context.Context, db *sql.DB, email, role string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`INSERT INTO usuarios (nombre, email, password, rol) VALUES ($1, $2, 'x', $3) RETURNING id`,
		"Seed", email, role,
	).Scan(&id)
	return id, err
}

// SeedCall inserts a call owned by userID and returns its id.
func SeedCall(ctx context.Context, db *sql.DB, userID int64, callType, outcome string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`INSERT INTO llamadas (usuario_id, numero_cliente, duracion_segundos, tipo, resultado)
		 VALUES ($1, '+34600000000', 120, $2, $3) RETURNING id`,
		userID, callType, outcome,
	).Scan(&id)
	return id, err
}
