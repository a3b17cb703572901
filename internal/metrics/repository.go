package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/schema"
	"callcenter-platform/pkg/utils"
)

type Repository interface {
	Create(ctx context.Context, m NewMetric) (Metric, error)
	Get(ctx context.Context, id int64) (Metric, error)
	GetByDate(ctx context.Context, d schema.Date) (Metric, error)
	List(ctx context.Context, f Filters, skip, limit int) ([]Metric, error)
	Update(ctx context.Context, id int64, p Patch) (Metric, error)
	Delete(ctx context.Context, id int64) error
}

const metricColumns = "id, fecha, total_llamadas, promedio_duracion, satisfaccion_cliente"

// PostgresRepo stores metrics in the metricas table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func scanMetric(row interface{ Scan(...any) error }) (Metric, error) {
	var m Metric
	var sat sql.NullFloat64
	err := row.Scan(&m.ID, &m.Date, &m.TotalCalls, &m.AverageDuration, &sat)
	if sat.Valid {
		m.CustomerSatisfaction = &sat.Float64
	}
	return m, err
}

func (r *PostgresRepo) Create(ctx context.Context, in NewMetric) (Metric, error) {
	const q = `
INSERT INTO metricas (fecha, total_llamadas, promedio_duracion, satisfaccion_cliente)
VALUES ($1, $2, $3, $4)
RETURNING ` + metricColumns

	var out Metric
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		m, err := scanMetric(tx.QueryRowContext(ctx, q, in.Date, in.TotalCalls, in.AverageDuration, in.CustomerSatisfaction))
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return Metric{}, mapWriteError(err, 0, in.Date)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Metric, error) {
	q := `SELECT ` + metricColumns + ` FROM metricas WHERE id = $1`
	m, err := scanMetric(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Metric{}, notFound(id)
	}
	return m, err
}

func (r *PostgresRepo) GetByDate(ctx context.Context, d schema.Date) (Metric, error) {
	q := `SELECT ` + metricColumns + ` FROM metricas WHERE fecha = $1`
	m, err := scanMetric(r.db.QueryRowContext(ctx, q, d))
	if errors.Is(err, sql.ErrNoRows) {
		return Metric{}, notFoundForDate(d)
	}
	return m, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filters, skip, limit int) ([]Metric, error) {
	var args utils.Args
	var conds []string
	if f.From != nil {
		conds = append(conds, "fecha >= "+args.Add(schema.NewDate(*f.From)))
	}
	if f.To != nil {
		conds = append(conds, "fecha <= "+args.Add(schema.NewDate(*f.To)))
	}
	q := `SELECT ` + metricColumns + ` FROM metricas` + utils.Where(conds) +
		` ORDER BY fecha DESC LIMIT ` + args.Add(limit) + ` OFFSET ` + args.Add(skip)

	rows, err := r.db.QueryContext(ctx, q, args.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Metric, 0)
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (Metric, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	var args utils.Args
	var sets []string
	if p.Date != nil {
		sets = append(sets, "fecha = "+args.Add(*p.Date))
	}
	if p.TotalCalls != nil {
		sets = append(sets, "total_llamadas = "+args.Add(*p.TotalCalls))
	}
	if p.AverageDuration != nil {
		sets = append(sets, "promedio_duracion = "+args.Add(*p.AverageDuration))
	}
	if p.CustomerSatisfaction != nil {
		sets = append(sets, "satisfaccion_cliente = "+args.Add(*p.CustomerSatisfaction))
	}
	q := `UPDATE metricas SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + metricColumns

	var out Metric
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		m, err := scanMetric(tx.QueryRowContext(ctx, q, args.Values()...))
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		var d schema.Date
		if p.Date != nil {
			d = *p.Date
		}
		return Metric{}, mapWriteError(err, id, d)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM metricas WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	return mapWriteError(err, id, schema.Date{})
}

func mapWriteError(err error, id int64, d schema.Date) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	if _, ok := utils.UniqueViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, duplicateDateDetail(d))
	}
	return err
}

func notFound(id int64) error {
	return apperr.NotFound("Métrica con ID %d no encontrada", id)
}

func notFoundForDate(d schema.Date) error {
	return apperr.NotFound("Métrica para la fecha %s no encontrada", d)
}

func duplicateDateDetail(d schema.Date) string {
	return fmt.Sprintf("Ya existe una métrica para la fecha %s", d)
}
