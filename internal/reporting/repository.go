package reporting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/pkg/utils"
)

type Repository interface {
	Create(ctx context.Context, r NewReport) (Report, error)
	Get(ctx context.Context, id int64) (Report, error)
	List(ctx context.Context, f Filters, skip, limit int) ([]Report, error)
	Update(ctx context.Context, id int64, p Patch) (Report, error)
	Delete(ctx context.Context, id int64) error
}

const reportColumns = "id, generado_por, fecha_generado, descripcion"

// PostgresRepo stores reports in the reportes table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func scanReport(row interface{ Scan(...any) error }) (Report, error) {
	var r Report
	var desc sql.NullString
	err := row.Scan(&r.ID, &r.GeneratedBy, &r.GeneratedAt, &desc)
	if desc.Valid {
		r.Description = &desc.String
	}
	r.GeneratedAt = r.GeneratedAt.UTC()
	return r, err
}

func (r *PostgresRepo) Create(ctx context.Context, in NewReport) (Report, error) {
	const q = `
INSERT INTO reportes (generado_por, fecha_generado, descripcion)
VALUES ($1, $2, $3)
RETURNING ` + reportColumns

	var out Report
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		rep, err := scanReport(tx.QueryRowContext(ctx, q, in.GeneratedBy, in.GeneratedAt, in.Description))
		if err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		return Report{}, mapWriteError(err, 0, in.GeneratedBy)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Report, error) {
	q := `SELECT ` + reportColumns + ` FROM reportes WHERE id = $1`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, notFound(id)
	}
	return rep, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filters, skip, limit int) ([]Report, error) {
	var args utils.Args
	var conds []string
	if f.GeneratedBy != nil {
		conds = append(conds, "generado_por = "+args.Add(*f.GeneratedBy))
	}
	if f.From != nil {
		conds = append(conds, "fecha_generado >= "+args.Add(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "fecha_generado <= "+args.Add(*f.To))
	}
	q := `SELECT ` + reportColumns + ` FROM reportes` + utils.Where(conds) +
		` ORDER BY fecha_generado DESC, id DESC LIMIT ` + args.Add(limit) + ` OFFSET ` + args.Add(skip)

	rows, err := r.db.QueryContext(ctx, q, args.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (Report, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	var args utils.Args
	var sets []string
	if p.GeneratedBy != nil {
		sets = append(sets, "generado_por = "+args.Add(*p.GeneratedBy))
	}
	if p.GeneratedAt != nil {
		sets = append(sets, "fecha_generado = "+args.Add(*p.GeneratedAt))
	}
	if p.Description != nil {
		sets = append(sets, "descripcion = "+args.Add(*p.Description))
	}
	q := `UPDATE reportes SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + reportColumns

	var out Report
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		rep, err := scanReport(tx.QueryRowContext(ctx, q, args.Values()...))
		if err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		var userID int64
		if p.GeneratedBy != nil {
			userID = *p.GeneratedBy
		}
		return Report{}, mapWriteError(err, id, userID)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM reportes WHERE id = $1`, id)
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
	return mapWriteError(err, id, 0)
}

func mapWriteError(err error, id, userID int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	if _, ok := utils.ForeignKeyViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, missingUserDetail(userID))
	}
	return err
}

func notFound(id int64) error {
	return apperr.NotFound("Reporte con ID %d no encontrado", id)
}

func missingUserDetail(userID int64) string {
	return fmt.Sprintf("El usuario con ID %d no existe", userID)
}
