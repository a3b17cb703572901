package calls

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
	Create(ctx context.Context, c NewCall) (Call, error)
	Get(ctx context.Context, id int64) (Call, error)
	List(ctx context.Context, f Filters, skip, limit int) ([]Call, error)
	Update(ctx context.Context, id int64, p Patch) (Call, error)
	Delete(ctx context.Context, id int64) error
}

const callColumns = "id, usuario_id, numero_cliente, duracion_segundos, tipo, resultado, fecha_hora"

// PostgresRepo stores calls in the llamadas table. Deleting a call removes its
// classification through the ON DELETE CASCADE foreign key.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func scanCall(row interface{ Scan(...any) error }) (Call, error) {
	var c Call
	err := row.Scan(&c.ID, &c.UserID, &c.CustomerNumber, &c.DurationSeconds, &c.Type, &c.Outcome, &c.Timestamp)
	if err == nil {
		c.Timestamp = c.Timestamp.UTC()
	}
	return c, err
}

func (r *PostgresRepo) Create(ctx context.Context, in NewCall) (Call, error) {
	const q = `
INSERT INTO llamadas (usuario_id, numero_cliente, duracion_segundos, tipo, resultado, fecha_hora)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + callColumns

	var out Call
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		c, err := scanCall(tx.QueryRowContext(ctx, q,
			in.UserID, in.CustomerNumber, in.DurationSeconds, in.Type, in.Outcome, in.Timestamp))
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return Call{}, mapWriteError(err, 0, in.UserID)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Call, error) {
	q := `SELECT ` + callColumns + ` FROM llamadas WHERE id = $1`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, notFound(id)
	}
	return c, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filters, skip, limit int) ([]Call, error) {
	var args utils.Args
	var conds []string
	if f.UserID != nil {
		conds = append(conds, "usuario_id = "+args.Add(*f.UserID))
	}
	if f.Type != nil {
		conds = append(conds, "tipo = "+args.Add(*f.Type))
	}
	if f.Outcome != nil {
		conds = append(conds, "resultado = "+args.Add(*f.Outcome))
	}
	q := `SELECT ` + callColumns + ` FROM llamadas` + utils.Where(conds) +
		` ORDER BY fecha_hora DESC, id DESC LIMIT ` + args.Add(limit) + ` OFFSET ` + args.Add(skip)

	rows, err := r.db.QueryContext(ctx, q, args.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (Call, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	var args utils.Args
	var sets []string
	if p.UserID != nil {
		sets = append(sets, "usuario_id = "+args.Add(*p.UserID))
	}
	if p.CustomerNumber != nil {
		sets = append(sets, "numero_cliente = "+args.Add(*p.CustomerNumber))
	}
	if p.DurationSeconds != nil {
		sets = append(sets, "duracion_segundos = "+args.Add(*p.DurationSeconds))
	}
	if p.Type != nil {
		sets = append(sets, "tipo = "+args.Add(*p.Type))
	}
	if p.Outcome != nil {
		sets = append(sets, "resultado = "+args.Add(*p.Outcome))
	}
	if p.Timestamp != nil {
		sets = append(sets, "fecha_hora = "+args.Add(*p.Timestamp))
	}
	q := `UPDATE llamadas SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + callColumns

	var out Call
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		c, err := scanCall(tx.QueryRowContext(ctx, q, args.Values()...))
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		var userID int64
		if p.UserID != nil {
			userID = *p.UserID
		}
		return Call{}, mapWriteError(err, id, userID)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM llamadas WHERE id = $1`, id)
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
	return apperr.NotFound("Llamada con ID %d no encontrada", id)
}

func missingUserDetail(userID int64) string {
	return fmt.Sprintf("El usuario con ID %d no existe", userID)
}
