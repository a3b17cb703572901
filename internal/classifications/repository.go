package classifications

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
	Create(ctx context.Context, c NewClassification) (Classification, error)
	Get(ctx context.Context, id int64) (Classification, error)
	GetByCall(ctx context.Context, callID int64) (Classification, error)
	List(ctx context.Context, f Filters, skip, limit int) ([]Classification, error)
	Update(ctx context.Context, id int64, p Patch) (Classification, error)
	Delete(ctx context.Context, id int64) error
}

const classificationColumns = "id, llamada_id, categoria, confianza, recomendacion_agente"

// PostgresRepo stores classifications in the clasificacion_ia table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func scanClassification(row interface{ Scan(...any) error }) (Classification, error) {
	var c Classification
	var rec sql.NullString
	err := row.Scan(&c.ID, &c.CallID, &c.Category, &c.Confidence, &rec)
	if rec.Valid {
		c.Recommendation = &rec.String
	}
	return c, err
}

func (r *PostgresRepo) Create(ctx context.Context, in NewClassification) (Classification, error) {
	const q = `
INSERT INTO clasificacion_ia (llamada_id, categoria, confianza, recomendacion_agente)
VALUES ($1, $2, $3, $4)
RETURNING ` + classificationColumns

	var out Classification
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		c, err := scanClassification(tx.QueryRowContext(ctx, q, in.CallID, in.Category, in.Confidence, in.Recommendation))
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return Classification{}, mapWriteError(err, 0, in.CallID)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Classification, error) {
	q := `SELECT ` + classificationColumns + ` FROM clasificacion_ia WHERE id = $1`
	c, err := scanClassification(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Classification{}, notFound(id)
	}
	return c, err
}

func (r *PostgresRepo) GetByCall(ctx context.Context, callID int64) (Classification, error) {
	q := `SELECT ` + classificationColumns + ` FROM clasificacion_ia WHERE llamada_id = $1`
	c, err := scanClassification(r.db.QueryRowContext(ctx, q, callID))
	if errors.Is(err, sql.ErrNoRows) {
		return Classification{}, notFoundForCall(callID)
	}
	return c, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filters, skip, limit int) ([]Classification, error) {
	var args utils.Args
	var conds []string
	if f.Category != nil {
		conds = append(conds, "categoria = "+args.Add(*f.Category))
	}
	if f.MinConfidence != nil {
		conds = append(conds, "confianza >= "+args.Add(*f.MinConfidence))
	}
	q := `SELECT ` + classificationColumns + ` FROM clasificacion_ia` + utils.Where(conds) +
		` ORDER BY confianza DESC, id LIMIT ` + args.Add(limit) + ` OFFSET ` + args.Add(skip)

	rows, err := r.db.QueryContext(ctx, q, args.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Classification, 0)
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (Classification, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	var args utils.Args
	var sets []string
	if p.CallID != nil {
		sets = append(sets, "llamada_id = "+args.Add(*p.CallID))
	}
	if p.Category != nil {
		sets = append(sets, "categoria = "+args.Add(*p.Category))
	}
	if p.Confidence != nil {
		sets = append(sets, "confianza = "+args.Add(*p.Confidence))
	}
	if p.Recommendation != nil {
		sets = append(sets, "recomendacion_agente = "+args.Add(*p.Recommendation))
	}
	q := `UPDATE clasificacion_ia SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + classificationColumns

	var out Classification
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		c, err := scanClassification(tx.QueryRowContext(ctx, q, args.Values()...))
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		var callID int64
		if p.CallID != nil {
			callID = *p.CallID
		}
		return Classification{}, mapWriteError(err, id, callID)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM clasificacion_ia WHERE id = $1`, id)
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

func mapWriteError(err error, id, callID int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	if _, ok := utils.UniqueViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, alreadyClassifiedDetail(callID))
	}
	if _, ok := utils.ForeignKeyViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, missingCallDetail(callID))
	}
	return err
}

func notFound(id int64) error {
	return apperr.NotFound("Clasificación IA con ID %d no encontrada", id)
}

func notFoundForCall(callID int64) error {
	return apperr.NotFound("Clasificación IA para la llamada con ID %d no encontrada", callID)
}

func alreadyClassifiedDetail(callID int64) string {
	return fmt.Sprintf("La llamada con ID %d ya tiene una clasificación IA", callID)
}

func missingCallDetail(callID int64) string {
	return fmt.Sprintf("La llamada con ID %d no existe", callID)
}
