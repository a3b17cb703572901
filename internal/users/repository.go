package users

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
	Create(ctx context.Context, u NewUser) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, f Filters, skip, limit int) ([]User, error)
	Update(ctx context.Context, id int64, p Patch) (User, error)
	Delete(ctx context.Context, id int64) error
}

const userColumns = "id, nombre, email, password, rol"

// PostgresRepo stores users in the usuarios table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}

func (r *PostgresRepo) Create(ctx context.Context, in NewUser) (User, error) {
	const q = `
INSERT INTO usuarios (nombre, email, password, rol)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

	var out User
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, q, in.Name, in.Email, in.PasswordHash, in.Role))
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return User{}, mapWriteError(err, 0, in.Email)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (User, error) {
	q := `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, notFound(id)
	}
	return u, err
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	q := `SELECT ` + userColumns + ` FROM usuarios WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, apperr.NotFound("Usuario con email %s no encontrado", email)
	}
	return u, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filters, skip, limit int) ([]User, error) {
	var args utils.Args
	var conds []string
	if f.Role != nil {
		conds = append(conds, "rol = "+args.Add(*f.Role))
	}
	q := `SELECT ` + userColumns + ` FROM usuarios` + utils.Where(conds) +
		` ORDER BY id LIMIT ` + args.Add(limit) + ` OFFSET ` + args.Add(skip)

	rows, err := r.db.QueryContext(ctx, q, args.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, p Patch) (User, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	var args utils.Args
	var sets []string
	if p.Name != nil {
		sets = append(sets, "nombre = "+args.Add(*p.Name))
	}
	if p.Email != nil {
		sets = append(sets, "email = "+args.Add(*p.Email))
	}
	if p.PasswordHash != nil {
		sets = append(sets, "password = "+args.Add(*p.PasswordHash))
	}
	if p.Role != nil {
		sets = append(sets, "rol = "+args.Add(*p.Role))
	}
	q := `UPDATE usuarios SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + args.Add(id) + ` RETURNING ` + userColumns

	var out User
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, q, args.Values()...))
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		email := ""
		if p.Email != nil {
			email = *p.Email
		}
		return User{}, mapWriteError(err, id, email)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
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
	return mapWriteError(err, id, "")
}

func mapWriteError(err error, id int64, email string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	if _, ok := utils.UniqueViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, fmt.Sprintf("El email %s ya está registrado", email))
	}
	if _, ok := utils.ForeignKeyViolation(err); ok {
		return apperr.Wrap(apperr.KindConflict, err, inUseDetail(id))
	}
	return err
}

func notFound(id int64) error {
	return apperr.NotFound("Usuario con ID %d no encontrado", id)
}

func inUseDetail(id int64) string {
	return fmt.Sprintf("No se puede eliminar el usuario con ID %d: tiene llamadas o reportes asociados", id)
}
