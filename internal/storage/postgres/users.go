package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, login, email, password_hash, role, xp, level, created_at`

func scanUser(row scanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.Role, &u.XP, &u.Level, &u.CreatedAt)
}

func (r *userRepository) Create(ctx context.Context, login, email, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, email, password_hash, role) VALUES ($1, $2, $3, $4)
                   RETURNING ` + userColumns
	var u model.User
	err := scanUser(r.storage.pool.QueryRow(ctx, query, login, email, passwordHash, role), &u)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE login=$1`
	var u model.User
	if err := scanUser(r.storage.pool.QueryRow(ctx, query, login), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var u model.User
	if err := scanUser(r.storage.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role model.Role) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
