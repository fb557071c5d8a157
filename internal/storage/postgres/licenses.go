package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

type licenseRepository struct {
	storage *Storage
}

func (r *licenseRepository) Issue(ctx context.Context, orderID int64, key string) (*model.LicenseKey, bool, error) {
	const query = `INSERT INTO license_keys (order_id, key) VALUES ($1, $2)
                   ON CONFLICT (order_id) DO NOTHING
                   RETURNING id, order_id, key, created_at`
	var l model.LicenseKey
	err := r.storage.pool.QueryRow(ctx, query, orderID, key).Scan(&l.ID, &l.OrderID, &l.Key, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByOrder(ctx, orderID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return nil, false, domainErrors.ErrNotFound
		}
		return nil, false, err
	}
	return &l, true, nil
}

func (r *licenseRepository) GetByOrder(ctx context.Context, orderID int64) (*model.LicenseKey, error) {
	const query = `SELECT id, order_id, key, created_at FROM license_keys WHERE order_id=$1`
	var l model.LicenseKey
	if err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&l.ID, &l.OrderID, &l.Key, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *licenseRepository) ListByUser(ctx context.Context, userID int64) ([]model.OwnedLicense, error) {
	const query = `SELECT l.key, o.id, p.id, p.title, l.created_at
                   FROM license_keys l
                   JOIN orders o ON o.id = l.order_id
                   JOIN products p ON p.id = o.product_id
                   WHERE o.user_id=$1
                   ORDER BY l.created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OwnedLicense
	for rows.Next() {
		var l model.OwnedLicense
		if err := rows.Scan(&l.Key, &l.OrderID, &l.ProductID, &l.ProductTitle, &l.IssuedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
