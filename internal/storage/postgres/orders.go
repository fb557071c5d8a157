package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, user_id, product_id, total, status, transaction_id, slip_url, session_id, created_at, updated_at`

const defaultOrderListLimit = 100

func scanOrder(row scanner, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Total, &o.Status, &o.TransactionID, &o.SlipURL, &o.SessionID, &o.CreatedAt, &o.UpdatedAt)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, order model.NewOrder) (*model.Order, error) {
	const query = `INSERT INTO orders (user_id, product_id, total, status, slip_url) VALUES ($1, $2, $3, $4, $5)
                   RETURNING ` + orderColumns
	var o model.Order
	err := scanOrder(r.storage.pool.QueryRow(ctx, query, order.UserID, order.ProductID, order.Total, order.Status, order.SlipURL), &o)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultOrderListLimit
	}

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status != "" {
		const query = `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at LIMIT $2`
		rows, err = r.storage.pool.Query(ctx, query, filter.Status, limit)
	} else {
		const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
		rows, err = r.storage.pool.Query(ctx, query, limit)
	}
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) SetSession(ctx context.Context, orderID int64, sessionID string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET session_id=$1, updated_at=NOW() WHERE id=$2`, sessionID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// Transition relies on a single conditional UPDATE so that concurrent callers
// racing on the same row serialize on the row lock and only one sees a match.
func (r *orderRepository) Transition(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus, transactionID *string) (*model.Order, error) {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	const updateQuery = `UPDATE orders
                         SET status=$1, transaction_id=COALESCE($2, transaction_id), updated_at=NOW()
                         WHERE id=$3 AND status = ANY($4)
                         RETURNING ` + orderColumns
	var o model.Order
	err := scanOrder(r.storage.pool.QueryRow(ctx, updateQuery, to, transactionID, orderID, allowed), &o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var current model.OrderStatus
	err = r.storage.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return nil, fmt.Errorf("order %d is %s: %w", orderID, current, domainErrors.ErrInvalidTransition)
}

func (r *orderRepository) HasCompleted(ctx context.Context, userID, productID int64) (bool, error) {
	const query = `SELECT EXISTS (
                       SELECT 1 FROM orders WHERE user_id=$1 AND product_id=$2 AND status='COMPLETED'
                   )`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SelectPendingCheckouts claims hosted checkout orders that have not been
// touched for olderThan. Claimed rows get their updated_at bumped so that the
// next sweep skips them until the grace period elapses again.
func (r *orderRepository) SelectPendingCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	const query = `UPDATE orders SET updated_at=NOW()
                   WHERE id IN (
                       SELECT id FROM orders
                       WHERE status='PENDING' AND session_id IS NOT NULL
                         AND updated_at < NOW() - make_interval(secs => $1)
                       ORDER BY updated_at
                       LIMIT $2
                       FOR UPDATE SKIP LOCKED
                   )
                   RETURNING ` + orderColumns
	rows, err := r.storage.pool.Query(ctx, query, olderThan.Seconds(), limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}
