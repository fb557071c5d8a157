package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

const productColumns = `id, title, price, is_free, file_url, download_count, created_at`

func scanProduct(row scanner, p *model.Product) error {
	return row.Scan(&p.ID, &p.Title, &p.Price, &p.IsFree, &p.FileURL, &p.DownloadCount, &p.CreatedAt)
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (title, price, is_free, file_url) VALUES ($1, $2, $3, $4)
                   RETURNING ` + productColumns
	var p model.Product
	if err := scanProduct(r.storage.pool.QueryRow(ctx, query, product.Title, product.Price, product.IsFree, product.FileURL), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p model.Product
	if err := scanProduct(r.storage.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) IncrementDownloads(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE products SET download_count = download_count + 1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
