package repository

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// ProductRepository gives read access to the catalogue.
type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	IncrementDownloads(ctx context.Context, id int64) error
}
