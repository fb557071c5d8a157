package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// CatalogUseCase gives access to products.
type CatalogUseCase struct {
	products repository.ProductRepository
}

func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

func (u *CatalogUseCase) Create(ctx context.Context, cmd CreateProductCommand) (*model.Product, error) {
	if !cmd.Actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	cmd.Title = strings.TrimSpace(cmd.Title)
	cmd.FileURL = strings.TrimSpace(cmd.FileURL)
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return u.products.Create(ctx, model.Product{
		Title:   cmd.Title,
		Price:   cmd.Price.Round(2),
		IsFree:  cmd.IsFree,
		FileURL: cmd.FileURL,
	})
}
