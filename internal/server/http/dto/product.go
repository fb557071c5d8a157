package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse is the public catalog entry.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	IsFree        bool            `json:"is_free"`
	DownloadCount int64           `json:"download_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateProductRequest is the admin payload for a new product.
type CreateProductRequest struct {
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	IsFree  bool            `json:"is_free"`
	FileURL string          `json:"file_url"`
}
