package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a downloadable digital good.
type Product struct {
	ID            int64
	Title         string
	Price         decimal.Decimal
	IsFree        bool
	FileURL       string
	DownloadCount int64
	CreatedAt     time.Time
}

// Free reports whether the product is given away without payment.
func (p *Product) Free() bool {
	return p.IsFree || p.Price.IsZero()
}
