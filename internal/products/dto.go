package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	"github.com/DisguisedKairos/supermarket-backend/pkg/pagination"
)

// ProductDTO is the catalog transport shape.
type ProductDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
	Image     *string         `json:"image"`
	InStock   bool            `json:"in_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProductDTO carries the fields accepted when adding a listing.
type CreateProductDTO struct {
	Name     string
	Category string
	Price    decimal.Decimal
	StockQty int
	Image    *string
}

// UpdateProductDTO carries a partial product update; nil fields are untouched.
type UpdateProductDTO struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	StockQty *int
	Image    *string
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Query    string
	Category string
	InStock  *bool
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
}

// ListParams bundles filtering, sorting, and paging inputs.
type ListParams struct {
	Filters ListFilters
	SortBy  string
	SortDir string
	Page    pagination.PageParams
}

// ProductsPageDTO is the offset-paginated catalog view.
type ProductsPageDTO struct {
	Products []ProductDTO `json:"products"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Total    int64        `json:"total"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		StockQty:  p.StockQty,
		Image:     p.Image,
		InStock:   p.StockQty > 0,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Name:     c.Name,
		Category: c.Category,
		Price:    c.Price,
		StockQty: c.StockQty,
		Image:    c.Image,
	}
}
