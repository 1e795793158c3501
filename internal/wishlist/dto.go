package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
)

// ItemDTO is a saved product with its live catalog fields.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"in_stock"`
	AddedAt   time.Time       `json:"added_at"`
}

// WishlistDTO is the full wishlist view, ordered by product name.
type WishlistDTO struct {
	Items []ItemDTO `json:"items"`
}

func itemDTO(item *models.WishlistItem, product *models.Product) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		InStock:   product.StockQty > 0,
		AddedAt:   item.CreatedAt,
	}
}
