package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
)

// CartItemDTO is a single cart line enriched with the live product state.
type CartItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	StockQty    int             `json:"stock_qty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartDTO is the full cart view returned to the shopper.
type CartDTO struct {
	Items []CartItemDTO   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartCountDTO carries the summed line quantity for the cart badge.
type CartCountDTO struct {
	Count int64 `json:"count"`
}

func itemDTO(item *models.CartItem, product *models.Product) CartItemDTO {
	unit := product.Price
	return CartItemDTO{
		ID:          item.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   unit,
		Quantity:    item.Quantity,
		LineTotal:   unit.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		StockQty:    product.StockQty,
		UpdatedAt:   item.UpdatedAt,
	}
}
