package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing available for purchase.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null;index"`
	Category  string          `gorm:"column:category;not null;index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	StockQty  int             `gorm:"column:stock_qty;not null;default:0"`
	Image     *string         `gorm:"column:image"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_products_created_at_id,priority:1"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
