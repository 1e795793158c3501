package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice captures a completed checkout for a user.
type Invoice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:idx_invoices_user_created_at,priority:1"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax       decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	Items     []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_invoices_user_created_at,priority:2"`
}
