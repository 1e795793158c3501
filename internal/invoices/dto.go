package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
)

// InvoiceItemDTO is an immutable purchased line.
type InvoiceItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceDTO is the full invoice view returned after checkout or lookup.
type InvoiceDTO struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
	Items     []InvoiceItemDTO `json:"items"`
	CreatedAt time.Time        `json:"created_at"`
}

// InvoicesPageDTO is the offset-paginated invoice history.
type InvoicesPageDTO struct {
	Invoices []InvoiceDTO `json:"invoices"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Total    int64        `json:"total"`
}

func FromModel(inv *models.Invoice) *InvoiceDTO {
	if inv == nil {
		return nil
	}
	items := make([]InvoiceItemDTO, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return &InvoiceDTO{
		ID:        inv.ID,
		UserID:    inv.UserID,
		Subtotal:  inv.Subtotal,
		Tax:       inv.Tax,
		Total:     inv.Total,
		Items:     items,
		CreatedAt: inv.CreatedAt,
	}
}
