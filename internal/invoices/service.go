package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/cart"
	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
	"github.com/DisguisedKairos/supermarket-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout and exposes invoice history.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*InvoiceDTO, error)
	GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context, userID uuid.UUID, params pagination.PageParams) (InvoicesPageDTO, error)
}

// ServiceParams groups dependencies for the invoices service.
type ServiceParams struct {
	Tx          txRunner
	InvoiceRepo *Repository
	CartRepo    *cart.Repository
	ProductRepo *products.Repository
}

type service struct {
	tx          txRunner
	invoiceRepo *Repository
	cartRepo    *cart.Repository
	productRepo *products.Repository
}

// NewService builds the invoices service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.InvoiceRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		tx:          params.Tx,
		invoiceRepo: params.InvoiceRepo,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Checkout converts the user's cart into an invoice. The whole operation
// runs inside one transaction: stock is decremented with a conditional
// guard per line, the invoice and its snapshots are written, and the cart
// is cleared. Any failed guard rolls everything back.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*InvoiceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var created *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		invoiceRepo := s.invoiceRepo.WithTx(tx)

		items, err := cartRepo.ListItems(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		subtotal := decimal.Zero
		invoiceItems := make([]models.InvoiceItem, 0, len(items))
		for i := range items {
			line := &items[i]
			product := line.Product
			if product == nil {
				loaded, err := productRepo.FindByID(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeStateConflict,
							fmt.Sprintf("product %s is no longer available", line.ProductID))
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
				}
				product = loaded
			}

			ok, err := productRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				// re-read availability for the error message; the tx rolls back
				available := product.StockQty
				if current, err := productRepo.FindByID(ctx, product.ID); err == nil {
					available = current.StockQty
				}
				return pkgerrors.New(
					pkgerrors.CodeStateConflict,
					fmt.Sprintf("Not enough stock for %q. Available: %d.", product.Name, available),
				).WithDetails(map[string]any{
					"product_id": product.ID,
					"available":  available,
					"requested":  line.Quantity,
				})
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)
			invoiceItems = append(invoiceItems, models.InvoiceItem{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
				LineTotal:   lineTotal,
			})
		}

		subtotal = subtotal.Round(2)
		tax := decimal.Zero.Round(2)
		invoice := &models.Invoice{
			ID:       uuid.New(),
			UserID:   userID,
			Subtotal: subtotal,
			Tax:      tax,
			Total:    subtotal.Add(tax).Round(2),
			Items:    invoiceItems,
		}
		if err := invoiceRepo.Create(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
		}

		if err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	// reload outside the tx so timestamps and item ordering are canonical
	reloaded, err := s.invoiceRepo.FindByIDForUser(ctx, created.ID, userID)
	if err != nil {
		return FromModel(created), nil
	}
	return FromModel(reloaded), nil
}

func (s *service) GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, invoiceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return FromModel(invoice), nil
}

func (s *service) ListInvoices(ctx context.Context, userID uuid.UUID, params pagination.PageParams) (InvoicesPageDTO, error) {
	if userID == uuid.Nil {
		return InvoicesPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := params.Normalize()
	rows, total, err := s.invoiceRepo.ListByUser(ctx, userID, normalized)
	if err != nil {
		return InvoicesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}

	out := make([]InvoiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return InvoicesPageDTO{
		Invoices: out,
		Page:     normalized.Page,
		Limit:    normalized.Limit,
		Total:    total,
	}, nil
}
