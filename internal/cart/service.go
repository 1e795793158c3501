package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	CountItems(ctx context.Context, userID uuid.UUID) (CartCountDTO, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *products.Repository
}

type service struct {
	cartRepo    *Repository
	productRepo *products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{cartRepo: params.CartRepo, productRepo: params.ProductRepo}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.buildCart(ctx, userID)
}

// AddItem accumulates quantity onto any existing line for the product and
// validates the combined amount against current stock.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}

	newQty := quantity
	existing, err := s.cartRepo.FindItem(ctx, userID, productID)
	switch {
	case err == nil:
		newQty += existing.Quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = nil
	default:
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	if newQty > product.StockQty {
		return CartDTO{}, stockError(product, newQty)
	}

	item := existing
	if item == nil {
		item = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID}
	}
	item.Quantity = newQty
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}

	return s.buildCart(ctx, userID)
}

// UpdateItem sets the quantity outright; zero or negative removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if quantity > product.StockQty {
		return CartDTO{}, stockError(product, quantity)
	}

	item, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	item.Quantity = quantity
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	return s.buildCart(ctx, userID)
}

// RemoveItem drops the line regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.buildCart(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// CountItems reports the summed quantity across lines, for the cart badge.
func (s *service) CountItems(ctx context.Context, userID uuid.UUID) (CartCountDTO, error) {
	if userID == uuid.Nil {
		return CartCountDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	count, err := s.cartRepo.CountItems(ctx, userID)
	if err != nil {
		return CartCountDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return CartCountDTO{Count: count}, nil
}

func (s *service) buildCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	out := CartDTO{Items: make([]CartItemDTO, 0, len(items)), Total: decimal.Zero}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			// product row vanished between writes; line is unusable
			continue
		}
		dto := itemDTO(item, item.Product)
		out.Items = append(out.Items, dto)
		out.Total = out.Total.Add(dto.LineTotal)
	}
	out.Total = out.Total.Round(2)
	return out, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func stockError(product *models.Product, requested int) error {
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("Not enough stock for %q. Available: %d.", product.Name, product.StockQty),
	).WithDetails(map[string]any{
		"product_id": product.ID,
		"available":  product.StockQty,
		"requested":  requested,
	})
}
