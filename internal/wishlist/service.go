package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

// Service exposes wishlist operations.
type Service interface {
	ListItems(ctx context.Context, userID uuid.UUID) (WishlistDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (WishlistDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (WishlistDTO, error)
	ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *products.Repository
}

type service struct {
	wishlistRepo *Repository
	productRepo  *products.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{wishlistRepo: params.WishlistRepo, productRepo: params.ProductRepo}, nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.buildWishlist(ctx, userID)
}

// AddItem is idempotent: saving an already-saved product is a no-op.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return s.buildWishlist(ctx, userID)
}

// RemoveItem drops the entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.wishlistRepo.RemoveItem(ctx, userID, productID); err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return s.buildWishlist(ctx, userID)
}

// ListProductIDs serves the catalog's wishlisted-product markers.
func (s *service) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.wishlistRepo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

func (s *service) buildWishlist(ctx context.Context, userID uuid.UUID) (WishlistDTO, error) {
	items, err := s.wishlistRepo.ListItems(ctx, userID)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}

	out := WishlistDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}
		out.Items = append(out.Items, itemDTO(item, item.Product))
	}
	return out, nil
}
