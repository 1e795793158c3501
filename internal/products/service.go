package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

// Service exposes catalog reads plus admin-only writes.
type Service interface {
	ListProducts(ctx context.Context, params ListParams) (ProductsPageDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups dependencies for the products service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService builds a products service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (ProductsPageDTO, error) {
	if params.Filters.PriceMin != nil && params.Filters.PriceMax != nil &&
		params.Filters.PriceMin.GreaterThan(*params.Filters.PriceMax) {
		return ProductsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}

	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		if errors.Is(err, ErrInvalidSort) {
			return ProductsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported sort key")
		}
		return ProductsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := params.Page.Normalize()
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return ProductsPageDTO{
		Products: out,
		Page:     page.Page,
		Limit:    page.Limit,
		Total:    total,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if err := validateProductFields(dto.Name, dto.Category, dto.Price, dto.StockQty); err != nil {
		return nil, err
	}

	model := dto.ToModel()
	model.Name = strings.TrimSpace(model.Name)
	model.Category = strings.TrimSpace(model.Category)

	created, err := s.repo.Create(ctx, model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if dto.Name != nil {
		product.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Category != nil {
		product.Category = strings.TrimSpace(*dto.Category)
	}
	if dto.Price != nil {
		product.Price = *dto.Price
	}
	if dto.StockQty != nil {
		product.StockQty = *dto.StockQty
	}
	if dto.Image != nil {
		product.Image = dto.Image
	}

	if err := validateProductFields(product.Name, product.Category, product.Price, product.StockQty); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(updated), nil
}

// DeleteProduct removes the listing; cart and wishlist references cascade.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func validateProductFields(name, category string, price decimal.Decimal, stockQty int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if stockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	return nil
}
