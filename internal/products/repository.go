package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
)

// sortColumns is the allow-list of catalog sort keys. Anything else is
// rejected before it reaches the query builder.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"stock_qty":  "stock_qty",
	"created_at": "created_at",
}

// ErrInvalidSort reports a sort key outside the allow-list.
var ErrInvalidSort = fmt.Errorf("invalid sort key")

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List returns a filtered, sorted page of products plus the unpaged total.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	page := params.Page.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := params.Filters
	if search := strings.TrimSpace(filter.Query); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			qb = qb.Where("stock_qty > 0")
		} else {
			qb = qb.Where("stock_qty = 0")
		}
	}
	if filter.PriceMin != nil {
		qb = qb.Where("price >= ?", filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("price <= ?", filter.PriceMax)
	}

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, err := buildOrderClause(params.SortBy, params.SortDir)
	if err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err = qb.
		Order(order).
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error
	return rows, total, err
}

// DecrementStock atomically reduces stock and reports whether enough
// units were available. A zero rows-affected result means the guard failed.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("quantity must be positive")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", id, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Categories returns the distinct category values in the catalog.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &out).
		Error
	return out, err
}

func buildOrderClause(sortBy, sortDir string) (string, error) {
	if strings.TrimSpace(sortBy) == "" {
		return "created_at DESC", nil
	}
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return "", ErrInvalidSort
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortDir), "desc") {
		dir = "DESC"
	}
	return column + " " + dir, nil
}
