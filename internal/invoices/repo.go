package invoices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	"github.com/DisguisedKairos/supermarket-backend/pkg/pagination"
)

// Repository encapsulates invoice persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an invoices repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the invoice header together with its items.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// FindByIDForUser loads the invoice with items, scoped to the owner.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&invoice).
		Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByUser returns the user's invoices newest first, with items preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.PageParams) ([]models.Invoice, int64, error) {
	normalized := params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&rows).
		Error
	return rows, total, err
}
