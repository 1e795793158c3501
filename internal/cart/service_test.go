package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(productsTable).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "grocery",
		Price:    decimal.RequireFromString(price),
		StockQty: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(db),
		ProductRepo: products.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func TestAddItemAccumulates(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)

	cart, err := svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = svc.AddItem(ctx, userID, milk.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 5, cart.Items[0].Quantity)
	require.True(t, cart.Total.Equal(decimal.RequireFromString("12.50")))
}

func TestAddItemStockGuard(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 4)

	_, err := svc.AddItem(ctx, userID, milk.ID, 3)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, userID, milk.ID, 2)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))
	require.Contains(t, err.Error(), `Not enough stock for "Whole Milk". Available: 4.`)
}

func TestAddItemValidation(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, uuid.New(), uuid.New(), 0)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.AddItem(ctx, uuid.New(), uuid.New(), 1)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateItemZeroRemoves(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)
	_, err := svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, userID, milk.ID, 0)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.True(t, cart.Total.IsZero())
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)
	_, err := svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, userID, milk.ID, 7)
	require.NoError(t, err)
	require.Equal(t, 7, cart.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, userID, milk.ID, 20)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	_, err = svc.UpdateItem(ctx, userID, uuid.New(), 3)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)
	_, err := svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	cart, err = svc.RemoveItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestClearCart(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)
	bread := seedProduct(t, db, "Baguette", "3.25", 5)
	_, err := svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, bread.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, userID))
	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestCountItemsSumsQuantities(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	count, err := svc.CountItems(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count.Count)

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)
	bread := seedProduct(t, db, "Baguette", "3.25", 5)
	_, err = svc.AddItem(ctx, userID, milk.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, bread.ID, 3)
	require.NoError(t, err)

	count, err = svc.CountItems(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 5, count.Count)

	// other users do not leak into the badge
	count, err = svc.CountItems(ctx, uuid.New())
	require.NoError(t, err)
	require.EqualValues(t, 0, count.Count)
}

func TestPruneStaleBatch(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	milk := seedProduct(t, db, "Whole Milk", "2.50", 10)

	for i := 0; i < 3; i++ {
		stale := &models.CartItem{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			ProductID: milk.ID,
			Quantity:  1,
			UpdatedAt: time.Now().Add(-48 * time.Hour),
		}
		require.NoError(t, db.Create(stale).Error)
	}
	fresh := &models.CartItem{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: milk.ID,
		Quantity:  1,
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(fresh).Error)

	cutoff := time.Now().Add(-24 * time.Hour)

	pruned, err := repo.PruneStaleBatch(ctx, cutoff, 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, pruned)

	pruned, err = repo.PruneStaleBatch(ctx, cutoff, 2)
	require.NoError(t, err)
	require.EqualValues(t, 1, pruned)

	// fresh line survives
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
