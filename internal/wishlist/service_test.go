package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
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
	wishlistItems := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(productsTable).Error)
	require.NoError(t, db.Exec(wishlistItems).Error)
	return db
}

func seedWishlistProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
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

func newWishlistService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(db),
		ProductRepo:  products.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func TestAddItemIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedWishlistProduct(t, db, "Whole Milk", "2.50", 10)

	list, err := svc.AddItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	list, err = svc.AddItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListItemsOrderedByName(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	zucchini := seedWishlistProduct(t, db, "Zucchini", "1.10", 3)
	apples := seedWishlistProduct(t, db, "Apples", "0.80", 0)
	milk := seedWishlistProduct(t, db, "Whole Milk", "2.50", 10)

	for _, p := range []uuid.UUID{zucchini.ID, apples.ID, milk.ID} {
		_, err := svc.AddItem(ctx, userID, p)
		require.NoError(t, err)
	}

	list, err := svc.ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	require.Equal(t, "Apples", list.Items[0].Name)
	require.Equal(t, "Whole Milk", list.Items[1].Name)
	require.Equal(t, "Zucchini", list.Items[2].Name)
	require.False(t, list.Items[0].InStock)
	require.True(t, list.Items[1].InStock)
}

func TestListProductIDs(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	ids, err := svc.ListProductIDs(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, ids)

	milk := seedWishlistProduct(t, db, "Whole Milk", "2.50", 10)
	apples := seedWishlistProduct(t, db, "Apples", "0.80", 0)
	for _, p := range []uuid.UUID{milk.ID, apples.ID} {
		_, err := svc.AddItem(ctx, userID, p)
		require.NoError(t, err)
	}

	ids, err = svc.ListProductIDs(ctx, userID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Contains(t, ids, milk.ID)
	require.Contains(t, ids, apples.ID)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	milk := seedWishlistProduct(t, db, "Whole Milk", "2.50", 10)
	_, err := svc.AddItem(ctx, userID, milk.ID)
	require.NoError(t, err)

	list, err := svc.RemoveItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Empty(t, list.Items)

	list, err = svc.RemoveItem(ctx, userID, milk.ID)
	require.NoError(t, err)
	require.Empty(t, list.Items)
}

func TestWishlistScopedToUser(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()

	milk := seedWishlistProduct(t, db, "Whole Milk", "2.50", 10)

	alice := uuid.New()
	bob := uuid.New()
	_, err := svc.AddItem(ctx, alice, milk.ID)
	require.NoError(t, err)

	list, err := svc.ListItems(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, list.Items)
}
