package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DisguisedKairos/supermarket-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestStorefrontMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"*_create_users_table.sql": {
			"CREATE TABLE IF NOT EXISTS users",
			"address TEXT NOT NULL DEFAULT ''",
			"contact TEXT NOT NULL DEFAULT ''",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
		},
		"*_create_products_table.sql": {
			"CREATE TABLE IF NOT EXISTS products",
			"stock_qty INTEGER NOT NULL",
			"image TEXT",
			"CONSTRAINT chk_products_stock_nonnegative CHECK (stock_qty >= 0)",
			"CREATE INDEX IF NOT EXISTS idx_products_category",
		},
		"*_create_cart_items_table.sql": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_product",
		},
		"*_create_invoices_tables.sql": {
			"CREATE TABLE IF NOT EXISTS invoices",
			"CREATE TABLE IF NOT EXISTS invoice_items",
			"product_name TEXT NOT NULL",
		},
		"*_create_wishlist_items_table.sql": {
			"CREATE TABLE IF NOT EXISTS wishlist_items",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_items_user_product",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration file found for %q", pattern)
		}

		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)

		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}
