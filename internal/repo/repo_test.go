package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bobaandbao/storefront/internal/models"
)

func InitTestDB(t *testing.T) *GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
		return nil
	}

	if err := db.AutoMigrate(
		&models.Product{}, &models.ProductVariant{}, &models.CartItem{},
		&models.CheckoutSession{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return New(db)
}
