package postgres

import (
	"context"
	"fmt"

	"inflight/internal/adapters/out/postgres/itemrepo"
	"inflight/internal/adapters/out/postgres/messagerepo"
	"inflight/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&itemrepo.ItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&messagerepo.OutgoingMessageDTO{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SampleCatalog is the demo menu loaded into an empty items table.
func SampleCatalog() []itemrepo.ItemDTO {
	return []itemrepo.ItemDTO{
		{Name: "Sandwich", Category: "Food", Price: 5.0},
		{Name: "Salad", Category: "Food", Price: 7.0},
		{Name: "Water", Category: "Drinks", Price: 1.5},
		{Name: "Wine", Category: "Drinks", Price: 8.0},
		{Name: "Coffee", Category: "Drinks", Price: 3.0},
		{Name: "Blanket", Category: "Accessories", Price: 15.0},
		{Name: "Headphones", Category: "Accessories", Price: 25.0},
		{Name: "WiFi", Category: "Services", Price: 10.0, IsService: true},
		{Name: "Priority Boarding", Category: "Services", Price: 12.0, IsService: true},
		{Name: "Tea", Category: "Drinks", Price: 2.5},
		{Name: "Orange Juice", Category: "Drinks", Price: 3.5},
	}
}

// SeedSampleCatalog loads SampleCatalog when the items table is empty and
// reports how many items were inserted.
func SeedSampleCatalog(ctx context.Context, db *gorm.DB) (int, error) {
	repo := itemrepo.NewGormItemRepository(db)

	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	items := SampleCatalog()
	if err = repo.Add(ctx, items...); err != nil {
		return 0, fmt.Errorf("seed items: %w", err)
	}
	return len(items), nil
}
