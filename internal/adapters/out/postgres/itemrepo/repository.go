package itemrepo

import (
	"context"

	"gorm.io/gorm"
)

// GormItemRepository implements ports.ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM catalog repository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindMissing runs a single IN query and reports every id it did not find.
func (r *GormItemRepository) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return nil, nil
	}

	var found []int64
	if err := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Where("id IN ?", unique).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	exists := make(map[int64]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}

	var missing []int64
	for _, id := range unique {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Add inserts catalog items. Used by the sample catalog seed.
func (r *GormItemRepository) Add(ctx context.Context, items ...ItemDTO) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Count returns the number of catalog items.
func (r *GormItemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ItemDTO{}).Count(&n).Error
	return n, err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
