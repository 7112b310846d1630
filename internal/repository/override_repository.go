package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cennik/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOverrideNotFound = errors.New("override not found")
	ErrInvalidOverride  = errors.New("invalid override")
)

type OverrideRepository struct {
	db *gorm.DB
}

func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// List returns overrides, optionally restricted to one manufacturer.
func (r *OverrideRepository) List(ctx context.Context, manufacturer string) ([]models.ProductOverride, error) {
	var overrides []models.ProductOverride

	query := r.db.WithContext(ctx).Model(&models.ProductOverride{})
	if manufacturer != "" {
		query = query.Where("manufacturer = ?", manufacturer)
	}
	if err := query.Order("category, product_name").Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return overrides, nil
}

// ByManufacturer indexes a manufacturer's overrides by natural key.
func (r *OverrideRepository) ByManufacturer(ctx context.Context, manufacturer string) (map[models.OverrideKey]models.ProductOverride, error) {
	overrides, err := r.List(ctx, manufacturer)
	if err != nil {
		return nil, err
	}
	out := make(map[models.OverrideKey]models.ProductOverride, len(overrides))
	for _, o := range overrides {
		out[o.Key()] = o
	}
	return out, nil
}

// Get fetches one override by natural key.
func (r *OverrideRepository) Get(ctx context.Context, key models.OverrideKey) (*models.ProductOverride, error) {
	var o models.ProductOverride
	err := r.db.WithContext(ctx).
		Where("manufacturer = ? AND category = ? AND product_name = ?", key.Manufacturer, key.Category, key.ProductName).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("failed to fetch override: %w", err)
	}
	return &o, nil
}

// Upsert creates the override or updates the existing row with the same
// (manufacturer, category, productName).
func (r *OverrideRepository) Upsert(ctx context.Context, o *models.ProductOverride) (*models.ProductOverride, error) {
	o.Manufacturer = strings.TrimSpace(o.Manufacturer)
	o.Category = strings.TrimSpace(o.Category)
	o.ProductName = strings.TrimSpace(o.ProductName)
	if o.Manufacturer == "" || o.Category == "" || o.ProductName == "" {
		return nil, fmt.Errorf("%w: manufacturer, category and productName are required", ErrInvalidOverride)
	}
	if o.PriceFactor <= 0 {
		o.PriceFactor = 1
	}
	if o.Discount != nil && (*o.Discount < 0 || *o.Discount >= 100) {
		return nil, fmt.Errorf("%w: discount must be in [0, 100)", ErrInvalidOverride)
	}
	if o.CustomName != nil {
		name := strings.TrimSpace(*o.CustomName)
		if name == "" {
			o.CustomName = nil
		} else {
			o.CustomName = &name
		}
	}

	now := time.Now().UTC()
	o.ID = ""
	o.CreatedAt = now
	o.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "manufacturer"}, {Name: "category"}, {Name: "product_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"custom_name", "price_factor", "discount", "updated_at"}),
	}).Create(o).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}

	// The id generated for the insert is discarded on conflict; read back the stored row.
	return r.Get(ctx, o.Key())
}

// Delete removes an override by id.
func (r *OverrideRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.ProductOverride{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete override: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// DeleteByKey removes the override of one product, used when the product is
// deleted from its catalog. A missing override is not an error.
func (r *OverrideRepository) DeleteByKey(ctx context.Context, key models.OverrideKey) error {
	err := r.db.WithContext(ctx).
		Where("manufacturer = ? AND category = ? AND product_name = ?", key.Manufacturer, key.Category, key.ProductName).
		Delete(&models.ProductOverride{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	return nil
}

// Rename moves an override to a new product name, used when a catalog
// product key is renamed. A missing override is not an error. The catalog
// holds no product under newName, so a row already stored there is stale and
// is replaced.
func (r *OverrideRepository) Rename(ctx context.Context, key models.OverrideKey, newName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("manufacturer = ? AND category = ? AND product_name = ?", key.Manufacturer, key.Category, newName).
			Delete(&models.ProductOverride{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.ProductOverride{}).
			Where("manufacturer = ? AND category = ? AND product_name = ?", key.Manufacturer, key.Category, key.ProductName).
			Updates(map[string]interface{}{"product_name": newName, "updated_at": time.Now().UTC()}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to rename override: %w", err)
	}
	return nil
}
