package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// GormDefaultsRepository implements DefaultsRepository using GORM. Company
// defaults and stock settings are singleton tables maintained by an
// administrator.
type GormDefaultsRepository struct {
	db *gorm.DB
}

var _ erp.DefaultsRepository = (*GormDefaultsRepository)(nil)

// NewGormDefaultsRepository creates a new GormDefaultsRepository
func NewGormDefaultsRepository(db *gorm.DB) *GormDefaultsRepository {
	return &GormDefaultsRepository{db: db}
}

// CompanyDefaults returns the default company record
func (r *GormDefaultsRepository) CompanyDefaults(ctx context.Context) (*erp.CompanyDefaults, error) {
	var defaults erp.CompanyDefaults
	if err := r.db.WithContext(ctx).Order("id").First(&defaults).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &defaults, nil
}

// DefaultWarehouse returns the configured default warehouse name
func (r *GormDefaultsRepository) DefaultWarehouse(ctx context.Context) (string, error) {
	var settings erp.StockSettings
	if err := r.db.WithContext(ctx).Order("id").First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	if settings.DefaultWarehouse == "" {
		return "", shared.ErrNotFound
	}
	return settings.DefaultWarehouse, nil
}
