package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// GormItemMappingRepository implements ItemMappingRepository using GORM
type GormItemMappingRepository struct {
	db *gorm.DB
}

var _ erp.ItemMappingRepository = (*GormItemMappingRepository)(nil)

// NewGormItemMappingRepository creates a new GormItemMappingRepository
func NewGormItemMappingRepository(db *gorm.DB) *GormItemMappingRepository {
	return &GormItemMappingRepository{db: db}
}

// FindByVendorProductID finds a mapping by the Amazon product identifier
func (r *GormItemMappingRepository) FindByVendorProductID(ctx context.Context, vendorProductID string) (*erp.ItemMapping, error) {
	if vendorProductID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Vendor product id cannot be empty")
	}
	var mapping erp.ItemMapping
	if err := r.db.WithContext(ctx).Where("vendor_product_id = ?", vendorProductID).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}
