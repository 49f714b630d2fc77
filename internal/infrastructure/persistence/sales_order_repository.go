package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

var _ erp.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// ExistsByAmazonOrderID reports whether an order already exists for the given
// purchase order number.
func (r *GormSalesOrderRepository) ExistsByAmazonOrderID(ctx context.Context, amazonOrderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&erp.SalesOrder{}).
		Where("amazon_order_id = ?", amazonOrderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists the order with its items and taxes in one transaction. The
// unique index on amazon_order_id backs the idempotency guarantee even if two
// passes race past the existence check.
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *erp.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}
