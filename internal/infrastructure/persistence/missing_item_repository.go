package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
)

// GormMissingItemRepository implements MissingItemRepository using GORM
type GormMissingItemRepository struct {
	db *gorm.DB
}

var _ erp.MissingItemRepository = (*GormMissingItemRepository)(nil)

// NewGormMissingItemRepository creates a new GormMissingItemRepository
func NewGormMissingItemRepository(db *gorm.DB) *GormMissingItemRepository {
	return &GormMissingItemRepository{db: db}
}

// Save persists a missing-item tracking record
func (r *GormMissingItemRepository) Save(ctx context.Context, record *erp.MissingItemRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
