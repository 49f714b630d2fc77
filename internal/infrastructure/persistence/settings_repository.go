package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// GormSettingsRepository implements SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

var _ erp.SettingsRepository = (*GormSettingsRepository)(nil)

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the Amazon Settings singleton. The table holds at most one row;
// its absence means the integration has never been configured.
func (r *GormSettingsRepository) Get(ctx context.Context) (*erp.AmazonSettings, error) {
	var settings erp.AmazonSettings
	if err := r.db.WithContext(ctx).Order("id").First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}
