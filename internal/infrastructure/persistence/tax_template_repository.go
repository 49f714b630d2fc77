package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// GormTaxTemplateRepository implements TaxTemplateRepository using GORM
type GormTaxTemplateRepository struct {
	db *gorm.DB
}

var _ erp.TaxTemplateRepository = (*GormTaxTemplateRepository)(nil)

// NewGormTaxTemplateRepository creates a new GormTaxTemplateRepository
func NewGormTaxTemplateRepository(db *gorm.DB) *GormTaxTemplateRepository {
	return &GormTaxTemplateRepository{db: db}
}

// FindDefault returns the template flagged default with its lines preloaded
func (r *GormTaxTemplateRepository) FindDefault(ctx context.Context) (*erp.SalesTaxTemplate, error) {
	var template erp.SalesTaxTemplate
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("is_default = ?", true).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}
