package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

var _ erp.AddressRepository = (*GormAddressRepository)(nil)

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByTitle finds an address by its title
func (r *GormAddressRepository) FindByTitle(ctx context.Context, title string) (*erp.Address, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Address title cannot be empty")
	}
	var address erp.Address
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}
