package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/shared"
)

func TestGormAddressRepository_FindByTitle(t *testing.T) {
	t.Run("finds address by title", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAddressRepository(gormDB)

		addressID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "title", "customer_name"}).
			AddRow(addressID, "FC1", "Amazon EU S.a.r.l.")

		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE title = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("FC1", 1).
			WillReturnRows(rows)

		address, err := repo.FindByTitle(context.Background(), "FC1")

		require.NoError(t, err)
		assert.Equal(t, addressID, address.ID)
		assert.Equal(t, "Amazon EU S.a.r.l.", address.CustomerName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown title", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAddressRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "addresses"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByTitle(context.Background(), "FC-UNKNOWN")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects empty title without querying", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAddressRepository(gormDB)

		_, err := repo.FindByTitle(context.Background(), "")

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemMappingRepository_FindByVendorProductID(t *testing.T) {
	t.Run("finds mapping", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemMappingRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "vendor_product_id", "item_code", "unit_of_measure"}).
			AddRow(uuid.New(), "ASIN-1", "ITEM-001", "Nos")

		mock.ExpectQuery(`SELECT \* FROM "item_mappings" WHERE vendor_product_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ASIN-1", 1).
			WillReturnRows(rows)

		mapping, err := repo.FindByVendorProductID(context.Background(), "ASIN-1")

		require.NoError(t, err)
		assert.Equal(t, "ITEM-001", mapping.ItemCode)
		assert.Equal(t, "Nos", mapping.UnitOfMeasure)
	})

	t.Run("returns ErrNotFound for unmapped item", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemMappingRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "item_mappings"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByVendorProductID(context.Background(), "ASIN-UNKNOWN")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTaxTemplateRepository_FindDefault(t *testing.T) {
	t.Run("finds default template with lines", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTaxTemplateRepository(gormDB)

		templateID := uuid.New()
		templateRows := sqlmock.NewRows([]string{"id", "name", "tax_category", "is_default"}).
			AddRow(templateID, "Germany VAT 19%", "Domestic", true)
		lineRows := sqlmock.NewRows([]string{"id", "template_id", "charge_type", "account_head", "rate"}).
			AddRow(uuid.New(), templateID, "On Net Total", "VAT 19% - DE", "19")

		mock.ExpectQuery(`SELECT \* FROM "sales_tax_templates" WHERE is_default = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(true, 1).
			WillReturnRows(templateRows)
		mock.ExpectQuery(`SELECT \* FROM "sales_tax_template_lines" WHERE "sales_tax_template_lines"\."template_id" = \$1`).
			WithArgs(templateID).
			WillReturnRows(lineRows)

		template, err := repo.FindDefault(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Germany VAT 19%", template.Name)
		require.Len(t, template.Lines, 1)
		assert.Equal(t, "VAT 19% - DE", template.Lines[0].AccountHead)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no default exists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTaxTemplateRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "sales_tax_templates"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindDefault(context.Background())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDefaultsRepository(t *testing.T) {
	t.Run("returns company defaults", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDefaultsRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "default_company", "default_currency"}).
			AddRow(1, "Example GmbH", "EUR")

		mock.ExpectQuery(`SELECT \* FROM "company_defaults" ORDER BY id,.* LIMIT .*`).
			WillReturnRows(rows)

		defaults, err := repo.CompanyDefaults(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Example GmbH", defaults.DefaultCompany)
		assert.Equal(t, "EUR", defaults.DefaultCurrency)
	})

	t.Run("returns default warehouse", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDefaultsRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "default_warehouse"}).
			AddRow(1, "Stores - DE")

		mock.ExpectQuery(`SELECT \* FROM "stock_settings" ORDER BY id,.* LIMIT .*`).
			WillReturnRows(rows)

		warehouse, err := repo.DefaultWarehouse(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Stores - DE", warehouse)
	})

	t.Run("empty warehouse is ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDefaultsRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "default_warehouse"}).
			AddRow(1, "")

		mock.ExpectQuery(`SELECT \* FROM "stock_settings"`).
			WillReturnRows(rows)

		_, err := repo.DefaultWarehouse(context.Background())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
