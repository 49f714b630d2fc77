package erp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Master Data Entities
// ---------------------------------------------------------------------------

// Address is a customer address record. The title carries the Amazon
// buying-party identifier; CustomerName is the linked company. Customer
// resolution requires both to be present.
type Address struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"column:title;uniqueIndex"`
	CustomerName string    `gorm:"column:customer_name"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for Address
func (Address) TableName() string {
	return "addresses"
}

// ItemMapping maps an Amazon vendor product identifier to an internal item
// code and its unit of measure.
type ItemMapping struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorProductID string    `gorm:"column:vendor_product_id;uniqueIndex"`
	ItemCode        string    `gorm:"column:item_code"`
	UnitOfMeasure   string    `gorm:"column:unit_of_measure"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for ItemMapping
func (ItemMapping) TableName() string {
	return "item_mappings"
}

// CompanyDefaults is the singleton record holding the default company and its
// currency, read from global settings for every created order.
type CompanyDefaults struct {
	ID              uint   `gorm:"primaryKey"`
	DefaultCompany  string `gorm:"column:default_company"`
	DefaultCurrency string `gorm:"column:default_currency"`
	UpdatedAt       time.Time
}

// TableName returns the table name for CompanyDefaults
func (CompanyDefaults) TableName() string {
	return "company_defaults"
}

// StockSettings is the singleton record holding the default warehouse
type StockSettings struct {
	ID               uint   `gorm:"primaryKey"`
	DefaultWarehouse string `gorm:"column:default_warehouse"`
	UpdatedAt        time.Time
}

// TableName returns the table name for StockSettings
func (StockSettings) TableName() string {
	return "stock_settings"
}

// SalesTaxTemplate is a sales taxes-and-charges template. Exactly one template
// is expected to be flagged default; its lines are copied verbatim onto every
// created order.
type SalesTaxTemplate struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name        string                 `gorm:"column:name;uniqueIndex"`
	TaxCategory string                 `gorm:"column:tax_category"`
	IsDefault   bool                   `gorm:"column:is_default"`
	Lines       []SalesTaxTemplateLine `gorm:"foreignKey:TemplateID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for SalesTaxTemplate
func (SalesTaxTemplate) TableName() string {
	return "sales_tax_templates"
}

// SalesTaxTemplateLine is a single charge row on a tax template
type SalesTaxTemplateLine struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TemplateID           uuid.UUID       `gorm:"column:template_id;type:uuid"`
	ChargeType           string          `gorm:"column:charge_type"`
	AccountHead          string          `gorm:"column:account_head"`
	Description          string          `gorm:"column:description"`
	Rate                 decimal.Decimal `gorm:"column:rate;type:numeric(12,6)"`
	CostCenter           string          `gorm:"column:cost_center"`
	IncludedInPrintRate  bool            `gorm:"column:included_in_print_rate"`
	IncludedInPaidAmount bool            `gorm:"column:included_in_paid_amount"`
}

// TableName returns the table name for SalesTaxTemplateLine
func (SalesTaxTemplateLine) TableName() string {
	return "sales_tax_template_lines"
}

// ---------------------------------------------------------------------------
// Master Data Repository Interfaces
// ---------------------------------------------------------------------------

// AddressRepository provides address lookups by title
type AddressRepository interface {
	// FindByTitle returns the address whose title equals the given
	// buying-party identifier, or shared.ErrNotFound.
	FindByTitle(ctx context.Context, title string) (*Address, error)
}

// ItemMappingRepository resolves vendor product identifiers to item codes
type ItemMappingRepository interface {
	// FindByVendorProductID returns the mapping for the given vendor product
	// identifier, or shared.ErrNotFound when the item is unmapped.
	FindByVendorProductID(ctx context.Context, vendorProductID string) (*ItemMapping, error)
}

// TaxTemplateRepository provides access to tax templates
type TaxTemplateRepository interface {
	// FindDefault returns the template flagged default with its lines
	// preloaded, or shared.ErrNotFound.
	FindDefault(ctx context.Context) (*SalesTaxTemplate, error)
}

// DefaultsRepository provides the company/currency and warehouse defaults
type DefaultsRepository interface {
	// CompanyDefaults returns the default company record
	CompanyDefaults(ctx context.Context) (*CompanyDefaults, error)

	// DefaultWarehouse returns the configured default warehouse name, or
	// shared.ErrNotFound when stock settings carry none.
	DefaultWarehouse(ctx context.Context) (string, error)
}
