package erp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/amazon-sync/internal/domain/shared"
)

// OrderStatus represents the status of a sales order. Orders created by the
// sync procedure start as DRAFT and are never updated by it afterwards.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// orderNamePrefix is prepended to the Amazon order id to form the order name
const orderNamePrefix = "AMZ-"

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid"`
	ItemCode      string          `gorm:"column:item_code"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(18,4)"`
	Rate          decimal.Decimal `gorm:"column:rate;type:numeric(18,4)"`
	UnitOfMeasure string          `gorm:"column:unit_of_measure"`
	Warehouse     string          `gorm:"column:warehouse"`
	DeliveryDate  string          `gorm:"column:delivery_date"`
	CreatedAt     time.Time
}

// TableName returns the table name for SalesOrderItem
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// SalesOrderTax is a tax line copied verbatim from the default tax template
type SalesOrderTax struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID       `gorm:"column:order_id;type:uuid"`
	ChargeType           string          `gorm:"column:charge_type"`
	AccountHead          string          `gorm:"column:account_head"`
	Description          string          `gorm:"column:description"`
	Rate                 decimal.Decimal `gorm:"column:rate;type:numeric(12,6)"`
	CostCenter           string          `gorm:"column:cost_center"`
	IncludedInPrintRate  bool            `gorm:"column:included_in_print_rate"`
	IncludedInPaidAmount bool            `gorm:"column:included_in_paid_amount"`
}

// TableName returns the table name for SalesOrderTax
func (SalesOrderTax) TableName() string {
	return "sales_order_taxes"
}

// SalesOrder is the aggregate created for each new vendor purchase order. The
// Amazon order id is the idempotency key: at most one aggregate exists per
// distinct purchase order number.
type SalesOrder struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name            string           `gorm:"column:name;uniqueIndex"`
	AmazonOrderID   string           `gorm:"column:amazon_order_id;uniqueIndex"`
	Customer        string           `gorm:"column:customer"`
	CustomerAddress string           `gorm:"column:customer_address"`
	Company         string           `gorm:"column:company"`
	Currency        string           `gorm:"column:currency"`
	TransactionDate string           `gorm:"column:transaction_date"`
	DeliveryDate    string           `gorm:"column:delivery_date"`
	TaxCategory     string           `gorm:"column:tax_category"`
	TaxesAndCharges string           `gorm:"column:taxes_and_charges"`
	SalesPerson     string           `gorm:"column:sales_person"`
	OrderType       string           `gorm:"column:order_type"`
	Status          OrderStatus      `gorm:"column:status"`
	Items           []SalesOrderItem `gorm:"foreignKey:OrderID"`
	Taxes           []SalesOrderTax  `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for SalesOrder
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order header. Customer and currency are
// mandatory: an aggregate without them must never be persisted.
func NewSalesOrder(amazonOrderID, customer, customerAddress, company, currency string) (*SalesOrder, error) {
	if amazonOrderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Amazon order id cannot be empty")
	}
	if customer == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &SalesOrder{
		ID:              uuid.New(),
		Name:            orderNamePrefix + amazonOrderID,
		AmazonOrderID:   amazonOrderID,
		Customer:        customer,
		CustomerAddress: customerAddress,
		Company:         company,
		Currency:        currency,
		OrderType:       "Sales",
		Status:          OrderStatusDraft,
		Items:           make([]SalesOrderItem, 0),
		Taxes:           make([]SalesOrderTax, 0),
	}, nil
}

// AddItem appends a line item to the order
func (o *SalesOrder) AddItem(itemCode, unitOfMeasure, warehouse, deliveryDate string, quantity, rate decimal.Decimal) error {
	if itemCode == "" {
		return shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}

	o.Items = append(o.Items, SalesOrderItem{
		ID:            uuid.New(),
		OrderID:       o.ID,
		ItemCode:      itemCode,
		Quantity:      quantity,
		Rate:          rate,
		UnitOfMeasure: unitOfMeasure,
		Warehouse:     warehouse,
		DeliveryDate:  deliveryDate,
	})
	return nil
}

// ApplyTaxTemplate copies the tax category and every charge row from the
// template onto the order.
func (o *SalesOrder) ApplyTaxTemplate(template *SalesTaxTemplate) {
	o.TaxCategory = template.TaxCategory
	o.TaxesAndCharges = template.Name

	for _, line := range template.Lines {
		o.Taxes = append(o.Taxes, SalesOrderTax{
			ID:                   uuid.New(),
			OrderID:              o.ID,
			ChargeType:           line.ChargeType,
			AccountHead:          line.AccountHead,
			Description:          line.Description,
			Rate:                 line.Rate,
			CostCenter:           line.CostCenter,
			IncludedInPrintRate:  line.IncludedInPrintRate,
			IncludedInPaidAmount: line.IncludedInPaidAmount,
		})
	}
}

// HasItems reports whether the order carries at least one valid line item
func (o *SalesOrder) HasItems() bool {
	return len(o.Items) > 0
}

// Validate checks the persistence invariants: non-empty customer and currency
// and at least one line item.
func (o *SalesOrder) Validate() error {
	if o.Customer == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer cannot be empty")
	}
	if o.Currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if !o.HasItems() {
		return shared.NewDomainError("EMPTY_ORDER", "Sales order must have at least one line item")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Missing Item Tracking
// ---------------------------------------------------------------------------

// MissingItemRecord tracks vendor product identifiers that had no item-code
// mapping when an order was created. Append-only, at most one per order per
// sync pass.
type MissingItemRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SalesOrderID     uuid.UUID `gorm:"column:sales_order_id;type:uuid"`
	SalesOrderName   string    `gorm:"column:sales_order_name"`
	VendorProductIDs []string  `gorm:"column:vendor_product_ids;serializer:json"`
	CreatedAt        time.Time
}

// TableName returns the table name for MissingItemRecord
func (MissingItemRecord) TableName() string {
	return "missing_item_records"
}

// NewMissingItemRecord creates a tracking record for the given order
func NewMissingItemRecord(order *SalesOrder, vendorProductIDs []string) *MissingItemRecord {
	return &MissingItemRecord{
		ID:               uuid.New(),
		SalesOrderID:     order.ID,
		SalesOrderName:   order.Name,
		VendorProductIDs: vendorProductIDs,
	}
}

// ---------------------------------------------------------------------------
// Repository Interfaces
// ---------------------------------------------------------------------------

// SalesOrderRepository defines persistence for sales order aggregates
type SalesOrderRepository interface {
	// ExistsByAmazonOrderID reports whether an aggregate already exists for
	// the given purchase order number.
	ExistsByAmazonOrderID(ctx context.Context, amazonOrderID string) (bool, error)

	// Save persists the aggregate with its items and taxes in one transaction
	Save(ctx context.Context, order *SalesOrder) error
}

// MissingItemRepository persists missing-item tracking records
type MissingItemRepository interface {
	// Save persists a tracking record
	Save(ctx context.Context, record *MissingItemRecord) error
}
