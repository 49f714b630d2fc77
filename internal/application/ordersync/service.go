package ordersync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/domain/erp"
	"github.com/erp/amazon-sync/internal/domain/shared"
	"github.com/erp/amazon-sync/internal/domain/vendor"
)

// Repositories bundles the ERP persistence ports the sync procedure consumes
type Repositories struct {
	Settings     erp.SettingsRepository
	SalesOrders  erp.SalesOrderRepository
	Addresses    erp.AddressRepository
	ItemMappings erp.ItemMappingRepository
	TaxTemplates erp.TaxTemplateRepository
	Defaults     erp.DefaultsRepository
	MissingItems erp.MissingItemRepository
}

// Service runs the vendor order sync procedure: load credentials, exchange
// the refresh token, pull acknowledged purchase orders for a time window and
// materialize each new one as a sales order aggregate. The whole pass is one
// sequential procedure; orders are processed strictly in order.
type Service struct {
	repos  Repositories
	api    vendor.OrderAPI
	logger *zap.Logger

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewService creates a new order sync service
func NewService(repos Repositories, api vendor.OrderAPI, logger *zap.Logger) *Service {
	return &Service{
		repos:  repos,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// materializeResult classifies the outcome of processing a single order
type materializeResult int

const (
	resultCreated materializeResult = iota
	resultSkipped
	resultFailed
)

// Run executes one sync pass. A token fetch failure aborts the pass; an
// order fetch failure degrades to an empty list; a single order's failure
// never stops the loop over the remaining orders.
func (s *Service) Run(ctx context.Context, opts SyncOptions) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.New(),
		StartedAt: s.now(),
	}

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Amazon Settings record not found, skipping sync pass")
			summary.Disabled = true
			summary.FinishedAt = s.now()
			return summary, nil
		}
		return nil, fmt.Errorf("loading Amazon Settings: %w", err)
	}

	if !settings.Enabled {
		s.logger.Debug("Amazon integration disabled, skipping sync pass")
		summary.Disabled = true
		summary.FinishedAt = s.now()
		return summary, nil
	}

	creds := vendor.Credentials{
		RefreshToken:  settings.RefreshToken,
		ClientID:      settings.LWAClientID,
		ClientSecret:  settings.LWAClientSecret,
		Endpoint:      settings.Endpoint,
		MarketplaceID: settings.MarketplaceID,
	}

	// No token means no further work is possible this pass
	token, err := s.api.FetchAccessToken(ctx, creds)
	if err != nil {
		s.logger.Error("Access token fetch failed, aborting sync pass",
			zap.String("run_id", summary.RunID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	query := vendor.DefaultOrderQuery(s.now())
	if opts.CreatedAfter != "" {
		query.CreatedAfter = opts.CreatedAfter
	}
	query.CreatedBefore = opts.CreatedBefore

	orders, err := s.api.PullOrders(ctx, creds, query, token)
	if err != nil {
		// Best effort: a transient outage degrades to an empty window
		// instead of alarming on every scheduled pass. The summary still
		// records the error so the missed window is visible.
		s.logger.Error("Order fetch failed, treating window as empty",
			zap.String("run_id", summary.RunID.String()),
			zap.String("created_after", query.CreatedAfter),
			zap.Error(err),
		)
		summary.FetchError = err.Error()
		orders = nil
	}

	// Shown-once flag for the missing-items warning, scoped to this pass
	missingWarned := false

	for i := range orders {
		switch s.materialize(ctx, &orders[i], settings, summary, &missingWarned) {
		case resultCreated:
			summary.Created++
		case resultSkipped:
			summary.Skipped++
		case resultFailed:
			summary.Failed++
		}
	}

	summary.FinishedAt = s.now()
	s.logger.Info("Vendor order sync pass completed",
		zap.String("run_id", summary.RunID.String()),
		zap.String("indicator", string(summary.Indicator())),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("missing_items", len(summary.MissingItems)),
	)

	return summary, nil
}

// materialize converts a single purchase order into a sales order aggregate.
// Every failure is logged and scoped to this order; the caller continues with
// the rest of the batch.
func (s *Service) materialize(ctx context.Context, po *vendor.PurchaseOrder, settings *erp.AmazonSettings, summary *Summary, missingWarned *bool) materializeResult {
	log := s.logger.With(zap.String("purchase_order_number", po.PurchaseOrderNumber))

	exists, err := s.repos.SalesOrders.ExistsByAmazonOrderID(ctx, po.PurchaseOrderNumber)
	if err != nil {
		log.Error("Existence check failed", zap.Error(err))
		return resultFailed
	}
	if exists {
		log.Debug("Sales order already exists, skipping")
		return resultSkipped
	}

	if len(po.Items) == 0 {
		log.Error("Purchase order has no items, not creating sales order")
		return resultFailed
	}

	now := s.now()
	deliveryDate := po.DeliveryDate(now)
	transactionDate := po.TransactionDate(now)

	address, err := s.repos.Addresses.FindByTitle(ctx, po.BuyingPartyID)
	if err != nil {
		log.Error("Address lookup failed for buying party",
			zap.String("buying_party_id", po.BuyingPartyID),
			zap.Error(err),
		)
		return resultFailed
	}
	if address.CustomerName == "" {
		log.Error("Address has no linked customer",
			zap.String("buying_party_id", po.BuyingPartyID),
		)
		return resultFailed
	}

	companyDefaults, err := s.repos.Defaults.CompanyDefaults(ctx)
	if err != nil {
		log.Error("Company defaults lookup failed", zap.Error(err))
		return resultFailed
	}

	warehouse, err := s.repos.Defaults.DefaultWarehouse(ctx)
	if err != nil {
		log.Error("Default warehouse not configured in stock settings", zap.Error(err))
		return resultFailed
	}

	taxTemplate, err := s.repos.TaxTemplates.FindDefault(ctx)
	if err != nil {
		log.Error("Default tax template lookup failed", zap.Error(err))
		return resultFailed
	}

	order, err := erp.NewSalesOrder(
		po.PurchaseOrderNumber,
		address.CustomerName,
		address.Title,
		companyDefaults.DefaultCompany,
		companyDefaults.DefaultCurrency,
	)
	if err != nil {
		log.Error("Sales order header invalid", zap.Error(err))
		return resultFailed
	}
	order.TransactionDate = transactionDate
	order.DeliveryDate = deliveryDate
	order.SalesPerson = settings.SalesPerson
	order.ApplyTaxTemplate(taxTemplate)

	missing := make([]string, 0)
	for _, item := range po.Items {
		mapping, err := s.repos.ItemMappings.FindByVendorProductID(ctx, item.VendorProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				missing = append(missing, item.VendorProductID)
				continue
			}
			log.Error("Item mapping lookup failed",
				zap.String("vendor_product_id", item.VendorProductID),
				zap.Error(err),
			)
			return resultFailed
		}

		if err := order.AddItem(mapping.ItemCode, mapping.UnitOfMeasure, warehouse, deliveryDate, item.Quantity, item.NetCost); err != nil {
			// Zero-quantity and similar bad lines are soft: skip the line
			log.Warn("Skipping invalid order line",
				zap.String("vendor_product_id", item.VendorProductID),
				zap.String("item_code", mapping.ItemCode),
				zap.Error(err),
			)
		}
	}

	// An aggregate with zero lines is never persisted. This covers both the
	// single-unmapped-item case and an order whose every line was dropped.
	if !order.HasItems() {
		log.Error("No resolvable line items, abandoning sales order",
			zap.Strings("missing_vendor_product_ids", missing),
		)
		return resultFailed
	}

	if err := order.Validate(); err != nil {
		log.Error("Sales order failed validation", zap.Error(err))
		return resultFailed
	}

	if err := s.repos.SalesOrders.Save(ctx, order); err != nil {
		log.Error("Sales order save failed", zap.Error(err))
		return resultFailed
	}

	if len(missing) > 0 {
		summary.MissingItems = append(summary.MissingItems, missing...)

		record := erp.NewMissingItemRecord(order, missing)
		if err := s.repos.MissingItems.Save(ctx, record); err != nil {
			// The order itself was created; tracking failure is not fatal
			log.Warn("Missing item record save failed", zap.Error(err))
		}

		// Warn at most once per pass to avoid notification spam
		if !*missingWarned {
			*missingWarned = true
			s.logger.Warn("Some vendor items have no item-code mapping, lines were skipped",
				zap.String("run_id", summary.RunID.String()),
				zap.Strings("vendor_product_ids", missing),
			)
		}
	}

	log.Info("Sales order created",
		zap.String("sales_order_name", order.Name),
		zap.Int("line_count", len(order.Items)),
	)
	return resultCreated
}
