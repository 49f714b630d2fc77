package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/domain/vendor"
)

// defaultTokenURL is the Login with Amazon token exchange endpoint
const defaultTokenURL = "https://api.amazon.com/auth/o2/token"

// ordersPath is the vendor purchase-orders resource, relative to the
// regional SP-API endpoint configured on the settings record.
const ordersPath = "/vendor/orders/v1/purchaseOrders"

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds the transport configuration for the API client
type Config struct {
	// TokenURL overrides the LWA token endpoint, empty means the default
	TokenURL string
	// TimeoutSeconds is the per-request timeout, zero means 30 seconds
	TimeoutSeconds int
}

// Client implements vendor.OrderAPI against the Amazon Selling Partner
// Vendor Orders API. Credentials are passed per call rather than held on the
// client, so rotated settings take effect on the next pass.
type Client struct {
	tokenURL   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ vendor.OrderAPI = (*Client)(nil)

// NewClient creates a new Vendor API client
func NewClient(config Config, logger *zap.Logger) *Client {
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	timeout := config.TimeoutSeconds
	if timeout == 0 {
		timeout = 30
	}

	return &Client{
		tokenURL: tokenURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}
}

// FetchAccessToken exchanges the refresh token for a short-lived access token
// via the Login with Amazon endpoint.
func (c *Client) FetchAccessToken(ctx context.Context, creds vendor.Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.RefreshToken)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("amazon: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", vendor.ErrTokenRequestFailed, err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", vendor.ErrInvalidResponse, err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response without access_token", vendor.ErrInvalidResponse)
	}

	return resp.AccessToken, nil
}

// PullOrders queries the purchase-orders endpoint for the given window and
// acknowledgement state.
func (c *Client) PullOrders(ctx context.Context, creds vendor.Credentials, query vendor.OrderQuery, accessToken string) ([]vendor.PurchaseOrder, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("MarketplaceIds", creds.MarketplaceID)
	params.Set("createdAfter", query.CreatedAfter)
	params.Set("purchaseOrderState", query.State.String())
	if query.CreatedBefore != "" {
		params.Set("createdBefore", query.CreatedBefore)
	}

	endpoint := strings.TrimRight(creds.Endpoint, "/") + ordersPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to create orders request: %w", err)
	}
	req.Header.Set("x-amz-access-token", accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vendor.ErrOrderRequestFailed, err)
	}

	var resp ordersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", vendor.ErrInvalidResponse, err)
	}

	orders := make([]vendor.PurchaseOrder, 0, len(resp.Payload.Orders))
	for _, raw := range resp.Payload.Orders {
		order, err := c.toDomain(raw)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	c.logger.Debug("Pulled vendor purchase orders",
		zap.String("created_after", query.CreatedAfter),
		zap.Int("count", len(orders)),
	)

	return orders, nil
}

// toDomain converts an API order to the domain representation
func (c *Client) toDomain(raw apiOrder) (vendor.PurchaseOrder, error) {
	items := make([]vendor.OrderItem, 0, len(raw.OrderDetails.Items))
	for _, it := range raw.OrderDetails.Items {
		cost := decimal.Zero
		if it.NetCost.Amount != "" {
			parsed, err := decimal.NewFromString(it.NetCost.Amount)
			if err != nil {
				return vendor.PurchaseOrder{}, fmt.Errorf("%w: netCost %q on order %s", vendor.ErrInvalidResponse, it.NetCost.Amount, raw.PurchaseOrderNumber)
			}
			cost = parsed
		}

		items = append(items, vendor.OrderItem{
			VendorProductID: it.AmazonProductIdentifier,
			Quantity:        decimal.NewFromInt(it.OrderedQuantity.Amount),
			QuantityUnit:    it.OrderedQuantity.UnitOfMeasure,
			NetCost:         cost,
			Currency:        it.NetCost.CurrencyCode,
		})
	}

	return vendor.PurchaseOrder{
		PurchaseOrderNumber: raw.PurchaseOrderNumber,
		State:               vendor.PurchaseOrderState(raw.PurchaseOrderState),
		BuyingPartyID:       raw.OrderDetails.BuyingParty.PartyID,
		PurchaseOrderDate:   raw.OrderDetails.PurchaseOrderDate,
		DeliveryWindow:      raw.OrderDetails.DeliveryWindow,
		Items:               items,
	}, nil
}

// do executes the request and returns the response body
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vendor.ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
