package amazon

// tokenResponse is the Login with Amazon token exchange response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ordersResponse is the envelope of the vendor purchase-orders endpoint
type ordersResponse struct {
	Payload ordersPayload `json:"payload"`
}

type ordersPayload struct {
	Pagination *pagination `json:"pagination,omitempty"`
	Orders     []apiOrder  `json:"orders"`
}

type pagination struct {
	NextToken string `json:"nextToken"`
}

type apiOrder struct {
	PurchaseOrderNumber string       `json:"purchaseOrderNumber"`
	PurchaseOrderState  string       `json:"purchaseOrderState"`
	OrderDetails        orderDetails `json:"orderDetails"`
}

type orderDetails struct {
	PurchaseOrderDate string    `json:"purchaseOrderDate"`
	DeliveryWindow    string    `json:"deliveryWindow"`
	BuyingParty       party     `json:"buyingParty"`
	Items             []apiItem `json:"items"`
}

type party struct {
	PartyID string `json:"partyId"`
}

type apiItem struct {
	AmazonProductIdentifier string   `json:"amazonProductIdentifier"`
	OrderedQuantity         quantity `json:"orderedQuantity"`
	NetCost                 money    `json:"netCost"`
}

type quantity struct {
	Amount        int64  `json:"amount"`
	UnitOfMeasure string `json:"unitOfMeasure"`
}

type money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}
