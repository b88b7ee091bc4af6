package model

// Wire schemas for the MercadoPago API. Responses are decoded into these at
// the client boundary; missing required fields there become upstream errors
// instead of ad-hoc checks scattered through the services.

type MPTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

type MPAccountInfo struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	SiteID    string `json:"site_id"`
	CountryID string `json:"country_id"`
}

type MPErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

type MPPreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int32   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type MPBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type MPPreferenceRequest struct {
	Items               []MPPreferenceItem `json:"items"`
	ExternalReference   string             `json:"external_reference"`
	MarketplaceFee      float64            `json:"marketplace_fee"`
	NotificationURL     string             `json:"notification_url"`
	BackURLs            MPBackURLs         `json:"back_urls"`
	StatementDescriptor string             `json:"statement_descriptor"`
	CollectorID         int64              `json:"collector_id,omitempty"`
}

type MPPreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// MPPayment is the authoritative payment record fetched from the processor.
// Notification payloads carry a status too, but only this fetch is trusted.
type MPPayment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	TransactionAmount float64 `json:"transaction_amount"`
	PaymentMethodID   string  `json:"payment_method_id"`
	PaymentTypeID     string  `json:"payment_type_id"`
	ExternalReference string  `json:"external_reference"`
	PreferenceID      string  `json:"preference_id"`
	FeeDetails        []struct {
		Type     string  `json:"type"`
		Amount   float64 `json:"amount"`
		FeePayer string  `json:"fee_payer"`
	} `json:"fee_details"`
}

// ProcessorFee sums the processor-charged fees on the payment.
func (p *MPPayment) ProcessorFee() float64 {
	total := 0.0
	for _, f := range p.FeeDetails {
		total += f.Amount
	}
	return total
}

type MPWebhookNotification struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
