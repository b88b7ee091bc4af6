package dto

type CartItem struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
	// Price is advisory only, for optimistic UI display. The server always
	// re-resolves prices from the catalog.
	Price float64 `json:"price"`
}

type CreatePaymentRequest struct {
	BarID         string      `json:"bar_id"`
	Items         []*CartItem `json:"items"`
	Total         float64     `json:"total"`
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
}

type CreatePaymentResponse struct {
	PreferenceID     string `json:"preference_id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty"`
	OrderID          string `json:"order_id"`
}

type WebhookResponse struct {
	Message       string `json:"message"`
	OrderID       string `json:"order_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

type BarConnectionStatus struct {
	Connected   bool   `json:"connected"`
	MPUserID    string `json:"mp_user_id,omitempty"`
	ConnectedAt string `json:"connected_at,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
