package model

import "time"

// Order statuses. The webhook reconciliation only ever writes the payment
// states; preparing/ready are fulfillment substates owned by the staff UI.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusRejected  = "rejected"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// Bar is a tenant storefront. The MercadoPago fields are either all unset
// (not connected) or MPUserID + MPAccessToken both present; they are mutated
// exclusively by the OAuth connection flow.
type Bar struct {
	ID             string  `gorm:"primaryKey;size:64;not null"`
	Name           string  `gorm:"size:128;not null"`
	Slug           string  `gorm:"size:64;uniqueIndex;not null"`
	// No column default: with one, gorm drops the zero value on insert and a
	// deactivated bar would be stored active.
	IsActive       bool    `gorm:"not null"`
	CommissionRate float64 `gorm:"type:decimal(5,4);not null"` // fraction, 0-1

	MPUserID         string     `gorm:"size:64;index"`
	MPAccessToken    string     `gorm:"size:256"`
	MPRefreshToken   string     `gorm:"size:256"`
	// Named explicitly: the default naming strategy would split OAuth into
	// o_auth and disagree with the update maps in the repository.
	OAuthConnectedAt *time.Time `gorm:"column:oauth_connected_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem is a catalog entry. Prices are stored in currency minor units and
// are the only price source trusted at order creation.
type MenuItem struct {
	ID         string `gorm:"primaryKey;size:64;not null"`
	BarID      string `gorm:"size:64;index;not null"`
	Name       string `gorm:"size:128;not null"`
	PriceCents int64  `gorm:"not null"`
	Currency   string `gorm:"size:8;not null"`
	Available  bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID         string `gorm:"primaryKey;size:64;not null"`
	BarID      string `gorm:"size:64;index;not null"`
	Status     string `gorm:"size:32;index;not null"`
	TotalCents int64  `gorm:"not null"`
	Currency   string `gorm:"size:8;not null"`

	CustomerName  string `gorm:"size:128"`
	CustomerEmail string `gorm:"size:128"`
	CustomerPhone string `gorm:"size:32"`

	// Set after preference creation / first webhook respectively.
	PreferenceID string `gorm:"size:128;index"`
	MPPaymentID  string `gorm:"size:64;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots the catalog price at order time; rows are immutable
// once created.
type OrderItem struct {
	ID             uint   `gorm:"primaryKey"`
	OrderID        string `gorm:"size:64;index;not null"`
	MenuItemID     string `gorm:"size:64;index;not null"`
	Quantity       int32  `gorm:"not null"`
	UnitPriceCents int64  `gorm:"not null"`
	SubtotalCents  int64  `gorm:"not null"`
	Currency       string `gorm:"size:8;not null"`

	CreatedAt time.Time
}

// Payment mirrors the processor's payment, one row per order. Status keeps
// the external vocabulary verbatim for audit; RawPayload keeps the original
// notification body since processor schemas vary between integrations.
type Payment struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"size:64;uniqueIndex;not null"`
	MPPaymentID string `gorm:"size:64;uniqueIndex;not null"`
	Status      string `gorm:"size:32;index;not null"`

	AmountCents         int64 `gorm:"not null"`
	FeeCents            int64 `gorm:"not null"` // processor-charged fee
	MarketplaceFeeCents int64 `gorm:"not null"` // platform commission
	MerchantCents       int64 `gorm:"not null"` // amount minus commission

	PaymentMethod string `gorm:"size:32"`
	RawPayload    string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
