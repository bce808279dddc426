package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidAddress = errors.New("invalid shipping address")

const (
	PaymentMethodCOD     = "cod"
	PaymentMethodPrepaid = "prepaid"

	PaymentStatusCOD  = "COD"
	PaymentStatusPaid = "PAID"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	pinPattern   = regexp.MustCompile(`^\d{6}$`)
)

// ShippingAddress is validated client-side before any order call; the
// upstream Order API performs the authoritative PIN code validation.
type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PINCode string `json:"pin_code"`
	Phone   string `json:"phone"`
}

func (a ShippingAddress) Validate() error {
	for field, value := range map[string]string{
		"address": a.Address,
		"city":    a.City,
		"state":   a.State,
		"country": a.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, field)
		}
	}
	if !phonePattern.MatchString(a.Phone) {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrInvalidAddress)
	}
	if !pinPattern.MatchString(a.PINCode) {
		return fmt.Errorf("%w: pin code must be 6 digits", ErrInvalidAddress)
	}
	return nil
}

// PaymentInfo is filled in only after payment confirmation. For COD the
// Payment API returns a synthetic record with Status "COD" and no real
// transaction id.
type PaymentInfo struct {
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status"`
	Provider      string `json:"provider,omitempty"`
}

// OrderItem is the per-item snapshot submitted to the Order API: what the
// user saw, at the price they saw it.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

// OrderRequest is the order-creation payload. The four monetary fields come
// straight from the pricing quote shown to the user; they are never
// re-derived at submission time.
type OrderRequest struct {
	Items           []OrderItem     `json:"items"`
	ItemsPrice      int64           `json:"items_price"`
	TaxPrice        int64           `json:"tax_price"`
	ShippingPrice   int64           `json:"shipping_price"`
	TotalPrice      int64           `json:"total_price"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentInfo     PaymentInfo     `json:"payment_info"`
}

// Order is the server-acknowledged order, id assigned upstream.
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	ItemsPrice      int64           `json:"items_price"`
	TaxPrice        int64           `json:"tax_price"`
	ShippingPrice   int64           `json:"shipping_price"`
	TotalPrice      int64           `json:"total_price"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentInfo     PaymentInfo     `json:"payment_info"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
