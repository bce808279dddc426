// Package pricing derives monetary figures from cart state and an injected
// policy. All functions are pure; amounts are int64 whole currency units.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

// Policy carries the externally supplied pricing constants. It is
// configuration, never hard-coded here.
type Policy struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
	TaxRate               decimal.Decimal
}

// LineQuote is the priced view of one line item.
type LineQuote struct {
	Key       domain.ItemKey `json:"-"`
	UnitPrice int64          `json:"unit_price"`
	Quantity  int            `json:"quantity"`
	Total     int64          `json:"total"`
}

// Breakdown aggregates the cart-level monetary results.
type Breakdown struct {
	Lines    []LineQuote `json:"lines"`
	Subtotal int64       `json:"subtotal"`
	Shipping int64       `json:"shipping"`
	Tax      int64       `json:"tax"`
	Total    int64       `json:"total"`
}

// UnitPrice resolves the effective unit price of a line item. A variant's
// pricing always wins over the product's when one is selected, and at
// whichever level is active a discount price wins over the base price.
func UnitPrice(li domain.LineItem) int64 {
	if li.Variant != nil {
		if li.Variant.DiscountPrice > 0 {
			return li.Variant.DiscountPrice
		}
		return li.Variant.Price
	}
	if li.Product.DiscountPrice > 0 {
		return li.Product.DiscountPrice
	}
	return li.Product.Price
}

// Quote prices a cart snapshot under the given policy. Stock is not
// consulted here; it is enforced at add and checkout time.
func Quote(items []domain.LineItem, policy Policy) Breakdown {
	b := Breakdown{Lines: make([]LineQuote, 0, len(items))}
	for _, li := range items {
		unit := UnitPrice(li)
		line := LineQuote{
			Key:       li.Key(),
			UnitPrice: unit,
			Quantity:  li.Quantity,
			Total:     unit * int64(li.Quantity),
		}
		b.Lines = append(b.Lines, line)
		b.Subtotal += line.Total
	}

	if b.Subtotal < policy.FreeShippingThreshold {
		b.Shipping = policy.FlatShippingFee
	}
	b.Tax = roundTax(b.Subtotal, policy.TaxRate)
	b.Total = b.Subtotal + b.Shipping + b.Tax
	return b
}

// roundTax rounds half away from zero, matching Math.round for positive
// amounts.
func roundTax(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}
