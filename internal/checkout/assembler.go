package checkout

import (
	"errors"
	"fmt"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

// AssembleOrder builds the order-creation payload from a cart snapshot, the
// quote the user saw, the validated address, and the confirmed payment
// record. The monetary fields are copied from the quote, never re-derived,
// so the submitted total always matches the displayed one. The assembler
// has no side effects; clearing the cart belongs to the calling workflow.
func AssembleOrder(
	items []domain.LineItem,
	quote pricing.Breakdown,
	address domain.ShippingAddress,
	method string,
	payment domain.PaymentInfo,
) (domain.OrderRequest, error) {
	if len(items) == 0 {
		return domain.OrderRequest{}, ErrEmptyCart
	}
	if len(quote.Lines) != len(items) {
		return domain.OrderRequest{}, fmt.Errorf("quote has %d lines for %d items", len(quote.Lines), len(items))
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for i, li := range items {
		line := quote.Lines[i]
		if line.Key != li.Key() {
			return domain.OrderRequest{}, fmt.Errorf("quote line %d does not match cart item %q", i, li.Key())
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Variant:   li.VariantSize(),
			UnitPrice: line.UnitPrice,
			Quantity:  li.Quantity,
			Image:     li.Product.PrimaryImage(),
		})
	}

	return domain.OrderRequest{
		Items:           orderItems,
		ItemsPrice:      quote.Subtotal,
		TaxPrice:        quote.Tax,
		ShippingPrice:   quote.Shipping,
		TotalPrice:      quote.Total,
		ShippingAddress: address,
		PaymentMethod:   method,
		PaymentInfo:     payment,
	}, nil
}
