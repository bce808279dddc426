package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

func TestAssembleOrder(t *testing.T) {
	store := cart.NewStore("sess-1", noopPersistence{})
	ctx := context.Background()

	variantProduct := domain.Product{
		ID:    "p2",
		Name:  "Vetiver Sport",
		Price: 900,
		Variants: []domain.Variant{
			{Size: "50ml", Price: 550, DiscountPrice: 500},
		},
		Images: []string{"vetiver.jpg"},
	}
	_, err := store.Add(ctx, domain.Product{ID: "p1", Name: "Amber Noir", Price: 600}, "", 2)
	require.NoError(t, err)
	_, err = store.Add(ctx, variantProduct, "50ml", 1)
	require.NoError(t, err)

	items := store.Items()
	quote := pricing.Quote(items, testPolicy())

	req, err := AssembleOrder(items, quote, testAddress(), domain.PaymentMethodCOD,
		domain.PaymentInfo{Status: domain.PaymentStatusCOD})
	require.NoError(t, err)

	require.Len(t, req.Items, 2)
	assert.Equal(t, domain.OrderItem{
		ProductID: "p1",
		Name:      "Amber Noir",
		UnitPrice: 600,
		Quantity:  2,
	}, req.Items[0])
	assert.Equal(t, domain.OrderItem{
		ProductID: "p2",
		Name:      "Vetiver Sport",
		Variant:   "50ml",
		UnitPrice: 500,
		Quantity:  1,
		Image:     "vetiver.jpg",
	}, req.Items[1])

	// Monetary fields are copied from the quote, not re-derived.
	assert.Equal(t, quote.Subtotal, req.ItemsPrice)
	assert.Equal(t, quote.Shipping, req.ShippingPrice)
	assert.Equal(t, quote.Tax, req.TaxPrice)
	assert.Equal(t, quote.Total, req.TotalPrice)
}

func TestAssembleOrder_EmptyCart(t *testing.T) {
	_, err := AssembleOrder(nil, pricing.Breakdown{}, testAddress(), domain.PaymentMethodCOD, domain.PaymentInfo{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestAssembleOrder_MismatchedQuote(t *testing.T) {
	li, err := domain.NewLineItem(domain.Product{ID: "p1", Price: 100}, "", 1)
	require.NoError(t, err)

	_, err = AssembleOrder([]domain.LineItem{li}, pricing.Breakdown{}, testAddress(),
		domain.PaymentMethodCOD, domain.PaymentInfo{})
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusInitiated, StatusPaymentPending, true},
		{StatusPaymentPending, StatusPaymentCompleted, true},
		{StatusPaymentCompleted, StatusCompleted, true},
		{StatusPaymentPending, StatusFailed, true},
		{StatusCompleted, StatusPaymentPending, false},
		{StatusFailed, StatusPaymentPending, false},
		{StatusInitiated, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanTransitionTo(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusPaymentPending.IsTerminal())
}
