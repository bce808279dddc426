package client

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

// ProviderOrder is the handle the payment provider issues before the user
// completes a prepaid payment.
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentAPI talks to the upstream payment service. Signature verification
// happens upstream; the signature is an opaque input here.
type PaymentAPI struct {
	c *caller
}

func NewPaymentAPI(baseURL string, log *logrus.Entry) *PaymentAPI {
	return &PaymentAPI{c: newCaller("payment", baseURL, log)}
}

func (a *PaymentAPI) CreatePaymentOrder(ctx context.Context, amount int64) (ProviderOrder, error) {
	req := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}

	var order ProviderOrder
	if err := a.c.do(ctx, http.MethodPost, "/api/v1/payment/orders", req, &order, nil); err != nil {
		return ProviderOrder{}, err
	}
	return order, nil
}

// VerifyPayment asks the provider whether the signed callback is genuine.
// A false result is a definitive negative, distinct from a transport error.
func (a *PaymentAPI) VerifyPayment(ctx context.Context, providerOrderID, paymentID, signature string) (bool, error) {
	req := struct {
		ProviderOrderID string `json:"provider_order_id"`
		PaymentID       string `json:"payment_id"`
		Signature       string `json:"signature"`
	}{providerOrderID, paymentID, signature}

	var resp struct {
		Verified bool `json:"verified"`
	}
	if err := a.c.do(ctx, http.MethodPost, "/api/v1/payment/verify", req, &resp, nil); err != nil {
		return false, err
	}
	return resp.Verified, nil
}

// CODPaymentInfo returns the synthetic payment record for cash-on-delivery
// orders; no real transaction exists.
func (a *PaymentAPI) CODPaymentInfo(ctx context.Context) (domain.PaymentInfo, error) {
	var info domain.PaymentInfo
	if err := a.c.do(ctx, http.MethodPost, "/api/v1/payment/cod", nil, &info, nil); err != nil {
		return domain.PaymentInfo{}, err
	}
	return info, nil
}
