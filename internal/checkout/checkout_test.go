package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

type fakeOrders struct {
	created []domain.OrderRequest
	err     error
}

func (f *fakeOrders) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	if f.err != nil {
		return domain.Order{}, f.err
	}
	f.created = append(f.created, req)
	return domain.Order{
		ID:            "order-1",
		Items:         req.Items,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
		PaymentInfo:   req.PaymentInfo,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

type fakePayment struct {
	createCalls int
	verifyCalls int
	codCalls    int

	verified  bool
	verifyErr error
	createErr error
}

func (f *fakePayment) CreatePaymentOrder(_ context.Context, amount int64) (client.ProviderOrder, error) {
	f.createCalls++
	if f.createErr != nil {
		return client.ProviderOrder{}, f.createErr
	}
	return client.ProviderOrder{ID: "po-1", Amount: amount, Currency: "INR"}, nil
}

func (f *fakePayment) VerifyPayment(_ context.Context, _, _, _ string) (bool, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return f.verified, nil
}

func (f *fakePayment) CODPaymentInfo(_ context.Context) (domain.PaymentInfo, error) {
	f.codCalls++
	return domain.PaymentInfo{Status: domain.PaymentStatusCOD}, nil
}

type noopPersistence struct{}

func (noopPersistence) Save(context.Context, string, domain.Cart) error { return nil }
func (noopPersistence) Load(context.Context, string) (domain.Cart, bool, error) {
	return domain.Cart{}, false, nil
}

func testPolicy() pricing.Policy {
	return pricing.Policy{
		FreeShippingThreshold: 999,
		FlatShippingFee:       99,
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Address: "14 Rose Street",
		City:    "Mumbai",
		State:   "Maharashtra",
		Country: "India",
		PINCode: "400001",
		Phone:   "9876543210",
	}
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func seededStore(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore("sess-1", noopPersistence{})
	_, err := s.Add(context.Background(), domain.Product{ID: "p1", Name: "Amber Noir", Price: 600, Images: []string{"amber.jpg"}}, "", 2)
	require.NoError(t, err)
	return s
}

func newService(orders OrderPlacer, payment PaymentProvider) *Service {
	return NewService(orders, payment, testPolicy(), "razorpay", testLog())
}

func TestPlaceCOD(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{}
	svc := newService(orders, payment)
	store := seededStore(t)

	order, err := svc.PlaceCOD(context.Background(), store, testAddress())
	require.NoError(t, err)

	// COD never touches the online payment endpoints.
	assert.Zero(t, payment.createCalls)
	assert.Zero(t, payment.verifyCalls)
	assert.Equal(t, 1, payment.codCalls)

	require.Len(t, orders.created, 1)
	req := orders.created[0]
	assert.Equal(t, domain.PaymentStatusCOD, req.PaymentInfo.Status)
	assert.Equal(t, domain.PaymentMethodCOD, req.PaymentMethod)
	assert.Equal(t, int64(1200), req.ItemsPrice)
	assert.Equal(t, int64(0), req.ShippingPrice)
	assert.Equal(t, int64(216), req.TaxPrice)
	assert.Equal(t, int64(1416), req.TotalPrice)

	assert.Equal(t, "order-1", order.ID)
	assert.Empty(t, store.Items(), "cart is cleared after a successful order")
}

func TestPlaceCOD_InvalidAddressBlocksBeforeIO(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{}
	svc := newService(orders, payment)
	store := seededStore(t)

	bad := testAddress()
	bad.Phone = "123"

	_, err := svc.PlaceCOD(context.Background(), store, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	assert.Zero(t, payment.codCalls)
	assert.Empty(t, orders.created)
	assert.Len(t, store.Items(), 1)
}

func TestPlaceCOD_UpstreamRejectionLeavesCart(t *testing.T) {
	orders := &fakeOrders{err: &client.APIError{Status: 409, Message: "stock changed"}}
	payment := &fakePayment{}
	svc := newService(orders, payment)
	store := seededStore(t)

	_, err := svc.PlaceCOD(context.Background(), store, testAddress())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "stock changed", apiErr.Message)
	assert.Len(t, store.Items(), 1, "cart untouched so the user can retry")
}

func TestPlaceCOD_EmptyCart(t *testing.T) {
	payment := &fakePayment{}
	svc := newService(&fakeOrders{}, payment)
	store := cart.NewStore("sess-1", noopPersistence{})

	_, err := svc.PlaceCOD(context.Background(), store, testAddress())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, payment.codCalls, "rejected before any network call")
}

func TestPrepaid_HappyPath(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{verified: true}
	svc := newService(orders, payment)
	store := seededStore(t)

	session, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentPending, session.Status)
	assert.Equal(t, int64(1416), session.Amount, "provider order opened for the quoted total")

	order, err := svc.ConfirmPrepaid(context.Background(), store, Confirmation{
		ProviderOrderID: session.ProviderOrderID,
		PaymentID:       "pay-9",
		Signature:       "sig",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentMethodPrepaid, order.PaymentMethod)
	assert.Equal(t, "pay-9", order.PaymentInfo.TransactionID)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentInfo.Status)
	assert.Equal(t, "razorpay", order.PaymentInfo.Provider)
	assert.Empty(t, store.Items())

	_, ok := svc.SessionStatus(session.ProviderOrderID)
	assert.False(t, ok, "finished sessions are discarded")
}

func TestPrepaid_OrderUsesQuoteFromPaymentStart(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{verified: true}
	svc := newService(orders, payment)
	store := seededStore(t)

	session, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	require.NoError(t, err)
	require.Equal(t, int64(1416), session.Amount)

	// The cart changes while payment is in flight; the submitted order
	// must still carry the amount the provider verified.
	_, err = store.Add(context.Background(), domain.Product{ID: "p2", Name: "Oud Royale", Price: 5000}, "", 1)
	require.NoError(t, err)

	order, err := svc.ConfirmPrepaid(context.Background(), store, Confirmation{
		ProviderOrderID: session.ProviderOrderID,
		PaymentID:       "pay-9",
		Signature:       "sig",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1416), order.TotalPrice)
	require.Len(t, orders.created, 1)
	assert.Equal(t, int64(1416), orders.created[0].TotalPrice)
	require.Len(t, orders.created[0].Items, 1, "only the items the payment covered")
}

func TestBeginPrepaid_ProviderFailure(t *testing.T) {
	payment := &fakePayment{createErr: assert.AnError}
	svc := newService(&fakeOrders{}, payment)
	store := seededStore(t)

	_, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, store.Items(), 1)
}

func TestPrepaid_VerificationFailureCreatesNoOrder(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{verified: false}
	svc := newService(orders, payment)
	store := seededStore(t)

	session, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	require.NoError(t, err)

	_, err = svc.ConfirmPrepaid(context.Background(), store, Confirmation{
		ProviderOrderID: session.ProviderOrderID,
		PaymentID:       "pay-9",
		Signature:       "tampered",
	})
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
	assert.Empty(t, orders.created)
	assert.Len(t, store.Items(), 1)

	_, ok := svc.SessionStatus(session.ProviderOrderID)
	assert.False(t, ok, "failed sessions are discarded")
}

func TestPrepaid_VerifyTransportErrorAllowsRetry(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{verifyErr: assert.AnError}
	svc := newService(orders, payment)
	store := seededStore(t)

	session, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	require.NoError(t, err)

	conf := Confirmation{ProviderOrderID: session.ProviderOrderID, PaymentID: "pay-9", Signature: "sig"}
	_, err = svc.ConfirmPrepaid(context.Background(), store, conf)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentNotConfirmed)
	assert.Empty(t, orders.created)

	// The session is back to pending; an explicit retry succeeds.
	payment.verifyErr = nil
	payment.verified = true
	_, err = svc.ConfirmPrepaid(context.Background(), store, conf)
	require.NoError(t, err)
	require.Len(t, orders.created, 1)
}

func TestPrepaid_ConfirmTwiceRejected(t *testing.T) {
	orders := &fakeOrders{}
	payment := &fakePayment{verified: true}
	svc := newService(orders, payment)
	store := seededStore(t)

	session, err := svc.BeginPrepaid(context.Background(), store, testAddress())
	require.NoError(t, err)

	conf := Confirmation{ProviderOrderID: session.ProviderOrderID, PaymentID: "pay-9", Signature: "sig"}
	_, err = svc.ConfirmPrepaid(context.Background(), store, conf)
	require.NoError(t, err)

	_, err = svc.ConfirmPrepaid(context.Background(), store, conf)
	require.Error(t, err)
	require.Len(t, orders.created, 1, "a completed session cannot create a second order")
}

func TestPrepaid_UnknownSession(t *testing.T) {
	svc := newService(&fakeOrders{}, &fakePayment{})
	store := seededStore(t)

	_, err := svc.ConfirmPrepaid(context.Background(), store, Confirmation{
		ProviderOrderID: "nope", PaymentID: "p", Signature: "s",
	})
	assert.ErrorIs(t, err, ErrUnknownSession)
}
