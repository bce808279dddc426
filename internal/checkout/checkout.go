// Package checkout turns a finalized cart into a submitted order, through
// either the cash-on-delivery path or the prepaid path with upstream
// payment verification.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

var (
	// ErrPaymentNotConfirmed means verification came back negative: the
	// call succeeded but the signature or amount did not check out. No
	// order is created.
	ErrPaymentNotConfirmed = errors.New("payment could not be confirmed")

	ErrUnknownSession = errors.New("unknown checkout session")
)

// OrderPlacer submits assembled orders upstream.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// PaymentProvider is the slice of the payment API the checkout flow needs.
type PaymentProvider interface {
	CreatePaymentOrder(ctx context.Context, amount int64) (client.ProviderOrder, error)
	VerifyPayment(ctx context.Context, providerOrderID, paymentID, signature string) (bool, error)
	CODPaymentInfo(ctx context.Context) (domain.PaymentInfo, error)
}

// Session is one in-flight prepaid checkout, keyed by the provider order
// handle. It snapshots the priced cart at the moment payment began: the
// submitted order is assembled from this snapshot, so cart edits made
// while the payment is pending cannot change the amount the provider
// verified.
type Session struct {
	ProviderOrderID string                 `json:"provider_order_id"`
	Amount          int64                  `json:"amount"`
	Status          Status                 `json:"status"`
	Address         domain.ShippingAddress `json:"-"`
	Items           []domain.LineItem      `json:"-"`
	Quote           pricing.Breakdown      `json:"-"`
}

// Confirmation is the provider callback payload, opaque to this core
// beyond its three fields.
type Confirmation struct {
	ProviderOrderID string `json:"provider_order_id"`
	PaymentID       string `json:"payment_id"`
	Signature       string `json:"signature"`
}

type Service struct {
	orders   OrderPlacer
	payment  PaymentProvider
	policy   pricing.Policy
	provider string
	log      *logrus.Entry

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(orders OrderPlacer, payment PaymentProvider, policy pricing.Policy, provider string, log *logrus.Entry) *Service {
	return &Service{
		orders:   orders,
		payment:  payment,
		policy:   policy,
		provider: provider,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// PlaceCOD submits a cash-on-delivery order immediately: no provider round
// trip beyond fetching the synthetic COD payment record.
func (s *Service) PlaceCOD(ctx context.Context, store *cart.Store, address domain.ShippingAddress) (domain.Order, error) {
	if err := address.Validate(); err != nil {
		return domain.Order{}, err
	}

	items := store.Items()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	quote := pricing.Quote(items, s.policy)

	payInfo, err := s.payment.CODPaymentInfo(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	req, err := AssembleOrder(items, quote, address, domain.PaymentMethodCOD, payInfo)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		// The cart is left untouched so the user can retry.
		return domain.Order{}, err
	}

	s.clearCart(ctx, store, order.ID)
	return order, nil
}

// BeginPrepaid validates the address, quotes the cart, and opens a payment
// order with the provider. The returned session is what the UI completes
// payment against.
func (s *Service) BeginPrepaid(ctx context.Context, store *cart.Store, address domain.ShippingAddress) (Session, error) {
	if err := address.Validate(); err != nil {
		return Session{}, err
	}

	items := store.Items()
	if len(items) == 0 {
		return Session{}, ErrEmptyCart
	}
	quote := pricing.Quote(items, s.policy)

	providerOrder, err := s.payment.CreatePaymentOrder(ctx, quote.Total)
	if err != nil {
		return Session{}, err
	}

	session := &Session{
		ProviderOrderID: providerOrder.ID,
		Amount:          providerOrder.Amount,
		Status:          StatusPaymentPending,
		Address:         address,
		Items:           items,
		Quote:           quote,
	}
	s.mu.Lock()
	s.sessions[providerOrder.ID] = session
	s.mu.Unlock()

	return *session, nil
}

// ConfirmPrepaid finishes a prepaid checkout: the provider callback is
// verified upstream, and only a positive verdict produces an order. The
// order is assembled from the session's snapshot, not the live cart. A
// negative verdict fails the session and creates nothing.
func (s *Service) ConfirmPrepaid(ctx context.Context, store *cart.Store, conf Confirmation) (domain.Order, error) {
	session, err := s.takeSession(conf.ProviderOrderID, StatusPaymentCompleted)
	if err != nil {
		return domain.Order{}, err
	}

	verified, err := s.payment.VerifyPayment(ctx, conf.ProviderOrderID, conf.PaymentID, conf.Signature)
	if err != nil {
		// Transport failure: the session stays pending for an explicit
		// user retry.
		s.setStatus(conf.ProviderOrderID, StatusPaymentPending)
		return domain.Order{}, err
	}
	if !verified {
		s.setStatus(conf.ProviderOrderID, StatusFailed)
		return domain.Order{}, ErrPaymentNotConfirmed
	}

	payInfo := domain.PaymentInfo{
		TransactionID: conf.PaymentID,
		Status:        domain.PaymentStatusPaid,
		Provider:      s.provider,
	}

	req, err := AssembleOrder(session.Items, session.Quote, session.Address, domain.PaymentMethodPrepaid, payInfo)
	if err != nil {
		s.setStatus(conf.ProviderOrderID, StatusFailed)
		return domain.Order{}, err
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.setStatus(conf.ProviderOrderID, StatusPaymentCompleted)
		return domain.Order{}, err
	}

	s.setStatus(conf.ProviderOrderID, StatusCompleted)
	s.clearCart(ctx, store, order.ID)
	return order, nil
}

// SessionStatus reports the current status of a prepaid session.
func (s *Service) SessionStatus(providerOrderID string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[providerOrderID]
	if !ok {
		return "", false
	}
	return session.Status, true
}

// takeSession advances a session toward the requested status, rejecting
// unknown sessions and illegal transitions, such as confirming twice.
func (s *Service) takeSession(providerOrderID string, next Status) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[providerOrderID]
	if !ok {
		return Session{}, ErrUnknownSession
	}
	if !CanTransitionTo(session.Status, next) {
		return Session{}, fmt.Errorf("checkout session %s cannot move from %s to %s",
			providerOrderID, session.Status, next)
	}
	session.Status = next
	return *session, nil
}

// setStatus moves a session to the given status. Terminal sessions are
// removed outright: nothing can transition out of them, and keeping them
// would grow the map for the life of the process.
func (s *Service) setStatus(providerOrderID string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[providerOrderID]
	if !ok {
		return
	}
	if status.IsTerminal() {
		delete(s.sessions, providerOrderID)
		return
	}
	session.Status = status
}

// clearCart empties the store after a successful submission. A persistence
// warning here must not fail an already-created order.
func (s *Service) clearCart(ctx context.Context, store *cart.Store, orderID string) {
	if err := store.Clear(ctx); err != nil {
		var persistErr *cart.PersistenceError
		if errors.As(err, &persistErr) {
			s.log.WithError(err).WithField("order_id", orderID).Warn("cart cleared in memory only")
			return
		}
		s.log.WithError(err).WithField("order_id", orderID).Error("failed to clear cart after order")
	}
}
