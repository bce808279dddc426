package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

// OrderAPI talks to the upstream order service.
type OrderAPI struct {
	c *caller
}

func NewOrderAPI(baseURL string, log *logrus.Entry) *OrderAPI {
	return &OrderAPI{c: newCaller("orders", baseURL, log)}
}

// CreateOrder submits the assembled order. The idempotency key lets the
// upstream dedupe a request that is delivered twice in flight.
func (a *OrderAPI) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var order domain.Order
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := a.c.do(ctx, http.MethodPost, "/api/v1/orders", req, &order, headers); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (a *OrderAPI) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	if err := a.c.do(ctx, http.MethodGet, "/api/v1/orders/"+id, nil, &order, nil); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (a *OrderAPI) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := a.c.do(ctx, http.MethodGet, "/api/v1/orders/me", nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}
