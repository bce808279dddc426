package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
)

type OrdersHandler struct {
	orders *client.OrderAPI
}

func NewOrdersHandler(orders *client.OrderAPI) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) ByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.OrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
