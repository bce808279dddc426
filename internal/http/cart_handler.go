// Package http exposes the storefront session API: cart mutations, pricing
// quotes, checkout, and thin catalog/order passthroughs.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

// ProductSource supplies the snapshot taken when an item enters the cart.
type ProductSource interface {
	ProductByID(ctx context.Context, id string) (domain.Product, error)
}

type CartHandler struct {
	manager *cart.Manager
	catalog ProductSource
	policy  pricing.Policy
}

func NewCartHandler(manager *cart.Manager, catalog ProductSource, policy pricing.Policy) *CartHandler {
	return &CartHandler{manager: manager, catalog: catalog, policy: policy}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponseDTO always includes the priced view; Warning is set when a
// mutation succeeded in memory but could not be persisted.
type CartResponseDTO struct {
	Items   []domain.LineItem `json:"items"`
	Quote   pricing.Breakdown `json:"quote"`
	Warning string            `json:"warning,omitempty"`
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session id")
		return nil, false
	}
	s, err := h.manager.Session(r.Context(), sessionID)
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	return s, true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, s *cart.Store, mutationErr error) {
	resp := CartResponseDTO{
		Items: s.Items(),
		Quote: s.Quote(h.policy),
	}
	var persistErr *cart.PersistenceError
	if errors.As(mutationErr, &persistErr) {
		resp.Warning = "cart saved for this session only; it may not survive a restart"
	}
	respondJSON(w, status, resp)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	h.respondCart(w, http.StatusOK, s, nil)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	_, err = s.Add(r.Context(), product, req.Size, req.Quantity)
	if err != nil && !isPersistenceWarning(err) {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusCreated, s, err)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	size := r.URL.Query().Get("size")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	_, err := s.UpdateQuantity(r.Context(), productID, size, req.Quantity)
	if err != nil && !isPersistenceWarning(err) {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, s, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	size := r.URL.Query().Get("size")

	err := s.Remove(r.Context(), productID, size)
	if err != nil && !isPersistenceWarning(err) {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, s, err)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	err := s.Clear(r.Context())
	if err != nil && !isPersistenceWarning(err) {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, s, err)
}

func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Quote(h.policy))
}

func isPersistenceWarning(err error) bool {
	var persistErr *cart.PersistenceError
	return errors.As(err, &persistErr)
}
