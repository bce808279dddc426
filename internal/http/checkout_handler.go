package http

import (
	"encoding/json"
	"net/http"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/checkout"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

type CheckoutHandler struct {
	manager *cart.Manager
	svc     *checkout.Service
}

func NewCheckoutHandler(manager *cart.Manager, svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, svc: svc}
}

type CODRequestDTO struct {
	Address domain.ShippingAddress `json:"address"`
}

type PrepaidRequestDTO struct {
	Address domain.ShippingAddress `json:"address"`
}

type ConfirmRequestDTO struct {
	ProviderOrderID string `json:"provider_order_id"`
	PaymentID       string `json:"payment_id"`
	Signature       string `json:"signature"`
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
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

func (h *CheckoutHandler) PlaceCOD(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CODRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.svc.PlaceCOD(r.Context(), s, req.Address)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) BeginPrepaid(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PrepaidRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session, err := h.svc.BeginPrepaid(r.Context(), s, req.Address)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (h *CheckoutHandler) ConfirmPrepaid(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProviderOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		respondError(w, http.StatusBadRequest, "invalid_request",
			"provider_order_id, payment_id and signature are required")
		return
	}

	order, err := h.svc.ConfirmPrepaid(r.Context(), s, checkout.Confirmation{
		ProviderOrderID: req.ProviderOrderID,
		PaymentID:       req.PaymentID,
		Signature:       req.Signature,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
