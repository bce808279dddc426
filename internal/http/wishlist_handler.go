package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/wishlist"
)

type WishlistHandler struct {
	toggler *wishlist.Toggler
}

func NewWishlistHandler(toggler *wishlist.Toggler) *WishlistHandler {
	return &WishlistHandler{toggler: toggler}
}

type WishlistResponseDTO struct {
	ProductID string `json:"product_id"`
	Wanted    bool   `json:"wanted"`
	State     string `json:"state"`
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	wanted, err := h.toggler.Toggle(r.Context(), productID)
	if err != nil {
		if errors.Is(err, wishlist.ErrToggleInFlight) {
			respondError(w, http.StatusConflict, "toggle_in_flight", err.Error())
			return
		}
		// Rolled back: report the restored value alongside the failure.
		respondJSON(w, http.StatusBadGateway, WishlistResponseDTO{
			ProductID: productID,
			Wanted:    wanted,
			State:     string(h.toggler.StateOf(productID)),
		})
		return
	}

	respondJSON(w, http.StatusOK, WishlistResponseDTO{
		ProductID: productID,
		Wanted:    wanted,
		State:     string(h.toggler.StateOf(productID)),
	})
}
