package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/checkout"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps core errors onto HTTP statuses. Upstream API
// messages pass through verbatim with the upstream's status.
func respondDomainError(w http.ResponseWriter, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrVariantRequired),
		errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrPaymentNotConfirmed):
		respondError(w, http.StatusPaymentRequired, "payment_not_confirmed",
			"payment could not be confirmed, retry or contact support")
	case errors.Is(err, checkout.ErrUnknownSession):
		respondError(w, http.StatusNotFound, "unknown_session", err.Error())
	case errors.As(err, &apiErr):
		respondError(w, apiErr.Status, "upstream_error", apiErr.Message)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
