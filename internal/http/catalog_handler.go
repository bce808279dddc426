package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
)

// CatalogHandler is a thin passthrough; the catalog client owns snapshot
// caching concerns.
type CatalogHandler struct {
	catalog *client.CatalogAPI
}

func NewCatalogHandler(catalog *client.CatalogAPI) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.ProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}
