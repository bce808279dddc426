package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
)

// CatalogAPI supplies the product snapshots used when adding to cart and
// when refreshing stale snapshots before checkout.
type CatalogAPI struct {
	c   *caller
	sfg singleflight.Group
}

func NewCatalogAPI(baseURL string, log *logrus.Entry) *CatalogAPI {
	return &CatalogAPI{c: newCaller("catalog", baseURL, log)}
}

// ProductByID fetches one product. Concurrent fetches of the same product
// are collapsed into a single upstream call.
func (a *CatalogAPI) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	v, err, _ := a.sfg.Do(id, func() (interface{}, error) {
		var p domain.Product
		if err := a.c.do(ctx, http.MethodGet, "/api/v1/products/"+id, nil, &p, nil); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (a *CatalogAPI) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var p domain.Product
	if err := a.c.do(ctx, http.MethodGet, "/api/v1/products/slug/"+url.PathEscape(slug), nil, &p, nil); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Products lists the catalog, optionally filtered by category.
func (a *CatalogAPI) Products(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/api/v1/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var products []domain.Product
	if err := a.c.do(ctx, http.MethodGet, path, nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}
