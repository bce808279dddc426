package client

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AccountAPI backs the wishlist toggle; the optimistic local flip in
// internal/wishlist reconciles against this call.
type AccountAPI struct {
	c *caller
}

func NewAccountAPI(baseURL string, log *logrus.Entry) *AccountAPI {
	return &AccountAPI{c: newCaller("account", baseURL, log)}
}

func (a *AccountAPI) SetWishlisted(ctx context.Context, productID string, wanted bool) error {
	req := struct {
		ProductID string `json:"product_id"`
		Wanted    bool   `json:"wanted"`
	}{productID, wanted}
	return a.c.do(ctx, http.MethodPut, "/api/v1/account/wishlist", req, nil, nil)
}
