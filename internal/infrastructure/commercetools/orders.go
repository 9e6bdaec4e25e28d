package commercetools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	exportapp "github.com/commerce-ml/data-exporter/internal/application/export"
	"github.com/commerce-ml/data-exporter/internal/domain/export"
)

// FetchOrders retrieves one page of orders ordered by last modification
func (c *Client) FetchOrders(ctx context.Context) (export.OrderPage, error) {
	query := url.Values{}
	query.Set("sort", "lastModifiedAt")
	query.Set("limit", strconv.Itoa(c.config.PageLimit))

	body, err := c.doRequest(ctx, http.MethodGet, "/orders", query, nil)
	if err != nil {
		return export.OrderPage{}, err
	}

	var page export.OrderPage
	if err := json.Unmarshal(body, &page); err != nil {
		return export.OrderPage{}, fmt.Errorf("%w: failed to parse orders: %v", ErrInvalidResponse, err)
	}

	return page, nil
}

var _ exportapp.OrderSource = (*Client)(nil)
