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

// FetchProducts retrieves one page of products, ordered by last modification,
// including their published master data and variants.
func (c *Client) FetchProducts(ctx context.Context) (export.ProductPage, error) {
	query := url.Values{}
	query.Set("sort", "lastModifiedAt")
	query.Set("limit", strconv.Itoa(c.config.PageLimit))

	body, err := c.doRequest(ctx, http.MethodGet, "/products", query, nil)
	if err != nil {
		return export.ProductPage{}, err
	}

	var page export.ProductPage
	if err := json.Unmarshal(body, &page); err != nil {
		return export.ProductPage{}, fmt.Errorf("%w: failed to parse products: %v", ErrInvalidResponse, err)
	}

	return page, nil
}

var _ exportapp.ProductSource = (*Client)(nil)
