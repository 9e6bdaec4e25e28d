package commercetools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	exportapp "github.com/commerce-ml/data-exporter/internal/application/export"
)

// customObjectDraft is the request body for creating or updating a custom object
type customObjectDraft struct {
	Container string `json:"container"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

// WriteRunLog persists a run log entry as a custom object under the given
// container and key. Posting an existing container/key pair overwrites it.
func (c *Client) WriteRunLog(ctx context.Context, container, key string, value any) error {
	draft := customObjectDraft{
		Container: container,
		Key:       key,
		Value:     value,
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("commercetools: failed to encode custom object: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/custom-objects", nil, bytes.NewReader(payload)); err != nil {
		return err
	}

	return nil
}

var _ exportapp.LogSink = (*Client)(nil)
